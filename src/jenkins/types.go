package jenkins

// jobInfo is the subset of the job endpoint response the client reads.
// Jenkins returns builds most recent first.
type jobInfo struct {
	Builds []buildRef `json:"builds"`
}

// buildRef is one entry of a job's build list.
type buildRef struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
}

// Build is the metadata of a single build.
type Build struct {
	Number int `json:"number"`
	// Result is FAILURE, SUCCESS, ABORTED, UNSTABLE, or empty while running.
	Result string `json:"result"`
	URL    string `json:"url"`
	// Timestamp is the build start time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// BuildSummary identifies one failed build in a listing.
type BuildSummary struct {
	Number int
	URL    string
	// Timestamp is the build start time in epoch milliseconds.
	Timestamp int64
}
