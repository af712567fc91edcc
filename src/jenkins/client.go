// Package jenkins provides a client for the Jenkins REST API.
//
// The client is scoped to a single job: it lists that job's recent failed
// builds and downloads console logs as capped excerpts. All requests use
// HTTP basic auth with a username and API token.
package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"failsift-agent/src/logger"
	"failsift-agent/src/sanitize"
)

const (
	// DefaultMaxLogChars caps a console log excerpt. The classifier and the
	// AI analyst only ever see this many characters of a build's output.
	DefaultMaxLogChars = 5000

	// DefaultListLimit is how many failed builds a listing returns when the
	// caller passes no positive limit.
	DefaultListLimit = 5

	// resultFailure is the Jenkins build result this tool triages.
	// Other results (SUCCESS, ABORTED, UNSTABLE, null while running) are ignored.
	resultFailure = "FAILURE"
)

// Client is a Jenkins API client bound to one job.
type Client struct {
	baseURL     string
	jobName     string
	username    string
	apiToken    string
	maxLogChars int
	httpClient  *http.Client
	log         logger.Logger
}

// NewClient creates a Jenkins client for the given job. The base URL may
// carry a trailing slash; it is stripped.
func NewClient(baseURL, jobName, username, apiToken string, log logger.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		jobName:     jobName,
		username:    username,
		apiToken:    apiToken,
		maxLogChars: DefaultMaxLogChars,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger.OrSilent(log),
	}
}

// JobName returns the job this client is bound to.
func (c *Client) JobName() string {
	return c.jobName
}

// ListFailedBuilds walks the job's build list from most recent backwards and
// returns builds whose result is FAILURE, in listing order, at most limit of
// them. A build whose detail fetch fails is logged and skipped; only the
// top-level listing request can fail the call.
func (c *Client) ListFailedBuilds(ctx context.Context, limit int) ([]BuildSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var job jobInfo
	url := fmt.Sprintf("%s/job/%s/api/json", c.baseURL, c.jobName)
	if err := c.getJSON(ctx, url, &job); err != nil {
		return nil, fmt.Errorf("failed to list builds for job %s: %w", c.jobName, err)
	}

	failed := make([]BuildSummary, 0, limit)
	for _, ref := range job.Builds {
		if len(failed) == limit {
			break
		}

		build, err := c.GetBuild(ctx, ref.Number)
		if err != nil {
			c.log.Error("skipping build #%d: %v", ref.Number, err)
			continue
		}
		if build.Result != resultFailure {
			continue
		}

		failed = append(failed, BuildSummary{
			Number:    build.Number,
			URL:       build.URL,
			Timestamp: build.Timestamp,
		})
	}

	return failed, nil
}

// GetBuild fetches one build's metadata.
func (c *Client) GetBuild(ctx context.Context, number int) (*Build, error) {
	var build Build
	url := fmt.Sprintf("%s/job/%s/%d/api/json", c.baseURL, c.jobName, number)
	if err := c.getJSON(ctx, url, &build); err != nil {
		return nil, err
	}
	return &build, nil
}

// FetchConsoleLog downloads a build's console output, strips terminal escape
// noise and timestamper prefixes, and caps the result at the excerpt budget.
func (c *Client) FetchConsoleLog(ctx context.Context, number int) (string, error) {
	url := fmt.Sprintf("%s/job/%s/%d/consoleText", c.baseURL, c.jobName, number)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	logBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read log content: %w", err)
	}

	excerpt := sanitize.Clean(string(logBytes))
	return sanitize.TruncateLog(excerpt, c.maxLogChars), nil
}

// getJSON fetches url with basic auth and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
