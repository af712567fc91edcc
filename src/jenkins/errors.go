package jenkins

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrAuthFailed indicates Jenkins rejected the configured credentials.
	ErrAuthFailed = errors.New("jenkins authentication failed")

	// ErrNotFound indicates the job or build does not exist on the server.
	ErrNotFound = errors.New("jenkins resource not found")
)

// statusError turns a non-200 response into an error, wrapping the matching
// sentinel so callers can branch with errors.Is.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	err := fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
