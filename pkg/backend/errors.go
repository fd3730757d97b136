package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is matched by every StatusError.
	ErrUnexpectedStatus = errors.New("backend: unexpected response status")
	// ErrDecodeResponse is returned when a response body is not valid JSON.
	ErrDecodeResponse = errors.New("backend: failed to decode response")
	// ErrEmptyID is returned by MarkRead for an empty notification id.
	ErrEmptyID = errors.New("backend: empty notification id")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend: %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("backend: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrUnexpectedStatus) match.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}
