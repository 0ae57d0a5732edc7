package backend

import "fmt"

// ValidationError reports a request that is missing a required field. It is
// raised client-side, before any network traffic.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid request: %s is required", e.Field)
}

// TransportError reports a network failure or a non-2xx response from the
// backend on submit or status. StatusCode is zero when the request never
// produced a response.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend request %s failed (HTTP %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("backend request %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func missing(field string) error {
	return &ValidationError{Field: field}
}
