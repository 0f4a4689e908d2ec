package client

import (
	"errors"
	"fmt"
)

// ErrSessionEnded is returned when the backend rejected the credential of an
// authenticated call. The session has already been torn down; the caller
// should abandon the operation rather than retry it.
var ErrSessionEnded = errors.New("session ended: authorization rejected")

// ErrInvalidInput is returned before any request is sent when parameters
// fail local validation.
var ErrInvalidInput = errors.New("invalid input")

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// TransportError means no response was received at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsTransport reports whether err is a failure to reach the server.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
