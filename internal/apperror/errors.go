package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for closed enumerations. Receiving one of these means the
// caller passed a value outside the model; it is a programming error and must
// never be swallowed into a default.
var (
	ErrUnknownStatus = errors.New("unknown case status")
	ErrUnknownStep   = errors.New("unknown workflow step")
	ErrUnknownFlow   = errors.New("unknown workflow flow")
)

// ErrStepNotAccessible is returned when navigation to a step is blocked by
// the flow's access policy.
var ErrStepNotAccessible = errors.New("step not accessible")

// ErrNotAuthenticated is returned when the upstream service rejects our
// credentials (HTTP 401). The cache is left untouched.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrCaseNotFound maps an upstream 404 for a case or its collected data.
var ErrCaseNotFound = errors.New("case not found")

// UpstreamError wraps a failed call to the service of record. No retry is
// performed at this layer; retry policy belongs to the transport.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream %s failed with status %d: %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %s failed: %v", e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError builds an UpstreamError, mapping well-known status codes
// onto the taxonomy so callers can errors.Is against the sentinels.
func NewUpstreamError(operation string, statusCode int, err error) *UpstreamError {
	switch statusCode {
	case 401:
		err = ErrNotAuthenticated
	case 404:
		err = ErrCaseNotFound
	}
	return &UpstreamError{Operation: operation, StatusCode: statusCode, Err: err}
}

// ValidationError carries field-level messages from request validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}
