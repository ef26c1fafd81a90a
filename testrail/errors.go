package testrail

import (
	"errors"
	"fmt"
)

// APIError is returned when TestRail answers with a non-2xx status.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("testrail: %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
}

func newAPIError(operation string, statusCode int, message string) *APIError {
	return &APIError{Operation: operation, StatusCode: statusCode, Message: message}
}

// IsAPIError checks if the error is or wraps an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return err != nil && errors.As(err, &apiErr)
}

// UnknownStatusError is returned when no configured status matches the
// requested label. It signals a configuration mistake rather than a
// communication failure.
type UnknownStatusError struct {
	Label string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("testrail: no status with label %q", e.Label)
}

// IsUnknownStatusError checks if the error is or wraps an
// UnknownStatusError.
func IsUnknownStatusError(err error) bool {
	var statusErr *UnknownStatusError
	return err != nil && errors.As(err, &statusErr)
}
