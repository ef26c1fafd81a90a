package prerun

import (
	"errors"
	"fmt"
)

// ErrAnalysisTimeout signals that the stability fan-out as a whole
// exceeded its deadline. In-flight requests are discarded, not applied.
var ErrAnalysisTimeout = errors.New("stability analysis timed out")

// StatusLookupError represents a configuration mistake: a status-name
// filter that does not exist in TestRail. It is fatal and aborts the run
// before any filtering occurs.
type StatusLookupError struct {
	Label string
	Err   error
}

func (e *StatusLookupError) Error() string {
	return fmt.Sprintf("unknown status label %q: %v", e.Label, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *StatusLookupError) Unwrap() error {
	return e.Err
}

// IsStatusLookupError checks if the error is or wraps a StatusLookupError
func IsStatusLookupError(err error) bool {
	var statusErr *StatusLookupError
	return err != nil && errors.As(err, &statusErr)
}

// ResolveError represents a transient failure (HTTP error or aggregate
// timeout) while resolving the tag set. The suite filter recovers from
// it by excluding every test for the rest of the run.
type ResolveError struct {
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("tag resolution failed: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *ResolveError) Unwrap() error {
	return e.Err
}

// NewResolveError creates a new ResolveError
func NewResolveError(err error) *ResolveError {
	return &ResolveError{Err: err}
}

// IsResolveError checks if the error is or wraps a ResolveError
func IsResolveError(err error) bool {
	var resolveErr *ResolveError
	return err != nil && errors.As(err, &resolveErr)
}
