package threads

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both absent comments and comments the actor may
	// not see; the two cases are reported identically so existence of
	// invisible content does not leak.
	ErrNotFound = errors.New("comment not found")

	// ErrForbidden means the actor lacks the capability an operation
	// requires on content they do not own.
	ErrForbidden = errors.New("operation not permitted")

	// ErrDepthLimit means a reply would nest deeper than the ceiling.
	ErrDepthLimit = errors.New("reply depth limit reached")
)

// ValidationError rejects malformed input before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func invalidf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
