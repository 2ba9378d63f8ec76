package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	// ErrNotFound means a referenced entity id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation means a single-entity invariant was violated (bad date
	// range, out-of-bounds story points, duplicate sprint number, ...).
	ErrValidation = errors.New("validation error")

	// ErrReferential means an operation would violate a protect/cascade
	// policy, e.g. deleting a user still referenced as product owner.
	ErrReferential = errors.New("referential integrity violation")

	// ErrForbidden means the acting user lacks the project relationship
	// required for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable means the persistent store or a downstream collaborator
	// could not be reached. It is an infrastructure outcome, never a
	// business-rule one.
	ErrUnavailable = errors.New("unavailable")
)

// MsgRequired is the shared field message for missing required values.
const MsgRequired = "is required"

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
