package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist. Room
	// lookups against an unknown id surface this, never "available".
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a record with the same identity is already stored.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrStaleSnapshot is returned when a recomputation ran against data older
	// than what is already published. The stale result is discarded, not merged.
	ErrStaleSnapshot = errors.New("application: stale snapshot")
	// ErrScheduleUnavailable is returned when a room has neither a custom nor
	// a default slot pattern. There is no sensible fallback grid.
	ErrScheduleUnavailable = errors.New("application: no slot pattern for room")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
