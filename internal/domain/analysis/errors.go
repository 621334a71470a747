package analysis

import (
	"errors"
	"fmt"
)

// ErrEmptyUserID indicates a store call without a user identifier.
var ErrEmptyUserID = errors.New("analysis: empty user id")

// ErrUnknownType indicates an analysis type outside the closed set.
var ErrUnknownType = errors.New("analysis: unknown analysis type")

// ValidationError rejects a request before any network or store call.
// It is distinguishable from completion and save failures so the HTTP
// layer can map it to a 400 instead of a 5xx.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for a field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
