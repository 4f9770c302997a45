package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the coordination layer. These provide consistent,
// checkable errors for guard failures; none of them are retried
// automatically. The messages double as the inline text surfaced to users.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrNotOwner        = errors.New("you can only delete your own messages")
	ErrNotDeleted      = errors.New("message not found or not deleted")
	ErrWindowExpired   = errors.New("restoration window expired")
)

// ValidationError reports a missing or malformed field on a client action.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
