package account

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrValidationFailed   = errors.New("validation_failed")
	ErrDuplicateEmail     = errors.New("duplicate_email")
	ErrDuplicatePhone     = errors.New("duplicate_phone")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// ValidationError names the registration field that failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error() + ": " + e.Field + " " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
