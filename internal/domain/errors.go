package domain

import "errors"

var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnauthorizedTransition = errors.New("transition not permitted for this role and status")
	ErrForbiddenSelfDelete    = errors.New("cannot delete own account")
	ErrValidationFailed       = errors.New("validation failed")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("resource conflict")
)

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
