package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by services. Handlers map these to HTTP statuses;
// anything else is treated as a 500.
var (
	// ErrUnauthenticated: no valid session backs the acting user.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden: the acting user is authenticated but not permitted
	// (e.g. responding to support messages without being an admin).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound: the referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyAnswered: the target message already received its response.
	// The transition is terminal, so retrying cannot succeed.
	ErrAlreadyAnswered = errors.New("message already answered")

	// ErrAlreadyEnded: the target experiment run is no longer active.
	ErrAlreadyEnded = errors.New("experiment run already ended")

	// ErrRunActive: the user already has an active run of this experiment.
	ErrRunActive = errors.New("experiment already active")

	// ErrInvalidCredentials: login with unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken: signup with an email that is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// ValidationError reports malformed input the caller can correct.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
