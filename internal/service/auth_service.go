package service

import (
	"context"

	"github.com/lighter/backend/internal/model"
)

// AuthService defines account lifecycle operations: signup, login and
// password reset. Session issuance lives in pkg/auth; this service only
// verifies credentials and manages the stored account.
type AuthService interface {
	// Signup registers a new account. Fails with ErrEmailTaken when the email
	// is already registered, or a ValidationError for malformed input.
	Signup(ctx context.Context, email, password, name string) (*model.User, error)

	// Login verifies credentials. Fails with ErrInvalidCredentials for an
	// unknown email or wrong password, ErrForbidden for suspended accounts.
	Login(ctx context.Context, email, password string) (*model.User, error)

	// RequestPasswordReset emails a reset link when the address is
	// registered. Unknown addresses return nil as well so the endpoint does
	// not reveal which emails exist.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and sets the new password.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// GetUser returns the account for a session's user id.
	GetUser(ctx context.Context, id string) (*model.User, error)
}
