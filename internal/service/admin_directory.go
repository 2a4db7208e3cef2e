package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lighter/backend/internal/repository"
)

// AdminDirectory resolves whether an authenticated user is an administrator.
// The message workflow treats "is admin" as an opaque boolean it can query.
type AdminDirectory interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// emailAllowlistDirectory marks a user as admin when their account email is on
// the configured allowlist. Suspended accounts lose admin rights.
type emailAllowlistDirectory struct {
	userRepo repository.UserRepository
	emails   map[string]bool
}

// NewAdminDirectory creates an AdminDirectory backed by the ADMIN_EMAILS
// allowlist. Addresses are matched case-insensitively.
func NewAdminDirectory(userRepo repository.UserRepository, adminEmails []string) AdminDirectory {
	set := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = true
		}
	}
	return &emailAllowlistDirectory{userRepo: userRepo, emails: set}
}

func (d *emailAllowlistDirectory) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := d.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if user.IsSuspended() {
		return false, nil
	}
	return d.emails[strings.ToLower(user.Email)], nil
}
