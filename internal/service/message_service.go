package service

import (
	"context"

	"github.com/lighter/backend/internal/model"
)

// MessageService defines the business logic for the support-message workflow:
// users submit messages, admins answer them exactly once.
type MessageService interface {
	// Submit validates and stores a new pending message for userID, then
	// notifies admins on a side channel that never blocks or fails the
	// submission. The returned message has ID/CreatedAt populated.
	Submit(ctx context.Context, userID, subject, body string) (*model.Message, error)

	// ListForUser returns the user's own messages, newest first.
	ListForUser(ctx context.Context, userID string, opts model.MessageListOptions) ([]*model.Message, error)

	// ListForAdmin returns messages across all users filtered by
	// opts.Status ("pending", "answered", "" / "all"), newest first.
	// Fails with ErrForbidden unless actingAdminID is a recognized admin.
	ListForAdmin(ctx context.Context, actingAdminID string, opts model.MessageListOptions) ([]*model.Message, error)

	// Respond attaches the admin response to a pending message and flips it
	// to answered. Fails with ErrForbidden (not an admin), ErrNotFound
	// (unknown id), ErrAlreadyAnswered (terminal state), or a
	// ValidationError (response too short). Concurrent responders are
	// serialized by the store's conditional update: exactly one wins.
	Respond(ctx context.Context, messageID, responseText, actingAdminID string) (*model.Message, error)
}
