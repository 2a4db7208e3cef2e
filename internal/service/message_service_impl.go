package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lighter/backend/internal/model"
	"github.com/lighter/backend/internal/repository"
)

// Input limits for support messages. Minimums keep triage meaningful,
// maximums keep storage and notification emails bounded.
const (
	minSubjectLength  = 3
	maxSubjectLength  = 200
	minMessageLength  = 10
	maxMessageLength  = 5000
	minResponseLength = 10
	maxResponseLength = 5000
)

// notifyTimeout bounds a single fire-and-forget notification attempt. It is
// detached from the request context so a slow provider cannot delay the
// caller-visible result.
const notifyTimeout = 15 * time.Second

// messageServiceImpl is the production implementation of MessageService.
type messageServiceImpl struct {
	repo     repository.MessageRepository
	userRepo repository.UserRepository
	admins   AdminDirectory
	notifier Notifier // nil disables notifications
}

// NewMessageService creates a MessageService backed by the given repositories.
// notifier may be nil when email is not configured.
func NewMessageService(repo repository.MessageRepository, userRepo repository.UserRepository, admins AdminDirectory, notifier Notifier) MessageService {
	return &messageServiceImpl{repo: repo, userRepo: userRepo, admins: admins, notifier: notifier}
}

func trimmedLength(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// Submit stores a new pending message and dispatches the new_message event.
func (s *messageServiceImpl) Submit(ctx context.Context, userID, subject, body string) (*model.Message, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if n := trimmedLength(subject); n < minSubjectLength {
		return nil, &ValidationError{Field: "subject", Reason: "must be at least 3 characters"}
	} else if n > maxSubjectLength {
		return nil, &ValidationError{Field: "subject", Reason: "must be at most 200 characters"}
	}
	if n := trimmedLength(body); n < minMessageLength {
		return nil, &ValidationError{Field: "message", Reason: "must be at least 10 characters"}
	} else if n > maxMessageLength {
		return nil, &ValidationError{Field: "message", Reason: "must be at most 5000 characters"}
	}

	msg := &model.Message{
		UserID:  userID,
		Subject: subject,
		Message: body,
		Status:  model.MessageStatusPending,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.dispatch(ctx, EventNewMessage, msg)
	return msg, nil
}

// ListForUser returns the user's own messages, newest first.
func (s *messageServiceImpl) ListForUser(ctx context.Context, userID string, opts model.MessageListOptions) ([]*model.Message, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, userID, opts)
}

// ListForAdmin returns messages across all users, newest first.
func (s *messageServiceImpl) ListForAdmin(ctx context.Context, actingAdminID string, opts model.MessageListOptions) ([]*model.Message, error) {
	if err := s.requireAdmin(ctx, actingAdminID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, opts)
}

// Respond flips a pending message to answered with the given response text.
func (s *messageServiceImpl) Respond(ctx context.Context, messageID, responseText, actingAdminID string) (*model.Message, error) {
	if err := s.requireAdmin(ctx, actingAdminID); err != nil {
		return nil, err
	}
	if n := trimmedLength(responseText); n < minResponseLength {
		return nil, &ValidationError{Field: "response", Reason: "must be at least 10 characters"}
	} else if n > maxResponseLength {
		return nil, &ValidationError{Field: "response", Reason: "must be at most 5000 characters"}
	}

	msg, err := s.repo.MarkAnswered(ctx, messageID, responseText, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrAlreadyAnswered
		}
		return nil, err
	}

	s.dispatch(ctx, EventMessageAnswered, msg)
	return msg, nil
}

func (s *messageServiceImpl) requireAdmin(ctx context.Context, actingAdminID string) error {
	if actingAdminID == "" {
		return ErrUnauthenticated
	}
	ok, err := s.admins.IsAdmin(ctx, actingAdminID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// dispatch sends the event on a detached goroutine. Failures are logged with
// enough context to diagnose and never reach the caller: the message store is
// the system of record, the notification is best effort.
func (s *messageServiceImpl) dispatch(ctx context.Context, event string, msg *model.Message) {
	if s.notifier == nil {
		return
	}

	// Resolve the submitter synchronously while the request context is live;
	// only the provider call itself runs detached.
	user, err := s.userRepo.FindByID(ctx, msg.UserID)
	if err != nil {
		slog.Error("notification skipped: submitter lookup failed",
			"event", event, "message_id", msg.ID, "user_id", msg.UserID, "error", err)
		return
	}

	payload := NotifyPayload{
		UserEmail: user.Email,
		UserName:  user.Name,
		Subject:   msg.Subject,
		Body:      msg.Message,
		Response:  msg.Response,
	}
	eventID := uuid.NewString()

	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(nctx, event, payload); err != nil {
			slog.Error("notification dispatch failed",
				"event", event, "event_id", eventID, "message_id", msg.ID, "error", err)
		}
	}()
}
