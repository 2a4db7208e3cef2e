package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lighter/backend/pkg/resend"
)

// Notification events. Admin-facing events go to the configured admin
// addresses; user-facing events go to the address in the payload.
const (
	EventNewMessage             = "new_message"
	EventNewUserSignup          = "new_user_signup"
	EventPasswordResetRequested = "password_reset_requested"
	EventMessageAnswered        = "message_answered"
)

// NotifyPayload carries the data an event's email is rendered from. Only the
// fields relevant to the event need to be set.
type NotifyPayload struct {
	UserEmail string // recipient for user-facing events
	UserName  string
	Subject   string // support message subject
	Body      string // support message body
	Response  string // admin response text
	ResetURL  string // password reset link
}

// Notifier is the best-effort notification side channel. Notify is synchronous;
// callers that must not block on delivery dispatch it on their own goroutine
// and log (never propagate) the returned error. The message store stays the
// system of record; a lost notification is tolerated.
type Notifier interface {
	Notify(ctx context.Context, event string, p NotifyPayload) error
}

// notifyService renders events to emails and sends them via the mail client.
type notifyService struct {
	mailer      resend.Client
	adminEmails []string // deduplicated at construction
}

// NewNotifyService creates a Notifier that emails admin-facing events to the
// given admin addresses (deduplicated, order preserved).
func NewNotifyService(mailer resend.Client, adminEmails []string) Notifier {
	return &notifyService{
		mailer:      mailer,
		adminEmails: dedupEmails(adminEmails),
	}
}

func dedupEmails(emails []string) []string {
	seen := make(map[string]bool, len(emails))
	var out []string
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// Notify renders the event and sends a single email. Unknown events and
// admin-facing events with no configured recipients are errors so callers can
// log a diagnosable reason.
func (s *notifyService) Notify(ctx context.Context, event string, p NotifyPayload) error {
	var to []string
	var subject, body string

	switch event {
	case EventNewMessage:
		to = s.adminEmails
		subject = "New support message: " + p.Subject
		body = fmt.Sprintf("From: %s <%s>\n\n%s", p.UserName, p.UserEmail, p.Body)
	case EventNewUserSignup:
		to = s.adminEmails
		subject = "New signup"
		body = fmt.Sprintf("%s <%s> just signed up.", p.UserName, p.UserEmail)
	case EventPasswordResetRequested:
		to = []string{p.UserEmail}
		subject = "Reset your Lighter password"
		body = fmt.Sprintf("Hi %s,\n\nReset your password using this link (valid for 30 minutes):\n%s", p.UserName, p.ResetURL)
	case EventMessageAnswered:
		to = []string{p.UserEmail}
		subject = "Re: " + p.Subject
		body = fmt.Sprintf("Hi %s,\n\nYour message got a reply:\n\n%s", p.UserName, p.Response)
	default:
		return fmt.Errorf("notify: unknown event %q", event)
	}

	if len(to) == 0 {
		return fmt.Errorf("notify: no recipients for event %q", event)
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		return fmt.Errorf("notify %s: %w", event, err)
	}
	return nil
}
