package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// mockMailer captures Send calls in place of the real Resend client.
type mockMailer struct {
	sendFunc func(ctx context.Context, to []string, subject, text string) error
}

func (m *mockMailer) Send(ctx context.Context, to []string, subject, text string) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, to, subject, text)
	}
	return nil
}

func TestNotifyService_NewMessage_GoesToAdmins(t *testing.T) {
	var gotTo []string
	var gotSubject string
	mailer := &mockMailer{sendFunc: func(ctx context.Context, to []string, subject, text string) error {
		gotTo = to
		gotSubject = subject
		return nil
	}}
	n := NewNotifyService(mailer, []string{"admin@example.com", "ops@example.com"})

	err := n.Notify(context.Background(), EventNewMessage, NotifyPayload{
		UserEmail: "alice@example.com", UserName: "Alice",
		Subject: "Need help", Body: "Something broke",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(gotTo, []string{"admin@example.com", "ops@example.com"}) {
		t.Errorf("expected admin recipients, got %v", gotTo)
	}
	if !strings.Contains(gotSubject, "Need help") {
		t.Errorf("expected subject to carry the message subject, got %q", gotSubject)
	}
}

func TestNotifyService_AdminEmailsDeduplicated(t *testing.T) {
	var gotTo []string
	mailer := &mockMailer{sendFunc: func(ctx context.Context, to []string, subject, text string) error {
		gotTo = to
		return nil
	}}
	n := NewNotifyService(mailer, []string{"Admin@Example.com", " admin@example.com ", "ops@example.com", ""})

	if err := n.Notify(context.Background(), EventNewUserSignup, NotifyPayload{UserEmail: "new@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(gotTo, []string{"admin@example.com", "ops@example.com"}) {
		t.Errorf("expected deduplicated lowercase recipients, got %v", gotTo)
	}
}

func TestNotifyService_MessageAnswered_GoesToUser(t *testing.T) {
	var gotTo []string
	var gotText string
	mailer := &mockMailer{sendFunc: func(ctx context.Context, to []string, subject, text string) error {
		gotTo = to
		gotText = text
		return nil
	}}
	n := NewNotifyService(mailer, []string{"admin@example.com"})

	err := n.Notify(context.Background(), EventMessageAnswered, NotifyPayload{
		UserEmail: "alice@example.com", UserName: "Alice",
		Subject: "Need help", Response: "Fixed it, try again.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(gotTo, []string{"alice@example.com"}) {
		t.Errorf("expected the submitter as sole recipient, got %v", gotTo)
	}
	if !strings.Contains(gotText, "Fixed it, try again.") {
		t.Errorf("expected response text in body, got %q", gotText)
	}
}

func TestNotifyService_PasswordReset_CarriesLink(t *testing.T) {
	var gotText string
	mailer := &mockMailer{sendFunc: func(ctx context.Context, to []string, subject, text string) error {
		gotText = text
		return nil
	}}
	n := NewNotifyService(mailer, nil)

	err := n.Notify(context.Background(), EventPasswordResetRequested, NotifyPayload{
		UserEmail: "alice@example.com", UserName: "Alice",
		ResetURL: "https://app.example.com/reset-password?token=abc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotText, "https://app.example.com/reset-password?token=abc") {
		t.Errorf("expected reset link in body, got %q", gotText)
	}
}

func TestNotifyService_UnknownEvent(t *testing.T) {
	n := NewNotifyService(&mockMailer{}, []string{"admin@example.com"})

	if err := n.Notify(context.Background(), "nonsense_event", NotifyPayload{}); err == nil {
		t.Error("expected error for unknown event")
	}
}

func TestNotifyService_AdminEventWithoutRecipients(t *testing.T) {
	sent := false
	mailer := &mockMailer{sendFunc: func(ctx context.Context, to []string, subject, text string) error {
		sent = true
		return nil
	}}
	n := NewNotifyService(mailer, nil)

	if err := n.Notify(context.Background(), EventNewMessage, NotifyPayload{UserEmail: "a@example.com"}); err == nil {
		t.Error("expected error when no admin recipients are configured")
	}
	if sent {
		t.Error("expected no Send call without recipients")
	}
}

func TestNotifyService_MailerErrorPropagates(t *testing.T) {
	mailer := &mockMailer{sendFunc: func(ctx context.Context, to []string, subject, text string) error {
		return errors.New("rate limited")
	}}
	n := NewNotifyService(mailer, []string{"admin@example.com"})

	if err := n.Notify(context.Background(), EventNewMessage, NotifyPayload{Subject: "x"}); err == nil {
		t.Error("expected mailer error to propagate to the dispatcher")
	}
}
