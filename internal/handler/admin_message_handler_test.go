package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lighter/backend/internal/model"
	"github.com/lighter/backend/internal/service"
)

func TestAdminMessageHandler_List_Forbidden(t *testing.T) {
	svc := &mockMessageService{
		listForAdminFunc: func(ctx context.Context, actingAdminID string, opts model.MessageListOptions) ([]*model.Message, error) {
			return nil, service.ErrForbidden
		},
	}
	h := NewAdminMessageHandler(svc)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil), "user-1")
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestAdminMessageHandler_List_ReturnsMessages(t *testing.T) {
	svc := &mockMessageService{
		listForAdminFunc: func(ctx context.Context, actingAdminID string, opts model.MessageListOptions) ([]*model.Message, error) {
			return []*model.Message{
				{ID: "msg-2", Status: model.MessageStatusPending},
				{ID: "msg-1", Status: model.MessageStatusAnswered},
			}, nil
		},
	}
	h := NewAdminMessageHandler(svc)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/admin/messages?status=all", nil), "admin-1")
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Messages []*model.Message `json:"messages"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(resp.Messages))
	}
}

func TestAdminMessageHandler_Respond_OK(t *testing.T) {
	var gotMessageID, gotResponse, gotAdminID string
	svc := &mockMessageService{
		respondFunc: func(ctx context.Context, messageID, responseText, actingAdminID string) (*model.Message, error) {
			gotMessageID, gotResponse, gotAdminID = messageID, responseText, actingAdminID
			now := time.Now()
			return &model.Message{ID: messageID, Status: model.MessageStatusAnswered, Response: responseText, RespondedAt: &now}, nil
		},
	}
	h := NewAdminMessageHandler(svc)

	body := strings.NewReader(`{"response":"Here is your answer"}`)
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/admin/messages/msg-1/response", body), "admin-1")
	req.SetPathValue("id", "msg-1")
	w := httptest.NewRecorder()

	h.Respond(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotMessageID != "msg-1" || gotResponse != "Here is your answer" || gotAdminID != "admin-1" {
		t.Errorf("unexpected call: id=%q response=%q admin=%q", gotMessageID, gotResponse, gotAdminID)
	}
	var msg model.Message
	if err := json.NewDecoder(w.Body).Decode(&msg); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if msg.Status != model.MessageStatusAnswered {
		t.Errorf("expected status=answered, got %q", msg.Status)
	}
}

func TestAdminMessageHandler_Respond_AlreadyAnswered(t *testing.T) {
	svc := &mockMessageService{
		respondFunc: func(ctx context.Context, messageID, responseText, actingAdminID string) (*model.Message, error) {
			return nil, service.ErrAlreadyAnswered
		},
	}
	h := NewAdminMessageHandler(svc)

	body := strings.NewReader(`{"response":"Here is your answer"}`)
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/admin/messages/msg-1/response", body), "admin-1")
	req.SetPathValue("id", "msg-1")
	w := httptest.NewRecorder()

	h.Respond(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already_answered") {
		t.Errorf("expected already_answered error body, got %s", w.Body.String())
	}
}

func TestAdminMessageHandler_Respond_UnknownMessage(t *testing.T) {
	svc := &mockMessageService{
		respondFunc: func(ctx context.Context, messageID, responseText, actingAdminID string) (*model.Message, error) {
			return nil, service.ErrNotFound
		},
	}
	h := NewAdminMessageHandler(svc)

	body := strings.NewReader(`{"response":"Here is your answer"}`)
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/admin/messages/missing/response", body), "admin-1")
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	h.Respond(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestAdminMessageHandler_Respond_NoAuth(t *testing.T) {
	h := NewAdminMessageHandler(&mockMessageService{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/messages/msg-1/response", strings.NewReader(`{}`))
	req.SetPathValue("id", "msg-1")
	w := httptest.NewRecorder()

	h.Respond(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
