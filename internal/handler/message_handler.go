package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/lighter/backend/internal/model"
	"github.com/lighter/backend/internal/service"
	"github.com/lighter/backend/pkg/auth"
)

// MessageHandler handles the user side of the support-message workflow.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a MessageHandler with the given service.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// submitRequest is the expected JSON body for POST /api/messages.
type submitRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit handles POST /api/messages (auth required).
// subject must be ≥3 chars and message ≥10 chars after trimming.
func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	msg, err := h.messageService.Submit(r.Context(), userID, req.Subject, req.Message)
	if err != nil {
		writeServiceError(w, err, "message submit failed", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// listResponse is the JSON response for message listings.
type listResponse struct {
	Messages []*model.Message `json:"messages"`
}

// ListMine handles GET /api/me/messages (auth required).
// Supports query params: status (all/pending/answered), limit, offset.
// Messages are ordered newest first.
func (h *MessageHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messages, err := h.messageService.ListForUser(r.Context(), userID, listOptionsFromQuery(r))
	if err != nil {
		writeServiceError(w, err, "list own messages failed", "user_id", userID)
		return
	}

	// Return [] not null for empty lists
	if messages == nil {
		messages = []*model.Message{}
	}
	writeJSON(w, http.StatusOK, listResponse{Messages: messages})
}

// listOptionsFromQuery parses status/limit/offset with the shared defaults.
func listOptionsFromQuery(r *http.Request) model.MessageListOptions {
	opts := model.MessageListOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  20,
		Offset: 0,
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}
	return opts
}
