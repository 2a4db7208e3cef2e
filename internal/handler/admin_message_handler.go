package handler

import (
	"encoding/json"
	"net/http"

	"github.com/lighter/backend/internal/model"
	"github.com/lighter/backend/internal/service"
	"github.com/lighter/backend/pkg/auth"
)

// AdminMessageHandler handles the admin side of the support-message workflow:
// inbox listing and responding. Authorization is decided by the service, which
// checks the acting user against the admin directory.
type AdminMessageHandler struct {
	messageService service.MessageService
}

// NewAdminMessageHandler creates an AdminMessageHandler with the given service.
func NewAdminMessageHandler(messageService service.MessageService) *AdminMessageHandler {
	return &AdminMessageHandler{messageService: messageService}
}

// List handles GET /api/admin/messages (admin only).
// Supports query params: status (all/pending/answered), limit, offset.
// Messages are ordered newest first.
func (h *AdminMessageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messages, err := h.messageService.ListForAdmin(r.Context(), userID, listOptionsFromQuery(r))
	if err != nil {
		writeServiceError(w, err, "admin list messages failed", "acting_user_id", userID)
		return
	}

	if messages == nil {
		messages = []*model.Message{}
	}
	writeJSON(w, http.StatusOK, listResponse{Messages: messages})
}

// respondRequest is the expected JSON body for POST /api/admin/messages/{id}/response.
type respondRequest struct {
	Response string `json:"response"`
}

// Respond handles POST /api/admin/messages/{id}/response (admin only).
// The response must be ≥10 chars after trimming; a message can only be
// answered once.
func (h *AdminMessageHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messageID := r.PathValue("id")

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	msg, err := h.messageService.Respond(r.Context(), messageID, req.Response, userID)
	if err != nil {
		writeServiceError(w, err, "respond failed", "message_id", messageID, "acting_user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, msg)
}
