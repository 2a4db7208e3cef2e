package handler

import (
	"net/http"

	"github.com/lighter/backend/internal/service"
	"github.com/lighter/backend/pkg/auth"
)

// MeHandler serves the authenticated user's own account.
type MeHandler struct {
	authService service.AuthService
}

// NewMeHandler creates a MeHandler with the given service.
func NewMeHandler(authService service.AuthService) *MeHandler {
	return &MeHandler{authService: authService}
}

// Get handles GET /api/me.
func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "get current user failed", "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
