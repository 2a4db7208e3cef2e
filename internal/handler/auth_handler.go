package handler

import (
	"encoding/json"
	"net/http"

	"github.com/lighter/backend/internal/service"
	"github.com/lighter/backend/pkg/auth"
)

// AuthHandler handles signup, login, logout and password reset.
type AuthHandler struct {
	authService   service.AuthService
	sessionSecret []byte
	secureCookies bool
}

// NewAuthHandler creates an AuthHandler. secureCookies should be true in
// production so session cookies are HTTPS-only.
func NewAuthHandler(authService service.AuthService, sessionSecret []byte, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, sessionSecret: sessionSecret, secureCookies: secureCookies}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, userID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    auth.CreateSessionToken(userID, h.sessionSecret),
		Path:     "/",
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
}

// signupRequest is the expected JSON body for POST /api/auth/signup.
type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup handles POST /api/auth/signup and logs the new user in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	user, err := h.authService.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, err, "signup failed")
		return
	}

	h.setSessionCookie(w, user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// loginRequest is the expected JSON body for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "login failed")
		return
	}

	h.setSessionCookie(w, user.ID)
	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout by expiring the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}

// resetRequest is the expected JSON body for POST /api/auth/password-reset.
type resetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset handles POST /api/auth/password-reset. It always
// returns 200 for well-formed requests so the endpoint does not reveal which
// emails are registered.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email_required")
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, err, "password reset request failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}

// resetConfirmRequest is the expected JSON body for POST /api/auth/password-reset/confirm.
type resetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ConfirmPasswordReset handles POST /api/auth/password-reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "token_required")
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeServiceError(w, err, "password reset failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}
