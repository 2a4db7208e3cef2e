package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/lighter/backend/internal/service"
	"github.com/lighter/backend/pkg/auth"
)

// maxWebhookBody bounds how much of a webhook payload we read.
const maxWebhookBody = 1 << 20

// BillingHandler handles Stripe checkout and webhooks.
type BillingHandler struct {
	billingService service.BillingService
}

// NewBillingHandler creates a BillingHandler with the given service.
func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// checkoutResponse is the JSON response for POST /api/billing/checkout.
type checkoutResponse struct {
	URL string `json:"url"`
}

// CreateCheckout handles POST /api/billing/checkout (auth required) and
// returns the Stripe-hosted checkout URL.
func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	url, err := h.billingService.CreateCheckout(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "create checkout failed", "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{URL: url})
}

// Webhook handles POST /api/webhooks/stripe. Stripe signs the raw body, so it
// is read before any decoding.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	if err := h.billingService.ProcessWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		slog.Error("stripe webhook failed", "error", err)
		writeError(w, http.StatusBadRequest, "webhook_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
}
