package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lighter/backend/internal/model"
	"github.com/lighter/backend/internal/service"
	"github.com/lighter/backend/pkg/auth"
)

const dateLayout = "2006-01-02"

// VitalsHandler handles daily vitals recording and listing.
type VitalsHandler struct {
	vitalsService service.VitalsService
}

// NewVitalsHandler creates a VitalsHandler with the given service.
func NewVitalsHandler(vitalsService service.VitalsService) *VitalsHandler {
	return &VitalsHandler{vitalsService: vitalsService}
}

// vitalsRequest is the expected JSON body for POST /api/vitals.
// Dates are plain YYYY-MM-DD strings; optional readings are omitted, not null.
type vitalsRequest struct {
	EntryDate   string   `json:"entry_date"`
	Temperature *float64 `json:"temperature"`
	Pulse       *int     `json:"pulse"`
	WeightKg    *float64 `json:"weight_kg"`
	Mood        *int     `json:"mood"`
	Notes       string   `json:"notes"`
}

// Record handles POST /api/vitals (auth required). Submitting again for the
// same date overwrites the existing entry.
func (h *VitalsHandler) Record(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req vitalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	entryDate, err := time.Parse(dateLayout, req.EntryDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "validation_failed",
			"field":  "entry_date",
			"reason": "must be YYYY-MM-DD",
		})
		return
	}

	entry := &model.VitalsEntry{
		EntryDate:   entryDate,
		Temperature: req.Temperature,
		Pulse:       req.Pulse,
		WeightKg:    req.WeightKg,
		Mood:        req.Mood,
		Notes:       req.Notes,
	}
	if err := h.vitalsService.Record(r.Context(), userID, entry); err != nil {
		writeServiceError(w, err, "record vitals failed", "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// vitalsListResponse is the JSON response for vitals listings.
type vitalsListResponse struct {
	Entries []*model.VitalsEntry `json:"entries"`
}

// List handles GET /api/vitals?from=YYYY-MM-DD&to=YYYY-MM-DD (auth required).
// Defaults to the trailing 30 days; entries come back oldest first.
func (h *VitalsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -29)
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_from")
			return
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_to")
			return
		}
		to = t
	}

	entries, err := h.vitalsService.List(r.Context(), userID, from, to)
	if err != nil {
		writeServiceError(w, err, "list vitals failed", "user_id", userID)
		return
	}
	if entries == nil {
		entries = []*model.VitalsEntry{}
	}
	writeJSON(w, http.StatusOK, vitalsListResponse{Entries: entries})
}

// Delete handles DELETE /api/vitals/{id} (auth required).
func (h *VitalsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")
	if err := h.vitalsService.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, err, "delete vitals entry failed", "user_id", userID, "entry_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
