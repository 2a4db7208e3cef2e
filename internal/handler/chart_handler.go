package handler

import (
	"net/http"
	"strconv"

	"github.com/lighter/backend/internal/service"
	"github.com/lighter/backend/pkg/auth"
)

// ChartHandler serves aggregated progress-chart data.
type ChartHandler struct {
	vitalsService service.VitalsService
}

// NewChartHandler creates a ChartHandler with the given service.
func NewChartHandler(vitalsService service.VitalsService) *ChartHandler {
	return &ChartHandler{vitalsService: vitalsService}
}

// Vitals handles GET /api/charts/vitals?metric=weight&days=30 (auth required).
// days defaults to 30.
func (h *ChartHandler) Vitals(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	metric := r.URL.Query().Get("metric")
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_days")
			return
		}
		days = n
	}

	series, err := h.vitalsService.ChartSeries(r.Context(), userID, metric, days)
	if err != nil {
		writeServiceError(w, err, "chart series failed", "user_id", userID, "metric", metric)
		return
	}
	writeJSON(w, http.StatusOK, series)
}
