package handler

import (
	"context"
	"net/http"

	"github.com/lighter/backend/internal/model"
	"github.com/lighter/backend/internal/service"
	"github.com/lighter/backend/pkg/auth"
)

// ExperimentHandler handles the guided-experiment catalog and runs.
type ExperimentHandler struct {
	experimentService service.ExperimentService
}

// NewExperimentHandler creates an ExperimentHandler with the given service.
func NewExperimentHandler(experimentService service.ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{experimentService: experimentService}
}

// catalogResponse is the JSON response for the experiment catalog.
type catalogResponse struct {
	Experiments []*model.Experiment `json:"experiments"`
}

// Catalog handles GET /api/experiments.
func (h *ExperimentHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	experiments, err := h.experimentService.Catalog(r.Context())
	if err != nil {
		writeServiceError(w, err, "experiment catalog failed")
		return
	}
	if experiments == nil {
		experiments = []*model.Experiment{}
	}
	writeJSON(w, http.StatusOK, catalogResponse{Experiments: experiments})
}

// Start handles POST /api/experiments/{slug}/runs (auth required).
func (h *ExperimentHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	slug := r.PathValue("slug")
	run, err := h.experimentService.Start(r.Context(), userID, slug)
	if err != nil {
		writeServiceError(w, err, "start experiment failed", "user_id", userID, "slug", slug)
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

// runsResponse is the JSON response for a user's run history.
type runsResponse struct {
	Runs []*model.ExperimentRun `json:"runs"`
}

// ListRuns handles GET /api/me/experiments (auth required). Runs come back
// newest first.
func (h *ExperimentHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	runs, err := h.experimentService.ListRuns(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "list experiment runs failed", "user_id", userID)
		return
	}
	if runs == nil {
		runs = []*model.ExperimentRun{}
	}
	writeJSON(w, http.StatusOK, runsResponse{Runs: runs})
}

// Complete handles POST /api/me/experiments/{id}/complete (auth required).
func (h *ExperimentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.end(w, r, h.experimentService.Complete)
}

// Abandon handles POST /api/me/experiments/{id}/abandon (auth required).
func (h *ExperimentHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	h.end(w, r, h.experimentService.Abandon)
}

func (h *ExperimentHandler) end(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, runID string) (*model.ExperimentRun, error)) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	runID := r.PathValue("id")
	run, err := fn(r.Context(), userID, runID)
	if err != nil {
		writeServiceError(w, err, "end experiment run failed", "user_id", userID, "run_id", runID)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
