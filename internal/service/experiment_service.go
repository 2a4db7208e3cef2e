package service

import (
	"context"
	"errors"
	"time"

	"github.com/lighter/backend/internal/model"
	"github.com/lighter/backend/internal/repository"
)

// ExperimentService defines the guided-experiment lifecycle: browse the
// catalog, start a run, finish or abandon it.
type ExperimentService interface {
	Catalog(ctx context.Context) ([]*model.Experiment, error)

	// Start begins a run of the experiment with the given slug. Fails with
	// ErrNotFound for an unknown slug and ErrRunActive when the user already
	// has an active run of that experiment.
	Start(ctx context.Context, userID, slug string) (*model.ExperimentRun, error)

	// ListRuns returns the user's runs, newest first.
	ListRuns(ctx context.Context, userID string) ([]*model.ExperimentRun, error)

	// Complete and Abandon end an active run. Both fail with ErrAlreadyEnded
	// when the run is no longer active and ErrNotFound when it does not
	// exist or belongs to someone else.
	Complete(ctx context.Context, userID, runID string) (*model.ExperimentRun, error)
	Abandon(ctx context.Context, userID, runID string) (*model.ExperimentRun, error)
}

// experimentServiceImpl is the production implementation of ExperimentService.
type experimentServiceImpl struct {
	repo repository.ExperimentRepository
}

// NewExperimentService creates an ExperimentService backed by the given repository.
func NewExperimentService(repo repository.ExperimentRepository) ExperimentService {
	return &experimentServiceImpl{repo: repo}
}

func (s *experimentServiceImpl) Catalog(ctx context.Context) ([]*model.Experiment, error) {
	return s.repo.ListCatalog(ctx)
}

func (s *experimentServiceImpl) Start(ctx context.Context, userID, slug string) (*model.ExperimentRun, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	exp, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := s.repo.FindActiveRun(ctx, userID, exp.ID); err == nil {
		return nil, ErrRunActive
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	run := &model.ExperimentRun{
		UserID:       userID,
		ExperimentID: exp.ID,
		Status:       model.ExperimentActive,
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *experimentServiceImpl) ListRuns(ctx context.Context, userID string) ([]*model.ExperimentRun, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListRunsByUser(ctx, userID)
}

func (s *experimentServiceImpl) Complete(ctx context.Context, userID, runID string) (*model.ExperimentRun, error) {
	return s.end(ctx, userID, runID, model.ExperimentCompleted)
}

func (s *experimentServiceImpl) Abandon(ctx context.Context, userID, runID string) (*model.ExperimentRun, error) {
	return s.end(ctx, userID, runID, model.ExperimentAbandoned)
}

func (s *experimentServiceImpl) end(ctx context.Context, userID, runID, status string) (*model.ExperimentRun, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	run, err := s.repo.EndRun(ctx, userID, runID, status, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrAlreadyEnded
		}
		return nil, err
	}
	return run, nil
}
