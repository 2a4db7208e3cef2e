package model

import "time"

// Experiment run status values.
const (
	ExperimentActive    = "active"
	ExperimentCompleted = "completed"
	ExperimentAbandoned = "abandoned"
)

// Experiment is a catalog entry for a guided experiment (e.g. "two weeks of
// earlier bedtime"). The catalog is seeded by migrations and read-only at runtime.
type Experiment struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DurationDays int       `json:"duration_days"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExperimentRun is a user's attempt at a catalog experiment. A user has at most
// one active run per experiment.
type ExperimentRun struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	ExperimentID string     `json:"experiment_id"`
	Status       string     `json:"status"` // "active" | "completed" | "abandoned"
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}
