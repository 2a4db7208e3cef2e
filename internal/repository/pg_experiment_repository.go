package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lighter/backend/internal/model"
)

// PgExperimentRepository は ExperimentRepository の PostgreSQL 実装
type PgExperimentRepository struct {
	pool *pgxpool.Pool
}

// NewPgExperimentRepository は PgExperimentRepository を生成する
func NewPgExperimentRepository(pool *pgxpool.Pool) *PgExperimentRepository {
	return &PgExperimentRepository{pool: pool}
}

var _ ExperimentRepository = (*PgExperimentRepository)(nil)

// ListCatalog returns the seeded experiment catalog, oldest first.
func (r *PgExperimentRepository) ListCatalog(ctx context.Context) ([]*model.Experiment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, slug, title, description, duration_days, created_at
		 FROM experiments ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exps []*model.Experiment
	for rows.Next() {
		var e model.Experiment
		if err := rows.Scan(&e.ID, &e.Slug, &e.Title, &e.Description, &e.DurationDays, &e.CreatedAt); err != nil {
			return nil, err
		}
		exps = append(exps, &e)
	}
	return exps, rows.Err()
}

// FindBySlug は slug でカタログエントリを取得する
func (r *PgExperimentRepository) FindBySlug(ctx context.Context, slug string) (*model.Experiment, error) {
	var e model.Experiment
	err := r.pool.QueryRow(ctx,
		`SELECT id, slug, title, description, duration_days, created_at
		 FROM experiments WHERE slug = $1`, slug,
	).Scan(&e.ID, &e.Slug, &e.Title, &e.Description, &e.DurationDays, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const runSelectCols = `id, user_id, experiment_id, status, started_at, ended_at`

func scanRun(scan func(...any) error) (*model.ExperimentRun, error) {
	var run model.ExperimentRun
	if err := scan(&run.ID, &run.UserID, &run.ExperimentID, &run.Status, &run.StartedAt, &run.EndedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// CreateRun は実験の実行記録を作成する
func (r *PgExperimentRepository) CreateRun(ctx context.Context, run *model.ExperimentRun) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO experiment_runs (user_id, experiment_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, started_at`,
		run.UserID, run.ExperimentID, run.Status,
	).Scan(&run.ID, &run.StartedAt)
}

// FindRun は自分の実行記録を取得する
func (r *PgExperimentRepository) FindRun(ctx context.Context, userID, runID string) (*model.ExperimentRun, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+runSelectCols+` FROM experiment_runs WHERE id = $1 AND user_id = $2`,
		runID, userID)
	return scanRun(row.Scan)
}

// ListRunsByUser は実行記録を開始日時の降順で返す
func (r *PgExperimentRepository) ListRunsByUser(ctx context.Context, userID string) ([]*model.ExperimentRun, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+runSelectCols+` FROM experiment_runs
		 WHERE user_id = $1 ORDER BY started_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*model.ExperimentRun
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindActiveRun は指定実験のアクティブな実行記録を返す（なければ ErrNotFound）
func (r *PgExperimentRepository) FindActiveRun(ctx context.Context, userID, experimentID string) (*model.ExperimentRun, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+runSelectCols+` FROM experiment_runs
		 WHERE user_id = $1 AND experiment_id = $2 AND status = $3`,
		userID, experimentID, model.ExperimentActive)
	return scanRun(row.Scan)
}

// EndRun は条件付き UPDATE で active → completed/abandoned の遷移を行う
func (r *PgExperimentRepository) EndRun(ctx context.Context, userID, runID, status string, endedAt time.Time) (*model.ExperimentRun, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE experiment_runs
		 SET status = $3, ended_at = $4
		 WHERE id = $1 AND user_id = $2 AND status = $5
		 RETURNING `+runSelectCols,
		runID, userID, status, endedAt, model.ExperimentActive)

	run, err := scanRun(row.Scan)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var exists bool
	if qerr := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM experiment_runs WHERE id = $1 AND user_id = $2)`,
		runID, userID,
	).Scan(&exists); qerr != nil {
		return nil, qerr
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, ErrConflict
}
