package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lighter/backend/internal/model"
)

// PgVitalsRepository は VitalsRepository の PostgreSQL 実装
type PgVitalsRepository struct {
	pool *pgxpool.Pool
}

// NewPgVitalsRepository は PgVitalsRepository を生成する
func NewPgVitalsRepository(pool *pgxpool.Pool) *PgVitalsRepository {
	return &PgVitalsRepository{pool: pool}
}

var _ VitalsRepository = (*PgVitalsRepository)(nil)

// Upsert inserts a vitals entry, or replaces the existing entry for the same
// user and entry_date. The (user_id, entry_date) unique index backs the
// ON CONFLICT clause, so "one entry per day" holds under concurrent submits.
func (r *PgVitalsRepository) Upsert(ctx context.Context, entry *model.VitalsEntry) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO vitals_entries (user_id, entry_date, temperature, pulse, weight_kg, mood, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, entry_date) DO UPDATE
		 SET temperature = EXCLUDED.temperature,
		     pulse = EXCLUDED.pulse,
		     weight_kg = EXCLUDED.weight_kg,
		     mood = EXCLUDED.mood,
		     notes = EXCLUDED.notes,
		     updated_at = now()
		 RETURNING id, created_at, updated_at`,
		entry.UserID, entry.EntryDate, entry.Temperature, entry.Pulse, entry.WeightKg, entry.Mood, entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

// ListByUser は期間内のバイタル記録を日付昇順で返す
func (r *PgVitalsRepository) ListByUser(ctx context.Context, userID string, vr model.VitalsRange) ([]*model.VitalsEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, entry_date, temperature, pulse, weight_kg, mood, COALESCE(notes, ''), created_at, updated_at
		 FROM vitals_entries
		 WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3
		 ORDER BY entry_date ASC`,
		userID, vr.From, vr.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.VitalsEntry
	for rows.Next() {
		var e model.VitalsEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.EntryDate, &e.Temperature, &e.Pulse, &e.WeightKg, &e.Mood, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Delete は自分の記録のみ削除できる（user_id 条件で所有権を担保）
func (r *PgVitalsRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM vitals_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
