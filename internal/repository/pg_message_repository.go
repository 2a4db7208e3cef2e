package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lighter/backend/internal/model"
)

// PgMessageRepository は MessageRepository の PostgreSQL 実装
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPgMessageRepository は PgMessageRepository を生成する
func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

// Ensure PgMessageRepository implements MessageRepository at compile time.
var _ MessageRepository = (*PgMessageRepository)(nil)

const messageSelectCols = `id, user_id, subject, message, status, COALESCE(response, ''), created_at, responded_at`

func scanMessage(scan func(...any) error) (*model.Message, error) {
	var m model.Message
	if err := scan(&m.ID, &m.UserID, &m.Subject, &m.Message, &m.Status, &m.Response, &m.CreatedAt, &m.RespondedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts a new messages row and populates msg.ID and msg.CreatedAt from
// the database RETURNING clause. Status is stored as given (pending on submit).
func (r *PgMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO messages (user_id, subject, message, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		msg.UserID, msg.Subject, msg.Message, msg.Status,
	).Scan(&msg.ID, &msg.CreatedAt)
}

// FindByID は ID でメッセージを取得する
func (r *PgMessageRepository) FindByID(ctx context.Context, id string) (*model.Message, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+messageSelectCols+` FROM messages WHERE id = $1`, id)
	return scanMessage(row.Scan)
}

// MarkAnswered は条件付き UPDATE で pending → answered の遷移を行う。
// WHERE status = 'pending' が楽観的並行制御になっており、同時に respond が
// 走っても成功するのは 1 件だけ。
func (r *PgMessageRepository) MarkAnswered(ctx context.Context, id, response string, respondedAt time.Time) (*model.Message, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE messages
		 SET status = $2, response = $3, responded_at = $4
		 WHERE id = $1 AND status = $5
		 RETURNING `+messageSelectCols,
		id, model.MessageStatusAnswered, response, respondedAt, model.MessageStatusPending)

	msg, err := scanMessage(row.Scan)
	if err == nil {
		return msg, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// No row updated: distinguish "gone" from "already answered".
	var exists bool
	if qerr := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)`, id,
	).Scan(&exists); qerr != nil {
		return nil, qerr
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, ErrConflict
}

// ListByUser returns the given user's messages, newest first.
func (r *PgMessageRepository) ListByUser(ctx context.Context, userID string, opts model.MessageListOptions) ([]*model.Message, error) {
	return r.list(ctx, userID, opts)
}

// List returns messages across all users, newest first. Admin listing only.
func (r *PgMessageRepository) List(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error) {
	return r.list(ctx, "", opts)
}

func (r *PgMessageRepository) list(ctx context.Context, userID string, opts model.MessageListOptions) ([]*model.Message, error) {
	var conditions []string
	var args []any

	if userID != "" {
		args = append(args, userID)
		conditions = append(conditions, "user_id = $"+strconv.Itoa(len(args)))
	}
	status := strings.TrimSpace(opts.Status)
	if status != "" && status != "all" {
		args = append(args, status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, opts.Limit, opts.Offset)
	query := `SELECT ` + messageSelectCols + ` FROM messages ` + where +
		` ORDER BY created_at DESC
		  LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
