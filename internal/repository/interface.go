package repository

import (
	"context"
	"time"

	"github.com/lighter/backend/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// UserRepository はユーザー永続化のインターフェース
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateSubscriptionStatus(ctx context.Context, id, status string) error
}

// MessageRepository はサポートメッセージ永続化のインターフェース
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	FindByID(ctx context.Context, id string) (*model.Message, error)
	ListByUser(ctx context.Context, userID string, opts model.MessageListOptions) ([]*model.Message, error)
	List(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error)

	// MarkAnswered flips a pending message to answered, setting response and
	// responded_at in the same statement. It returns ErrNotFound when no row
	// has the given id, and ErrConflict when the row exists but is no longer
	// pending. The condition on status makes concurrent responders serialize:
	// at most one caller succeeds.
	MarkAnswered(ctx context.Context, id, response string, respondedAt time.Time) (*model.Message, error)
}

// VitalsRepository は日次バイタル記録のインターフェース
type VitalsRepository interface {
	Upsert(ctx context.Context, entry *model.VitalsEntry) error
	ListByUser(ctx context.Context, userID string, r model.VitalsRange) ([]*model.VitalsEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

// ExperimentRepository は実験カタログと実行記録のインターフェース
type ExperimentRepository interface {
	ListCatalog(ctx context.Context) ([]*model.Experiment, error)
	FindBySlug(ctx context.Context, slug string) (*model.Experiment, error)
	CreateRun(ctx context.Context, run *model.ExperimentRun) error
	FindRun(ctx context.Context, userID, runID string) (*model.ExperimentRun, error)
	ListRunsByUser(ctx context.Context, userID string) ([]*model.ExperimentRun, error)
	FindActiveRun(ctx context.Context, userID, experimentID string) (*model.ExperimentRun, error)

	// EndRun flips an active run to the given terminal status. Same conditional
	// semantics as MessageRepository.MarkAnswered.
	EndRun(ctx context.Context, userID, runID, status string, endedAt time.Time) (*model.ExperimentRun, error)
}
