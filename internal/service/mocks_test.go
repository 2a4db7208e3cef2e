package service

import (
	"context"
	"time"

	"github.com/lighter/backend/internal/model"
)

// ---------------------------------------------------------------------------
// Shared in-memory stubs for service tests
// ---------------------------------------------------------------------------

type mockMessageRepository struct {
	createFunc       func(ctx context.Context, msg *model.Message) error
	findByIDFunc     func(ctx context.Context, id string) (*model.Message, error)
	listByUserFunc   func(ctx context.Context, userID string, opts model.MessageListOptions) ([]*model.Message, error)
	listFunc         func(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error)
	markAnsweredFunc func(ctx context.Context, id, response string, respondedAt time.Time) (*model.Message, error)
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, msg)
	}
	return nil
}

func (m *mockMessageRepository) FindByID(ctx context.Context, id string) (*model.Message, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockMessageRepository) ListByUser(ctx context.Context, userID string, opts model.MessageListOptions) ([]*model.Message, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, opts)
	}
	return nil, nil
}

func (m *mockMessageRepository) List(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockMessageRepository) MarkAnswered(ctx context.Context, id, response string, respondedAt time.Time) (*model.Message, error) {
	if m.markAnsweredFunc != nil {
		return m.markAnsweredFunc(ctx, id, response, respondedAt)
	}
	return nil, nil
}

type mockUserRepository struct {
	findByIDFunc                 func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc              func(ctx context.Context, email string) (*model.User, error)
	createFunc                   func(ctx context.Context, user *model.User) error
	updatePasswordFunc           func(ctx context.Context, id, passwordHash string) error
	updateSubscriptionStatusFunc func(ctx context.Context, id, status string) error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.User{ID: id, Email: "user@example.com", Name: "Test User"}, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return &model.User{ID: "user-1", Email: email}, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *mockUserRepository) UpdateSubscriptionStatus(ctx context.Context, id, status string) error {
	if m.updateSubscriptionStatusFunc != nil {
		return m.updateSubscriptionStatusFunc(ctx, id, status)
	}
	return nil
}

type mockVitalsRepository struct {
	upsertFunc     func(ctx context.Context, entry *model.VitalsEntry) error
	listByUserFunc func(ctx context.Context, userID string, r model.VitalsRange) ([]*model.VitalsEntry, error)
	deleteFunc     func(ctx context.Context, userID, id string) error
}

func (m *mockVitalsRepository) Upsert(ctx context.Context, entry *model.VitalsEntry) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, entry)
	}
	return nil
}

func (m *mockVitalsRepository) ListByUser(ctx context.Context, userID string, r model.VitalsRange) ([]*model.VitalsEntry, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, r)
	}
	return nil, nil
}

func (m *mockVitalsRepository) Delete(ctx context.Context, userID, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, id)
	}
	return nil
}

type mockExperimentRepository struct {
	listCatalogFunc    func(ctx context.Context) ([]*model.Experiment, error)
	findBySlugFunc     func(ctx context.Context, slug string) (*model.Experiment, error)
	createRunFunc      func(ctx context.Context, run *model.ExperimentRun) error
	findRunFunc        func(ctx context.Context, userID, runID string) (*model.ExperimentRun, error)
	listRunsByUserFunc func(ctx context.Context, userID string) ([]*model.ExperimentRun, error)
	findActiveRunFunc  func(ctx context.Context, userID, experimentID string) (*model.ExperimentRun, error)
	endRunFunc         func(ctx context.Context, userID, runID, status string, endedAt time.Time) (*model.ExperimentRun, error)
}

func (m *mockExperimentRepository) ListCatalog(ctx context.Context) ([]*model.Experiment, error) {
	if m.listCatalogFunc != nil {
		return m.listCatalogFunc(ctx)
	}
	return nil, nil
}

func (m *mockExperimentRepository) FindBySlug(ctx context.Context, slug string) (*model.Experiment, error) {
	if m.findBySlugFunc != nil {
		return m.findBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *mockExperimentRepository) CreateRun(ctx context.Context, run *model.ExperimentRun) error {
	if m.createRunFunc != nil {
		return m.createRunFunc(ctx, run)
	}
	return nil
}

func (m *mockExperimentRepository) FindRun(ctx context.Context, userID, runID string) (*model.ExperimentRun, error) {
	if m.findRunFunc != nil {
		return m.findRunFunc(ctx, userID, runID)
	}
	return nil, nil
}

func (m *mockExperimentRepository) ListRunsByUser(ctx context.Context, userID string) ([]*model.ExperimentRun, error) {
	if m.listRunsByUserFunc != nil {
		return m.listRunsByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockExperimentRepository) FindActiveRun(ctx context.Context, userID, experimentID string) (*model.ExperimentRun, error) {
	if m.findActiveRunFunc != nil {
		return m.findActiveRunFunc(ctx, userID, experimentID)
	}
	return nil, nil
}

func (m *mockExperimentRepository) EndRun(ctx context.Context, userID, runID, status string, endedAt time.Time) (*model.ExperimentRun, error) {
	if m.endRunFunc != nil {
		return m.endRunFunc(ctx, userID, runID, status, endedAt)
	}
	return nil, nil
}

// mockNotifier records every Notify call and signals done after each one, so
// tests can wait for the detached dispatch goroutine.
type mockNotifier struct {
	notifyFunc func(ctx context.Context, event string, p NotifyPayload) error
	done       chan struct{}
}

func newMockNotifier(fn func(ctx context.Context, event string, p NotifyPayload) error) *mockNotifier {
	return &mockNotifier{notifyFunc: fn, done: make(chan struct{}, 16)}
}

func (m *mockNotifier) Notify(ctx context.Context, event string, p NotifyPayload) error {
	var err error
	if m.notifyFunc != nil {
		err = m.notifyFunc(ctx, event, p)
	}
	m.done <- struct{}{}
	return err
}

// wait blocks until one Notify call completes (or the timeout elapses).
func (m *mockNotifier) wait(timeout time.Duration) bool {
	select {
	case <-m.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

type mockAdminDirectory struct {
	isAdminFunc func(ctx context.Context, userID string) (bool, error)
}

func (m *mockAdminDirectory) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if m.isAdminFunc != nil {
		return m.isAdminFunc(ctx, userID)
	}
	return false, nil
}
