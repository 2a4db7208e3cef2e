package service

import (
	"context"
	"testing"
	"time"

	"github.com/lighter/backend/internal/model"
	"github.com/lighter/backend/internal/repository"
)

func TestAdminDirectory_AllowlistedEmailIsAdmin(t *testing.T) {
	users := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "Admin@Example.com"}, nil
		},
	}
	dir := NewAdminDirectory(users, []string{"admin@example.com"})

	ok, err := dir.IsAdmin(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected allowlisted email to be admin (case-insensitive)")
	}
}

func TestAdminDirectory_OtherEmailIsNotAdmin(t *testing.T) {
	users := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "alice@example.com"}, nil
		},
	}
	dir := NewAdminDirectory(users, []string{"admin@example.com"})

	ok, err := dir.IsAdmin(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected non-allowlisted email to not be admin")
	}
}

func TestAdminDirectory_SuspendedAdminLosesRights(t *testing.T) {
	suspendedAt := time.Now()
	users := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "admin@example.com", SuspendedAt: &suspendedAt}, nil
		},
	}
	dir := NewAdminDirectory(users, []string{"admin@example.com"})

	ok, err := dir.IsAdmin(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected suspended account to lose admin rights")
	}
}

func TestAdminDirectory_UnknownUserIsNotAdmin(t *testing.T) {
	users := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	dir := NewAdminDirectory(users, []string{"admin@example.com"})

	ok, err := dir.IsAdmin(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("expected unknown user to be non-admin without error, got %v", err)
	}
	if ok {
		t.Error("expected unknown user to not be admin")
	}
}
