package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lighter/backend/internal/model"
	"github.com/lighter/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	resetTokenTTL     = 30 * time.Minute
	resetTokenPurpose = "password_reset"
)

// authServiceImpl is the production implementation of AuthService.
type authServiceImpl struct {
	userRepo    repository.UserRepository
	notifier    Notifier // nil disables notifications
	secret      []byte   // signs password-reset tokens
	frontendURL string
}

// NewAuthService creates an AuthService. secret signs password-reset tokens
// and frontendURL is the base for reset links.
func NewAuthService(userRepo repository.UserRepository, notifier Notifier, secret []byte, frontendURL string) AuthService {
	return &authServiceImpl{userRepo: userRepo, notifier: notifier, secret: secret, frontendURL: frontendURL}
}

// Signup registers a new account with a bcrypt password hash and dispatches
// the new_user_signup event to admins.
func (s *authServiceImpl) Signup(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if len(password) < minPasswordLength {
		return nil, &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:              email,
		PasswordHash:       string(hash),
		Name:               strings.TrimSpace(name),
		SubscriptionStatus: model.SubscriptionFree,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.dispatch(EventNewUserSignup, NotifyPayload{UserEmail: user.Email, UserName: user.Name})
	return user, nil
}

// Login verifies the email/password pair.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsSuspended() {
		return nil, ErrForbidden
	}
	return user, nil
}

// RequestPasswordReset issues a signed, expiring token and emails a reset
// link. Unknown addresses are not distinguishable from registered ones.
func (s *authServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.newResetToken(user.ID)
	if err != nil {
		return err
	}
	resetURL := s.frontendURL + "/reset-password?token=" + url.QueryEscape(token)

	s.dispatch(EventPasswordResetRequested, NotifyPayload{
		UserEmail: user.Email,
		UserName:  user.Name,
		ResetURL:  resetURL,
	})
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *authServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	userID, err := s.parseResetToken(token)
	if err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	return nil
}

// GetUser returns the account for a session's user id.
func (s *authServiceImpl) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// newResetToken は 30 分有効なパスワードリセット用 JWT を発行する
func (s *authServiceImpl) newResetToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     userID,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(resetTokenTTL).Unix(),
		"purpose": resetTokenPurpose,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parseResetToken はリセットトークンを検証して userID を返す
func (s *authServiceImpl) parseResetToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected claims type")
	}
	if purpose, _ := claims["purpose"].(string); purpose != resetTokenPurpose {
		return "", errors.New("wrong token purpose")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing subject")
	}
	return sub, nil
}

// dispatch sends the event on a detached goroutine; failures are logged only.
func (s *authServiceImpl) dispatch(event string, payload NotifyPayload) {
	if s.notifier == nil {
		return
	}
	eventID := uuid.NewString()
	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(nctx, event, payload); err != nil {
			slog.Error("notification dispatch failed", "event", event, "event_id", eventID, "error", err)
		}
	}()
}
