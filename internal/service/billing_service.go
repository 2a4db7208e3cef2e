package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lighter/backend/internal/model"
	"github.com/lighter/backend/internal/repository"
	pkgstripe "github.com/lighter/backend/pkg/stripe"
)

// BillingService は Stripe サブスクリプション連携のビジネスロジック
type BillingService interface {
	// CreateCheckout は Stripe Checkout Session を作成し URL を返す
	CreateCheckout(ctx context.Context, userID string) (string, error)
	// ProcessWebhook は Webhook のシグネチャを検証してイベントを処理する
	ProcessWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

// billingServiceImpl は BillingService の実装
type billingServiceImpl struct {
	client      pkgstripe.Client
	userRepo    repository.UserRepository
	priceID     string
	frontendURL string
}

// NewBillingService は billingServiceImpl を生成する
func NewBillingService(client pkgstripe.Client, userRepo repository.UserRepository, priceID, frontendURL string) BillingService {
	return &billingServiceImpl{client: client, userRepo: userRepo, priceID: priceID, frontendURL: frontendURL}
}

// CreateCheckout builds a subscription checkout session for the user's plan.
func (s *billingServiceImpl) CreateCheckout(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	return s.client.CreateCheckoutSession(ctx, pkgstripe.CheckoutParams{
		CustomerEmail: user.Email,
		UserID:        user.ID,
		PriceID:       s.priceID,
		SuccessURL:    s.frontendURL + "/settings/billing?status=success",
		CancelURL:     s.frontendURL + "/settings/billing?status=canceled",
	})
}

// ProcessWebhook verifies the signature and flips the user's subscription
// status. Unknown event types are acknowledged without action so Stripe does
// not retry them.
func (s *billingServiceImpl) ProcessWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if err := s.client.VerifyWebhookSignature(payload, sigHeader); err != nil {
		return err
	}
	event, err := s.client.ParseWebhookEvent(payload)
	if err != nil {
		return err
	}

	userID := event.Data.Object.Metadata["user_id"]

	switch event.Type {
	case "checkout.session.completed":
		if userID == "" {
			slog.Warn("stripe webhook without user_id metadata", "event_type", event.Type, "event_id", event.ID)
			return nil
		}
		return s.userRepo.UpdateSubscriptionStatus(ctx, userID, model.SubscriptionActive)
	case "customer.subscription.deleted":
		if userID == "" {
			slog.Warn("stripe webhook without user_id metadata", "event_type", event.Type, "event_id", event.ID)
			return nil
		}
		return s.userRepo.UpdateSubscriptionStatus(ctx, userID, model.SubscriptionCanceled)
	default:
		slog.Debug("ignoring stripe webhook event", "event_type", event.Type, "event_id", event.ID)
		return nil
	}
}
