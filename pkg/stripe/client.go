// Package stripe provides a lightweight Stripe API client for Lighter's
// subscription billing. Uses raw HTTP calls (no SDK) to minimize external
// dependencies.
package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotConfigured は Stripe が設定されていない場合のエラー
var ErrNotConfigured = errors.New("stripe: not configured")

// CheckoutParams はサブスクリプション用チェックアウトセッション作成のパラメータ
type CheckoutParams struct {
	CustomerEmail string
	UserID        string // metadata として保存し Webhook で復元する
	PriceID       string // price_...
	SuccessURL    string
	CancelURL     string
}

// WebhookEventObject は checkout.session / subscription の data.object
type WebhookEventObject struct {
	ID           string            `json:"id"`
	Subscription string            `json:"subscription"`
	Metadata     map[string]string `json:"metadata"`
}

// WebhookEvent は Stripe Webhook のイベント
type WebhookEvent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Data struct {
		Object WebhookEventObject `json:"object"`
	} `json:"data"`
}

// Client は Stripe API クライアントのインターフェース
type Client interface {
	// CreateCheckoutSession は subscription モードの Checkout Session を作成し URL を返す
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)
	// CancelSubscription はサブスクリプションをキャンセルする
	CancelSubscription(ctx context.Context, subscriptionID string) error
	// VerifyWebhookSignature は Stripe-Signature ヘッダーを検証する
	VerifyWebhookSignature(payload []byte, sigHeader string) error
	// ParseWebhookEvent は Webhook ペイロードをパースする
	ParseWebhookEvent(payload []byte) (WebhookEvent, error)
}

// RealClient は Stripe API への raw HTTP クライアント実装
type RealClient struct {
	SecretKey     string
	WebhookSecret string // whsec_...
	httpClient    *http.Client
}

// NewClient は RealClient を生成する
func NewClient(secretKey, webhookSecret string) *RealClient {
	return &RealClient{
		SecretKey:     secretKey,
		WebhookSecret: webhookSecret,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

var _ Client = (*RealClient)(nil)

// CreateCheckoutSession は Stripe Checkout Session を作成し URL を返す
func (c *RealClient) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error) {
	if c.SecretKey == "" {
		return "", ErrNotConfigured
	}

	data := url.Values{}
	data.Set("mode", "subscription")
	data.Set("line_items[0][price]", params.PriceID)
	data.Set("line_items[0][quantity]", "1")
	data.Set("success_url", params.SuccessURL)
	data.Set("cancel_url", params.CancelURL)
	data.Set("metadata[user_id]", params.UserID)
	data.Set("subscription_data[metadata][user_id]", params.UserID)
	if params.CustomerEmail != "" {
		data.Set("customer_email", params.CustomerEmail)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.stripe.com/v1/checkout/sessions",
		strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.SecretKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var session struct {
		URL   string `json:"url"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", err
	}
	if session.Error != nil {
		return "", fmt.Errorf("stripe checkout error: %s", session.Error.Message)
	}
	if session.URL == "" {
		return "", errors.New("stripe checkout: empty URL in response")
	}
	return session.URL, nil
}

// CancelSubscription はサブスクリプションをキャンセルする
func (c *RealClient) CancelSubscription(ctx context.Context, subscriptionID string) error {
	if c.SecretKey == "" {
		return ErrNotConfigured
	}
	endpoint := fmt.Sprintf("https://api.stripe.com/v1/subscriptions/%s", subscriptionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.SecretKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("stripe cancel subscription: %s", errResp.Error.Message)
	}
	return nil
}

// VerifyWebhookSignature は Stripe-Signature ヘッダーを HMAC-SHA256 で検証する
func (c *RealClient) VerifyWebhookSignature(payload []byte, sigHeader string) error {
	if c.WebhookSecret == "" {
		return ErrNotConfigured
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return errors.New("stripe: invalid signature header format")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errors.New("stripe: invalid timestamp in signature header")
	}
	if time.Since(time.Unix(ts, 0)) > 5*time.Minute {
		return errors.New("stripe: webhook timestamp too old (replay attack protection)")
	}

	mac := hmac.New(sha256.New, []byte(c.WebhookSecret))
	mac.Write([]byte(timestamp + "." + string(payload)))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return errors.New("stripe: signature verification failed")
}

// ParseWebhookEvent は Webhook ペイロードのイベントタイプと ID をパースする
func (c *RealClient) ParseWebhookEvent(payload []byte) (WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return WebhookEvent{}, err
	}
	return event, nil
}
