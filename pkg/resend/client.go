// Package resend provides a lightweight Resend API client for Lighter.
// Uses raw HTTP calls (no SDK) to minimize external dependencies.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiURL = "https://api.resend.com/emails"

// ErrNotConfigured は Resend が設定されていない場合のエラー
var ErrNotConfigured = errors.New("resend: not configured")

// Client は Resend API クライアントのインターフェース
type Client interface {
	// Send は1通のメールを送信する。to は宛先リスト（最大 50 件）
	Send(ctx context.Context, to []string, subject, text string) error
}

// RealClient は Resend API への raw HTTP クライアント実装
type RealClient struct {
	APIKey     string
	From       string
	httpClient *http.Client
}

// NewClient は RealClient を生成する
func NewClient(apiKey, from string) *RealClient {
	return &RealClient{
		APIKey: apiKey,
		From:   from,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var _ Client = (*RealClient)(nil)

// sendRequest は POST /emails のリクエストボディ
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Send は Resend の POST /emails を呼び出す
func (c *RealClient) Send(ctx context.Context, to []string, subject, text string) error {
	if c.APIKey == "" {
		return ErrNotConfigured
	}

	jsonBody, err := json.Marshal(sendRequest{
		From:    c.From,
		To:      to,
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("resend: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
