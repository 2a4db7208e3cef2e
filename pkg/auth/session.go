package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// SessionTTL is how long a session token stays valid after issuance.
const SessionTTL = 30 * 24 * time.Hour

// CreateSessionToken はユーザーIDと発行時刻から署名付きセッショントークンを生成する
func CreateSessionToken(userID string, secret []byte) string {
	return createSessionTokenAt(userID, secret, time.Now())
}

func createSessionTokenAt(userID string, secret []byte, issuedAt time.Time) string {
	payload := userID + "|" + strconv.FormatInt(issuedAt.Unix(), 10)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	sig := hex.EncodeToString(mac.Sum(nil))
	return base64.URLEncoding.EncodeToString([]byte(payload)) + "." + sig
}

// VerifySessionToken はトークンを検証しユーザーIDを返す。
// 署名不一致または発行から SessionTTL 経過でエラーを返す
func VerifySessionToken(token string, secret []byte) (string, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return "", errors.New("invalid token format")
	}
	payload, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return "", errors.New("invalid signature")
	}

	fields := strings.SplitN(string(payload), "|", 2)
	if len(fields) != 2 {
		return "", errors.New("invalid payload format")
	}
	issuedAt, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return "", errors.New("invalid issued-at timestamp")
	}
	if time.Since(time.Unix(issuedAt, 0)) > SessionTTL {
		return "", errors.New("session expired")
	}
	return fields[0], nil
}

const sessionCookieName = "lighter_session"
const minSecretLen = 32

// SessionCookieName はセッションクッキー名
func SessionCookieName() string {
	return sessionCookieName
}

// SessionSecretBytes は文字列からセッション署名用のバイト列を生成する（最低32バイト）
func SessionSecretBytes(s string) []byte {
	b := []byte(s)
	if len(b) < minSecretLen {
		out := make([]byte, minSecretLen)
		copy(out, b)
		return out
	}
	return b
}
