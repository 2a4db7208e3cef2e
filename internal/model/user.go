package model

import "time"

// Subscription status values mirrored from the billing provider.
const (
	SubscriptionFree     = "free"
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
)

type User struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	Name               string     `json:"name"`
	SubscriptionStatus string     `json:"subscription_status"`
	SuspendedAt        *time.Time `json:"suspended_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsSuspended returns true if the user account is currently suspended.
func (u *User) IsSuspended() bool {
	return u.SuspendedAt != nil
}
