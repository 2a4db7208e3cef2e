package model

import "time"

// Message status values. A message starts pending and is answered exactly once;
// there is no transition back.
const (
	MessageStatusPending  = "pending"
	MessageStatusAnswered = "answered"
)

// Message is a support message submitted by a user, paired with at most one
// admin response. Response and RespondedAt are set together with the
// pending→answered status flip and never change afterwards.
type Message struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Status      string     `json:"status"` // "pending" | "answered"
	Response    string     `json:"response,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// IsAnswered reports whether the message has received its admin response.
func (m *Message) IsAnswered() bool {
	return m.Status == MessageStatusAnswered
}

// MessageListOptions carries filter and pagination parameters for listing messages.
type MessageListOptions struct {
	// Status filters by message status: "", "all", "pending", "answered".
	// Empty string and "all" return all messages.
	Status string
	Limit  int
	Offset int
}
