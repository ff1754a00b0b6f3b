package chat

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a support conversation, keyed by the
// client-chosen conversation session id.
type Message struct {
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	IsCrisis  bool      `json:"is_crisis"`
	Timestamp time.Time `json:"timestamp"`
}
