package chat

import "time"

// Conversation roles. Provider adapters translate these to whatever
// vocabulary the concrete API expects.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single conversation turn
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
