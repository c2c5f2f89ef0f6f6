package chat

import (
	"sync"
	"time"
)

// ChatSession is a bounded conversation scoped to one uploaded document.
// The id, document text, system prompt and creation time are immutable
// after creation; only the history grows.
type ChatSession struct {
	ID           string
	SourceName   string
	DocumentText string
	SystemPrompt string
	CreatedAt    time.Time

	mu           sync.RWMutex
	history      []Message
	lastActivity time.Time
}

// Summary is the read-only view of a session handed to callers.
type Summary struct {
	ID           string    `json:"sessionId"`
	SourceName   string    `json:"fileName"`
	MessageCount int       `json:"messageCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Transcript is a snapshot of a session taken before removal.
type Transcript struct {
	ID         string
	SourceName string
	CreatedAt  time.Time
	Messages   []Message
}

func (s *ChatSession) append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, msg)
	s.lastActivity = msg.Timestamp
}

// History returns a copy of the conversation so far, in order.
func (s *ChatSession) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the number of messages in the history.
func (s *ChatSession) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// LastActivity returns the time of the most recent append, or the
// creation time for a session with no messages yet.
func (s *ChatSession) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastActivity.IsZero() {
		return s.CreatedAt
	}
	return s.lastActivity
}

// Summary returns the session metadata exposed over the API.
func (s *ChatSession) Summary() Summary {
	return Summary{
		ID:           s.ID,
		SourceName:   s.SourceName,
		MessageCount: s.Len(),
		CreatedAt:    s.CreatedAt,
	}
}

// Transcript snapshots the session for archiving.
func (s *ChatSession) Transcript() Transcript {
	return Transcript{
		ID:         s.ID,
		SourceName: s.SourceName,
		CreatedAt:  s.CreatedAt,
		Messages:   s.History(),
	}
}
