package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store is the in-memory session registry. It exclusively owns all
// ChatSession instances for its lifetime; sessions live until explicitly
// deleted or the process exits.
type Store struct {
	prompts *PromptBuilder

	mu       sync.RWMutex
	sessions map[string]*ChatSession

	// sendLocks serializes sends against the same session id without
	// blocking sends against other sessions.
	sendLocks map[string]*sync.Mutex
	locksMu   sync.Mutex
}

// NewStore creates an empty store using the given prompt builder.
func NewStore(prompts *PromptBuilder) *Store {
	if prompts == nil {
		prompts = NewPromptBuilder()
	}
	return &Store{
		prompts:   prompts,
		sessions:  make(map[string]*ChatSession),
		sendLocks: make(map[string]*sync.Mutex),
	}
}

// Create builds a new session for an extracted document, inserts it into
// the registry and returns it. The system prompt is derived once, here.
func (s *Store) Create(sourceName, documentText string) *ChatSession {
	session := &ChatSession{
		ID:           uuid.New().String(),
		SourceName:   sourceName,
		DocumentText: documentText,
		SystemPrompt: s.prompts.Build(documentText),
		CreatedAt:    time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	log.Info().
		Str("session_id", session.ID).
		Str("file", sourceName).
		Int("text_length", len(documentText)).
		Msg("Session created")

	return session
}

// Get looks up a session by id. The second return value reports presence.
func (s *Store) Get(id string) (*ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Delete removes a session if present. Deleting an absent id is a no-op.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	_, existed := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	s.locksMu.Lock()
	delete(s.sendLocks, id)
	s.locksMu.Unlock()

	if existed {
		log.Info().Str("session_id", id).Msg("Session deleted")
	}
	return existed
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Idle returns the ids of sessions whose last activity is older than the
// given duration.
func (s *Store) Idle(olderThan time.Duration) []string {
	cutoff := time.Now().Add(-olderThan)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, session := range s.sessions {
		if session.LastActivity().Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}

// sendLock returns the per-session mutex for the given id, creating it on
// first use.
func (s *Store) sendLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	if lock, exists := s.sendLocks[id]; exists {
		return lock
	}

	lock := &sync.Mutex{}
	s.sendLocks[id] = lock
	return lock
}
