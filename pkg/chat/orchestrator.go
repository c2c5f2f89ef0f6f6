package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edi/docchat/internal/metrics"
)

// Backend computes an assistant reply given full conversational context.
// The backend sees the system prompt, every prior turn in order, and the
// new user message as the final turn on every call; no provider-side
// session state is assumed.
type Backend interface {
	Respond(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error)

	// Name returns the provider name, used for logging and metrics labels.
	Name() string
}

// Archiver persists a session transcript before the session is removed.
type Archiver interface {
	Archive(ctx context.Context, transcript Transcript) error
}

// Orchestrator ties the store and the AI backend together. It is the single
// entry point for answering messages against a session.
type Orchestrator struct {
	store    *Store
	backend  Backend
	archiver Archiver         // optional
	metrics  *metrics.Metrics // optional
}

// NewOrchestrator creates an orchestrator. archiver and m may be nil.
func NewOrchestrator(store *Store, backend Backend, archiver Archiver, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		store:    store,
		backend:  backend,
		archiver: archiver,
		metrics:  m,
	}
}

// CreateSession creates a session for an extracted document and returns it.
func (o *Orchestrator) CreateSession(sourceName, documentText string) (*ChatSession, error) {
	if strings.TrimSpace(sourceName) == "" {
		return nil, ErrEmptyFileName
	}

	session := o.store.Create(sourceName, documentText)

	if o.metrics != nil {
		o.metrics.SessionsCreatedTotal.Inc()
		o.metrics.SessionsActive.Set(float64(o.store.Len()))
	}

	return session, nil
}

// SendMessage appends the user message to the session history, asks the
// backend for a reply with the full context, appends the reply and returns
// it. The user message remains recorded even if the backend fails, so the
// conversation can be retried.
func (o *Orchestrator) SendMessage(ctx context.Context, sessionID, userMessage string) (string, error) {
	userMessage = strings.TrimSpace(userMessage)
	if userMessage == "" {
		return "", ErrEmptyMessage
	}

	if _, ok := o.store.Get(sessionID); !ok {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	// Serialize sends per session, including the backend call: two replies
	// must never be computed against the same history prefix.
	lock := o.store.sendLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	// Re-check under the lock; the session may have been deleted while
	// waiting.
	session, ok := o.store.Get(sessionID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	history := session.History()
	session.append(Message{Role: RoleUser, Content: userMessage, Timestamp: time.Now()})
	if o.metrics != nil {
		o.metrics.MessagesTotal.WithLabelValues(RoleUser).Inc()
	}

	start := time.Now()
	reply, err := o.backend.Respond(ctx, session.SystemPrompt, history, userMessage)
	if o.metrics != nil {
		o.metrics.BackendCallDuration.WithLabelValues(o.backend.Name()).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if o.metrics != nil {
			o.metrics.BackendErrorsTotal.WithLabelValues(o.backend.Name()).Inc()
		}
		log.Error().
			Str("session_id", sessionID).
			Str("provider", o.backend.Name()).
			Err(err).
			Msg("AI backend call failed")
		return "", fmt.Errorf("%w: %w", ErrBackendFailure, err)
	}

	session.append(Message{Role: RoleAssistant, Content: reply, Timestamp: time.Now()})
	if o.metrics != nil {
		o.metrics.MessagesTotal.WithLabelValues(RoleAssistant).Inc()
	}

	log.Info().
		Str("session_id", sessionID).
		Int("reply_chars", len(reply)).
		Msg("Message answered")

	return reply, nil
}

// SessionSummary returns the metadata of a session, if it exists.
func (o *Orchestrator) SessionSummary(sessionID string) (Summary, bool) {
	session, ok := o.store.Get(sessionID)
	if !ok {
		return Summary{}, false
	}
	return session.Summary(), true
}

// DeleteSession removes a session, archiving its transcript first when an
// archiver is configured. Deleting an absent session is a no-op.
func (o *Orchestrator) DeleteSession(ctx context.Context, sessionID string) error {
	session, ok := o.store.Get(sessionID)
	if !ok {
		return nil
	}

	if o.archiver != nil {
		if err := o.archiver.Archive(ctx, session.Transcript()); err != nil {
			// Archive failure must not block deletion.
			log.Warn().Str("session_id", sessionID).Err(err).Msg("Failed to archive transcript")
		}
	}

	if o.store.Delete(sessionID) && o.metrics != nil {
		o.metrics.SessionsDeletedTotal.Inc()
		o.metrics.SessionsActive.Set(float64(o.store.Len()))
	}

	return nil
}
