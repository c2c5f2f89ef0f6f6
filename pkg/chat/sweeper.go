package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultSweepSchedule checks for idle sessions every five minutes.
	DefaultSweepSchedule = "@every 5m"
)

// Sweeper evicts sessions that have been idle past the configured timeout.
// Eviction goes through the orchestrator so transcripts are archived before
// removal.
type Sweeper struct {
	orch        *Orchestrator
	idleTimeout time.Duration
	cron        *cron.Cron
	running     bool
}

// NewSweeper creates a sweeper. idleTimeout must be positive.
func NewSweeper(orch *Orchestrator, idleTimeout time.Duration, schedule string) (*Sweeper, error) {
	if idleTimeout <= 0 {
		return nil, fmt.Errorf("idle timeout must be positive")
	}
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	c := cron.New()
	s := &Sweeper{
		orch:        orch,
		idleTimeout: idleTimeout,
		cron:        c,
	}

	if _, err := c.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start starts the sweep schedule.
func (s *Sweeper) Start() error {
	if s.running {
		return fmt.Errorf("sweeper is already running")
	}
	s.running = true
	s.cron.Start()

	log.Info().Dur("idle_timeout", s.idleTimeout).Msg("Session sweeper started")
	return nil
}

// Stop stops the sweep schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if !s.running {
		return
	}
	s.running = false
	<-s.cron.Stop().Done()

	log.Info().Msg("Session sweeper stopped")
}

func (s *Sweeper) sweep() {
	ids := s.orch.store.Idle(s.idleTimeout)
	if len(ids) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, id := range ids {
		if err := s.orch.DeleteSession(ctx, id); err != nil {
			log.Warn().Str("session_id", id).Err(err).Msg("Failed to evict idle session")
		}
	}

	log.Info().Int("evicted", len(ids)).Msg("Idle sessions evicted")
}
