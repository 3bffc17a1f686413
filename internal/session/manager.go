package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/internal/audio"
	"github.com/gokatarajesh/vitaena/internal/exercise"
	"github.com/gokatarajesh/vitaena/internal/metrics"
)

// Store is the part of the progress store the manager needs.
type Store interface {
	Recorder
	SetLastVisited(ctx context.Context, slug, id string) error
}

// ManagerOptions tunes a Manager. Seed 0 seeds shuffling from the clock.
type ManagerOptions struct {
	Seed    int64
	Player  audio.Player
	Metrics *metrics.Metrics
}

// Manager holds the single active instance. Visiting another exercise
// abandons the previous visit.
type Manager struct {
	mu     sync.Mutex
	active *Instance

	store   Store
	seed    int64
	player  audio.Player
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewManager creates a manager over store.
func NewManager(store Store, logger zerolog.Logger, opts ManagerOptions) *Manager {
	return &Manager{
		store:   store,
		seed:    opts.Seed,
		player:  opts.Player,
		metrics: opts.Metrics,
		logger:  logger.With().Str("component", "session_manager").Logger(),
	}
}

func (m *Manager) newRand() *rand.Rand {
	if m.seed != 0 {
		return rand.New(rand.NewSource(m.seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Visit starts a fresh instance for ex and records it as last visited.
func (m *Manager) Visit(ctx context.Context, topicSlug string, ex exercise.Exercise) *Instance {
	in := NewInstance(topicSlug, ex, Options{
		Recorder: m.store,
		Rand:     m.newRand(),
		Player:   m.player,
		Metrics:  m.metrics,
	}, m.logger)

	m.mu.Lock()
	prev := m.active
	m.active = in
	m.mu.Unlock()

	if prev != nil {
		m.logger.Debug().
			Str("previous", prev.ID().String()).
			Str("state", prev.State().String()).
			Msg("abandoning previous visit")
	}

	m.metrics.Visit(topicSlug)
	if m.store != nil {
		if err := m.store.SetLastVisited(ctx, topicSlug, ex.GetID()); err != nil {
			m.logger.Warn().Err(err).Str("topic", topicSlug).Msg("failed to record last visited")
		}
	}
	return in
}

// Active returns the current instance, if any.
func (m *Manager) Active() (*Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, m.active != nil
}

// Get resolves id to the active instance.
func (m *Manager) Get(id uuid.UUID) (*Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || m.active.ID() != id {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return m.active, nil
}
