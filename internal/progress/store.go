package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/internal/metrics"
)

// Result is the persisted verdict of one exercise.
type Result string

const (
	ResultCorrect   Result = "correct"
	ResultIncorrect Result = "incorrect"
)

// ResultFor maps a verdict flag to its stored form.
func ResultFor(correct bool) Result {
	if correct {
		return ResultCorrect
	}
	return ResultIncorrect
}

// Valid reports whether r is one of the stored forms.
func (r Result) Valid() bool {
	return r == ResultCorrect || r == ResultIncorrect
}

var (
	ErrInvalidKey    = errors.New("topic slug and exercise id are required")
	ErrInvalidResult = errors.New("result must be correct or incorrect")
)

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventResultSet     EventKind = "result_set"
	EventResultCleared EventKind = "result_cleared"
	EventTopicCleared  EventKind = "topic_cleared"
	EventLastVisited   EventKind = "last_visited"
)

// Event describes one applied mutation.
type Event struct {
	Kind       EventKind `json:"kind"`
	TopicSlug  string    `json:"topic_slug"`
	ExerciseID string    `json:"exercise_id,omitempty"`
	Result     Result    `json:"result,omitempty"`
}

// StoreOptions tunes a Store.
type StoreOptions struct {
	Metrics *metrics.Metrics
}

type subscriber struct {
	id int
	fn func(Event)
}

// Store persists per-exercise verdicts and the last visited exercise per
// topic. Backend failures switch the store to an in-memory fallback so
// interaction keeps working for the rest of the session.
type Store struct {
	mu       sync.RWMutex
	kv       KV
	degraded bool

	subMu  sync.RWMutex
	subs   []subscriber
	nextID int

	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewStore wraps kv. A nil kv starts the store in session-only mode.
func NewStore(kv KV, logger zerolog.Logger, opts StoreOptions) *Store {
	s := &Store{
		kv:      kv,
		metrics: opts.Metrics,
		logger:  logger.With().Str("component", "progress_store").Logger(),
	}
	if kv == nil {
		s.kv = NewMemoryKV()
		s.degraded = true
	}
	return s
}

// Degraded reports whether the store fell back to session-only memory.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

func (s *Store) backend() KV {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kv
}

func (s *Store) degrade(op string, failed KV, err error) {
	s.metrics.StorageFailure(op)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv != failed {
		return
	}
	s.logger.Warn().Err(err).Str("op", op).Msg("progress storage unavailable, continuing in memory")
	s.kv = NewMemoryKV()
	s.degraded = true
}

// do runs fn against the current backend and once more against the
// fallback when the backend fails.
func (s *Store) do(op string, fn func(KV) error) {
	kv := s.backend()
	if err := fn(kv); err != nil {
		s.degrade(op, kv, err)
		if err := fn(s.backend()); err != nil {
			s.logger.Error().Err(err).Str("op", op).Msg("progress fallback failed")
		}
	}
}

// SetResult records the verdict of one exercise, overwriting any prior one.
func (s *Store) SetResult(ctx context.Context, topicSlug, exerciseID string, r Result) error {
	if topicSlug == "" || exerciseID == "" {
		return ErrInvalidKey
	}
	if !r.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidResult, r)
	}
	s.do("set_result", func(kv KV) error {
		return kv.Set(ctx, ResultKey(topicSlug, exerciseID), string(r))
	})
	s.publish(Event{Kind: EventResultSet, TopicSlug: topicSlug, ExerciseID: exerciseID, Result: r})
	return nil
}

// GetResult returns the stored verdict of one exercise.
func (s *Store) GetResult(ctx context.Context, topicSlug, exerciseID string) (Result, bool) {
	var (
		raw string
		ok  bool
	)
	s.do("get_result", func(kv KV) error {
		var err error
		raw, ok, err = kv.Get(ctx, ResultKey(topicSlug, exerciseID))
		return err
	})
	if !ok {
		return "", false
	}
	r := Result(raw)
	if !r.Valid() {
		s.logger.Warn().Str("topic", topicSlug).Str("exercise", exerciseID).Str("value", raw).Msg("ignoring malformed stored result")
		return "", false
	}
	return r, true
}

// Results returns the stored verdicts for ids; absent entries are omitted.
func (s *Store) Results(ctx context.Context, topicSlug string, ids []string) map[string]Result {
	out := make(map[string]Result, len(ids))
	for _, id := range ids {
		if r, ok := s.GetResult(ctx, topicSlug, id); ok {
			out[id] = r
		}
	}
	return out
}

// ClearResult removes the verdict of one exercise.
func (s *Store) ClearResult(ctx context.Context, topicSlug, exerciseID string) error {
	if topicSlug == "" || exerciseID == "" {
		return ErrInvalidKey
	}
	s.do("clear_result", func(kv KV) error {
		return kv.Delete(ctx, ResultKey(topicSlug, exerciseID))
	})
	s.publish(Event{Kind: EventResultCleared, TopicSlug: topicSlug, ExerciseID: exerciseID})
	return nil
}

// ClearAll removes every verdict of a topic. The last visited exercise is kept.
func (s *Store) ClearAll(ctx context.Context, topicSlug string) error {
	if topicSlug == "" {
		return ErrInvalidKey
	}
	s.do("clear_all", func(kv KV) error {
		keys, err := kv.Keys(ctx, topicResultPrefix(topicSlug))
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return kv.Delete(ctx, keys...)
	})
	s.publish(Event{Kind: EventTopicCleared, TopicSlug: topicSlug})
	return nil
}

// SetLastVisited remembers the exercise most recently opened in a topic.
func (s *Store) SetLastVisited(ctx context.Context, topicSlug, exerciseID string) error {
	if topicSlug == "" || exerciseID == "" {
		return ErrInvalidKey
	}
	s.do("set_last_visited", func(kv KV) error {
		return kv.Set(ctx, LastVisitedKey(topicSlug), exerciseID)
	})
	s.publish(Event{Kind: EventLastVisited, TopicSlug: topicSlug, ExerciseID: exerciseID})
	return nil
}

// GetLastVisited returns the exercise most recently opened in a topic.
func (s *Store) GetLastVisited(ctx context.Context, topicSlug string) (string, bool) {
	var (
		id string
		ok bool
	)
	s.do("get_last_visited", func(kv KV) error {
		var err error
		id, ok, err = kv.Get(ctx, LastVisitedKey(topicSlug))
		return err
	})
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

// Subscribe registers fn for every applied mutation. Callbacks run
// synchronously after the write, outside any store lock, so they may read
// the store. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) publish(evt Event) {
	s.subMu.RLock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.fn(evt)
	}
}
