package session

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/internal/audio"
	"github.com/gokatarajesh/vitaena/internal/exercise"
	"github.com/gokatarajesh/vitaena/internal/grading"
	"github.com/gokatarajesh/vitaena/internal/metrics"
	"github.com/gokatarajesh/vitaena/internal/progress"
)

// Recorder persists verdicts. *progress.Store satisfies it.
type Recorder interface {
	SetResult(ctx context.Context, slug, id string, r progress.Result) error
	ClearResult(ctx context.Context, slug, id string) error
}

// Options wires optional collaborators into an Instance.
type Options struct {
	Recorder Recorder
	Rand     *rand.Rand
	Player   audio.Player
	Metrics  *metrics.Metrics
}

// Instance is the interaction state of one visit to one exercise.
type Instance struct {
	// persistMu orders recorder writes and is taken before mu.
	persistMu sync.Mutex
	mu        sync.Mutex

	id        uuid.UUID
	topicSlug string
	ex        exercise.Exercise
	slots     []exercise.Slot
	options   [][]string
	responses []string
	bank      *WordBank
	audio     *audio.Control

	state    State
	verdict  *grading.Verdict
	revealed bool

	recorder Recorder
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewInstance starts a fresh Unanswered visit. Word banks and select-fill
// option lists are shuffled once here and keep their order across resets.
func NewInstance(topicSlug string, ex exercise.Exercise, opts Options, logger zerolog.Logger) *Instance {
	slots := exercise.Slots(ex)
	in := &Instance{
		id:        uuid.New(),
		topicSlug: topicSlug,
		ex:        ex,
		slots:     slots,
		options:   make([][]string, len(slots)),
		responses: make([]string, len(slots)),
		recorder:  opts.Recorder,
		metrics:   opts.Metrics,
	}
	in.logger = logger.With().
		Str("component", "session").
		Str("session_id", in.id.String()).
		Str("topic", topicSlug).
		Str("exercise_id", ex.GetID()).
		Logger()

	_, shuffleOptions := ex.(*exercise.SelectFill)
	for i, s := range slots {
		if s.Options == nil {
			continue
		}
		choices := make([]string, len(s.Options))
		copy(choices, s.Options)
		if shuffleOptions && opts.Rand != nil {
			opts.Rand.Shuffle(len(choices), func(a, b int) { choices[a], choices[b] = choices[b], choices[a] })
		}
		in.options[i] = choices
	}

	if wf, ok := ex.(*exercise.WordFill); ok {
		in.bank = NewWordBank(wf.Words, len(slots), opts.Rand)
	}
	if src := exercise.AudioSource(ex); src != "" {
		in.audio = audio.NewControl(src, opts.Player, logger)
	}
	return in
}

func (in *Instance) ID() uuid.UUID               { return in.id }
func (in *Instance) TopicSlug() string           { return in.topicSlug }
func (in *Instance) Exercise() exercise.Exercise { return in.ex }

// State returns the current phase.
func (in *Instance) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

// Responses returns a copy of the current slot values.
func (in *Instance) Responses() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.copyResponses()
}

func (in *Instance) copyResponses() []string {
	out := make([]string, len(in.responses))
	copy(out, in.responses)
	return out
}

// Verdict returns the frozen verdict once checked.
func (in *Instance) Verdict() (grading.Verdict, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.verdict == nil {
		return grading.Verdict{}, false
	}
	return *in.verdict, true
}

// CanCheck reports whether Check would grade right now.
func (in *Instance) CanCheck() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.canCheck()
}

func (in *Instance) canCheck() bool {
	if in.state == Checked || !exercise.Gradeable(in.ex) {
		return false
	}
	return grading.Response(in.responses).Complete()
}

func (in *Instance) checkSlot(slot int) error {
	if slot < 0 || slot >= len(in.slots) {
		return fmt.Errorf("slot %d of %d: %w", slot, len(in.slots), ErrSlotOutOfRange)
	}
	return nil
}

// settle recomputes Unanswered/Answering after an edit.
func (in *Instance) settle() {
	for _, v := range in.responses {
		if strings.TrimSpace(v) != "" {
			in.state = Answering
			return
		}
	}
	in.state = Unanswered
}

// syncBank mirrors the word bank slots into responses.
func (in *Instance) syncBank() {
	copy(in.responses, in.bank.Slots())
	in.settle()
}

// RecordResponse sets the value of one slot; "" clears it. Option slots only
// accept one of their options. Word-fill slots route through the word bank.
func (in *Instance) RecordResponse(slot int, value string) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.state == Checked {
		return ErrChecked
	}
	if err := in.checkSlot(slot); err != nil {
		return err
	}
	if in.bank != nil {
		var err error
		if value == "" {
			_, err = in.bank.Remove(slot)
		} else {
			err = in.bank.Place(value, slot)
		}
		if err != nil {
			return err
		}
		in.syncBank()
		return nil
	}
	if value != "" && in.slots[slot].Options != nil && !exercise.Contains(in.slots[slot].Options, value) {
		return fmt.Errorf("slot %d: %q: %w", slot, value, ErrInvalidValue)
	}
	in.responses[slot] = value
	in.settle()
	return nil
}

// PlaceWord drops an available bank word onto slot, displacing any occupant.
func (in *Instance) PlaceWord(word string, slot int) error {
	return in.withBank(func(b *WordBank) error { return b.Place(word, slot) })
}

// ClickToPlaceFirstEmpty places word into the first empty slot and returns that slot.
func (in *Instance) ClickToPlaceFirstEmpty(word string) (int, error) {
	slot := -1
	err := in.withBank(func(b *WordBank) error {
		var err error
		slot, err = b.ClickToPlaceFirstEmpty(word)
		return err
	})
	return slot, err
}

// MoveWord drags a placed word from one slot to another, swapping occupants.
func (in *Instance) MoveWord(from, to int) error {
	return in.withBank(func(b *WordBank) error { return b.Move(from, to) })
}

// RemoveWord returns the word in slot to the bank.
func (in *Instance) RemoveWord(slot int) error {
	return in.withBank(func(b *WordBank) error {
		_, err := b.Remove(slot)
		return err
	})
}

func (in *Instance) withBank(fn func(*WordBank) error) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.bank == nil {
		return ErrNoWordBank
	}
	if in.state == Checked {
		return ErrChecked
	}
	if err := fn(in.bank); err != nil {
		return err
	}
	in.syncBank()
	return nil
}

// Check grades the complete response, freezes the verdict, and records it.
// Checking again returns the frozen verdict without another write. Storage
// failures are logged; the verdict stands either way.
func (in *Instance) Check(ctx context.Context) (grading.Verdict, error) {
	in.persistMu.Lock()
	defer in.persistMu.Unlock()

	in.mu.Lock()
	if in.state == Checked {
		v := *in.verdict
		in.mu.Unlock()
		return v, nil
	}
	v, err := grading.Grade(in.ex, grading.Response(in.responses))
	if err != nil {
		in.mu.Unlock()
		return grading.Verdict{}, err
	}
	in.verdict = &v
	in.state = Checked
	in.mu.Unlock()

	in.metrics.Check(string(in.ex.GetType()), v.Correct)
	in.logger.Debug().Bool("correct", v.Correct).Str("score", v.Detail()).Msg("exercise checked")
	if in.recorder != nil {
		if err := in.recorder.SetResult(ctx, in.topicSlug, in.ex.GetID(), progress.ResultFor(v.Correct)); err != nil {
			in.logger.Warn().Err(err).Msg("failed to record result")
		}
	}
	return v, nil
}

// Reset clears responses and the stored result so the exercise can be
// answered again. Only a checked instance can be reset.
func (in *Instance) Reset(ctx context.Context) error {
	in.persistMu.Lock()
	defer in.persistMu.Unlock()

	in.mu.Lock()
	if in.state != Checked {
		in.mu.Unlock()
		return ErrNotChecked
	}
	for i := range in.responses {
		in.responses[i] = ""
	}
	if in.bank != nil {
		in.bank.Clear()
	}
	in.verdict = nil
	in.state = Unanswered
	in.mu.Unlock()

	in.metrics.Reset("exercise")
	if in.recorder != nil {
		if err := in.recorder.ClearResult(ctx, in.topicSlug, in.ex.GetID()); err != nil {
			in.logger.Warn().Err(err).Msg("failed to clear result")
		}
	}
	return nil
}

// ToggleReveal shows or hides the reference answers of open questions.
func (in *Instance) ToggleReveal() (bool, error) {
	if _, ok := in.ex.(*exercise.OpenQuestions); !ok {
		return false, ErrNotReference
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.revealed = !in.revealed
	return in.revealed, nil
}

// Revealed reports whether reference answers are shown.
func (in *Instance) Revealed() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.revealed
}

// Audio returns the clip control, or nil for exercises without audio.
func (in *Instance) Audio() *audio.Control {
	return in.audio
}
