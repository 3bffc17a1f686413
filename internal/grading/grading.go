package grading

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gokatarajesh/vitaena/internal/exercise"
)

var (
	// ErrNotGradeable is returned for reference-only exercises.
	ErrNotGradeable = errors.New("exercise is not gradeable")
	// ErrSlotCount is returned when the response shape does not match the exercise.
	ErrSlotCount = errors.New("response slot count mismatch")
	// ErrIncomplete is returned when at least one slot is empty.
	ErrIncomplete = errors.New("response is incomplete")
	// ErrInvalidValue is returned for a slot value outside the slot's allowed set.
	ErrInvalidValue = errors.New("invalid slot value")
)

// Response holds one value per slot; "" marks an empty slot.
type Response []string

// Complete reports whether every slot holds a value. Fill-in-the-blank
// values that are only whitespace count as empty.
func (r Response) Complete() bool {
	for _, v := range r {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Verdict is the outcome of grading one complete response.
type Verdict struct {
	Correct      bool   `json:"correct"`
	CorrectCount int    `json:"correct_count"`
	Total        int    `json:"total"`
	Slots        []bool `json:"slots"`
}

// Detail renders the partial score, e.g. "4 of 6".
func (v Verdict) Detail() string {
	return fmt.Sprintf("%d of %d", v.CorrectCount, v.Total)
}

// Grade scores resp against ex. It never mutates either argument.
func Grade(ex exercise.Exercise, resp Response) (Verdict, error) {
	if !exercise.Gradeable(ex) {
		return Verdict{}, fmt.Errorf("exercise %q: %w", ex.GetID(), ErrNotGradeable)
	}
	slots := exercise.Slots(ex)
	if len(resp) != len(slots) {
		return Verdict{}, fmt.Errorf("exercise %q: got %d values for %d slots: %w", ex.GetID(), len(resp), len(slots), ErrSlotCount)
	}
	if !resp.Complete() {
		return Verdict{}, fmt.Errorf("exercise %q: %w", ex.GetID(), ErrIncomplete)
	}

	g := &grader{slots: slots, resp: resp}
	if err := ex.Accept(g); err != nil {
		return Verdict{}, fmt.Errorf("exercise %q: %w", ex.GetID(), err)
	}

	v := Verdict{Total: len(slots), Slots: g.marks}
	for _, ok := range g.marks {
		if ok {
			v.CorrectCount++
		}
	}
	v.Correct = v.CorrectCount == v.Total
	return v, nil
}

type grader struct {
	slots []exercise.Slot
	resp  Response
	marks []bool
}

// exact compares every slot by string equality.
func (g *grader) exact() {
	g.marks = make([]bool, len(g.slots))
	for i, slot := range g.slots {
		g.marks[i] = g.resp[i] == slot.Answer
	}
}

// inOptions rejects any value outside its slot's option set.
func (g *grader) inOptions() error {
	for i, slot := range g.slots {
		if !exercise.Contains(slot.Options, g.resp[i]) {
			return fmt.Errorf("slot %d: %q: %w", i, g.resp[i], ErrInvalidValue)
		}
	}
	return nil
}

func (g *grader) VisitMultipleChoice(*exercise.MultipleChoice) error {
	g.exact()
	return nil
}

func (g *grader) VisitFillInTheBlank(*exercise.FillInTheBlank) error {
	g.marks = make([]bool, len(g.slots))
	for i, slot := range g.slots {
		g.marks[i] = normalize(g.resp[i]) == normalize(slot.Answer)
	}
	return nil
}

func (g *grader) VisitAudio(*exercise.Audio) error {
	g.exact()
	return nil
}

func (g *grader) VisitReadingComprehension(*exercise.ReadingComprehension) error {
	g.exact()
	return nil
}

func (g *grader) VisitTrueFalse(ex *exercise.TrueFalse) error {
	g.marks = make([]bool, len(g.slots))
	for i, st := range ex.Statements {
		got, ok := exercise.ParseBool(g.resp[i])
		if !ok {
			return fmt.Errorf("slot %d: %q: %w", i, g.resp[i], ErrInvalidValue)
		}
		g.marks[i] = got == st.Answer
	}
	return nil
}

func (g *grader) VisitWordFill(*exercise.WordFill) error {
	if err := g.inOptions(); err != nil {
		return err
	}
	placed := make(map[string]int, len(g.resp))
	for i, w := range g.resp {
		if j, dup := placed[w]; dup {
			return fmt.Errorf("word %q placed in slots %d and %d: %w", w, j, i, ErrInvalidValue)
		}
		placed[w] = i
	}
	g.exact()
	return nil
}

func (g *grader) VisitSelectFill(*exercise.SelectFill) error {
	if err := g.inOptions(); err != nil {
		return err
	}
	g.exact()
	return nil
}

func (g *grader) VisitTableChoice(*exercise.TableChoice) error {
	g.exact()
	return nil
}

func (g *grader) VisitOpenQuestions(*exercise.OpenQuestions) error {
	return ErrNotGradeable
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
