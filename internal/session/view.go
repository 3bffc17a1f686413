package session

import (
	"fmt"

	"github.com/gokatarajesh/vitaena/internal/exercise"
)

// View is a read-only snapshot of an instance for rendering.
type View struct {
	SessionID  string            `json:"session_id"`
	TopicSlug  string            `json:"topic_slug"`
	ExerciseID string            `json:"exercise_id"`
	Type       exercise.Type     `json:"type"`
	Exercise   exercise.Exercise `json:"exercise"`
	State      State             `json:"state"`
	Responses  []string          `json:"responses"`
	Options    [][]string        `json:"options,omitempty"`
	Bank       *BankView         `json:"bank,omitempty"`
	CanCheck   bool              `json:"can_check"`
	Verdict    *VerdictView      `json:"verdict,omitempty"`
	Revealed   bool              `json:"revealed"`
	Answers    []string          `json:"answers,omitempty"`
	Audio      *AudioView        `json:"audio,omitempty"`
}

// BankView shows the word bank in its fixed display order.
type BankView struct {
	Order     []string `json:"order"`
	Available []string `json:"available"`
	Slots     []string `json:"slots"`
}

// VerdictView is the frozen verdict plus the expected answer of every slot
// that was answered incorrectly ("" for correct slots).
type VerdictView struct {
	Correct      bool     `json:"correct"`
	CorrectCount int      `json:"correct_count"`
	Total        int      `json:"total"`
	Slots        []bool   `json:"slots"`
	Expected     []string `json:"expected"`
	Feedback     string   `json:"feedback"`
}

type AudioView struct {
	Src     string `json:"src"`
	Playing bool   `json:"playing"`
}

// View snapshots the instance.
func (in *Instance) View() View {
	in.mu.Lock()
	defer in.mu.Unlock()

	v := View{
		SessionID:  in.id.String(),
		TopicSlug:  in.topicSlug,
		ExerciseID: in.ex.GetID(),
		Type:       in.ex.GetType(),
		Exercise:   in.ex,
		State:      in.state,
		Responses:  in.copyResponses(),
		CanCheck:   in.canCheck(),
		Revealed:   in.revealed,
	}
	for _, o := range in.options {
		if o != nil {
			v.Options = in.copyOptions()
			break
		}
	}
	if in.bank != nil {
		v.Bank = &BankView{
			Order:     in.bank.Order(),
			Available: in.bank.Available(),
			Slots:     in.bank.Slots(),
		}
	}
	if in.verdict != nil {
		vv := &VerdictView{
			Correct:      in.verdict.Correct,
			CorrectCount: in.verdict.CorrectCount,
			Total:        in.verdict.Total,
			Slots:        append([]bool(nil), in.verdict.Slots...),
			Expected:     make([]string, len(in.slots)),
			Feedback:     Feedback(in.verdict.CorrectCount, in.verdict.Total),
		}
		for i, ok := range in.verdict.Slots {
			if !ok {
				vv.Expected[i] = in.slots[i].Answer
			}
		}
		v.Verdict = vv
	}
	if oq, ok := in.ex.(*exercise.OpenQuestions); ok && in.revealed {
		v.Answers = make([]string, len(oq.Questions))
		for i, q := range oq.Questions {
			v.Answers[i] = q.Answer
		}
	}
	if in.audio != nil {
		v.Audio = &AudioView{Src: in.audio.Source(), Playing: in.audio.Playing()}
	}
	return v
}

func (in *Instance) copyOptions() [][]string {
	out := make([][]string, len(in.options))
	for i, o := range in.options {
		if o != nil {
			out[i] = append([]string(nil), o...)
		}
	}
	return out
}

// Feedback renders the learner-facing verdict line.
func Feedback(correct, total int) string {
	switch {
	case total == 1 && correct == 1:
		return "Правильно!"
	case total == 1:
		return "Неправильно"
	case correct == total:
		return "Все ответы верны!"
	}
	return fmt.Sprintf("Верно %d из %d", correct, total)
}
