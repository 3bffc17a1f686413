package sidebar

import (
	"context"

	"github.com/gokatarajesh/vitaena/internal/catalog"
	"github.com/gokatarajesh/vitaena/internal/exercise"
	"github.com/gokatarajesh/vitaena/internal/progress"
	ws "github.com/gokatarajesh/vitaena/pkg/http/ws"
)

// Status is the badge shown next to an exercise.
type Status string

const (
	StatusCurrent   Status = "current"
	StatusCorrect   Status = "correct"
	StatusIncorrect Status = "incorrect"
	StatusNone      Status = "none"
)

// ResetAllLabel is shown on the reset control when any result exists.
const ResetAllLabel = "Сбросить все результаты"

// ResultReader loads stored verdicts for a topic.
type ResultReader interface {
	Results(ctx context.Context, topicSlug string, ids []string) map[string]progress.Result
}

// Item is one sidebar row.
type Item struct {
	ExerciseID string          `json:"exercise_id"`
	Position   int             `json:"position"`
	Type       exercise.Type   `json:"type"`
	Label      string          `json:"label"`
	Status     Status          `json:"status"`
	Result     progress.Result `json:"result,omitempty"`
}

// View is the sidebar of one topic.
type View struct {
	TopicSlug    string `json:"topic_slug"`
	Title        string `json:"title"`
	CurrentID    string `json:"current_id,omitempty"`
	Items        []Item `json:"items"`
	Correct      int    `json:"correct"`
	Incorrect    int    `json:"incorrect"`
	Total        int    `json:"total"`
	HasAnyResult bool   `json:"has_any_result"`
	ResetLabel   string `json:"reset_label,omitempty"`
}

// Build assembles the sidebar of t. The current exercise wins over its
// stored result for the badge; Result still carries the verdict.
func Build(ctx context.Context, t *catalog.Topic, results ResultReader, currentID string) View {
	stored := results.Results(ctx, t.Slug, t.IDs())
	v := View{
		TopicSlug: t.Slug,
		Title:     t.Title,
		CurrentID: currentID,
		Items:     make([]Item, 0, t.Len()),
		Total:     t.Len(),
	}
	for i, ex := range t.Exercises {
		item := Item{
			ExerciseID: ex.GetID(),
			Position:   i + 1,
			Type:       ex.GetType(),
			Label:      exercise.Label(ex.GetType()),
			Status:     StatusNone,
			Result:     stored[ex.GetID()],
		}
		switch item.Result {
		case progress.ResultCorrect:
			item.Status = StatusCorrect
			v.Correct++
		case progress.ResultIncorrect:
			item.Status = StatusIncorrect
			v.Incorrect++
		}
		if ex.GetID() == currentID {
			item.Status = StatusCurrent
		}
		v.Items = append(v.Items, item)
	}
	v.HasAnyResult = v.Correct+v.Incorrect > 0
	if v.HasAnyResult {
		v.ResetLabel = ResetAllLabel
	}
	return v
}

// Payload converts the view into the websocket progress_update body.
func (v View) Payload(evt progress.Event) ws.ProgressUpdatePayload {
	p := ws.ProgressUpdatePayload{
		TopicSlug:    v.TopicSlug,
		Event:        string(evt.Kind),
		ExerciseID:   evt.ExerciseID,
		Items:        make([]ws.ProgressItem, len(v.Items)),
		Correct:      v.Correct,
		Incorrect:    v.Incorrect,
		Total:        v.Total,
		HasAnyResult: v.HasAnyResult,
	}
	for i, it := range v.Items {
		p.Items[i] = ws.ProgressItem{
			ExerciseID: it.ExerciseID,
			Position:   it.Position,
			Label:      it.Label,
			Status:     string(it.Status),
		}
	}
	return p
}
