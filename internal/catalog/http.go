package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/internal/exercise"
	"github.com/gokatarajesh/vitaena/internal/progress"
	httperrors "github.com/gokatarajesh/vitaena/pkg/http/errors"
)

// Placeholder shown for topics without exercises.
const (
	EmptyTopicTitle   = "Упражнений пока нет"
	EmptyTopicMessage = "Эта тема в разработке."
)

// ProgressReader is the read side of the progress store used by topic pages.
type ProgressReader interface {
	LastVisitedReader
	Results(ctx context.Context, topicSlug string, ids []string) map[string]progress.Result
}

// TopicCard summarises a topic on the topic list.
type TopicCard struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Count       int    `json:"count"`
	CountLabel  string `json:"count_label"`
	Correct     int    `json:"correct"`
}

// TopicPage is a topic plus the exercise to open on entry.
type TopicPage struct {
	TopicCard
	ExerciseIDs  []string `json:"exercise_ids"`
	EntryID      string   `json:"entry_id,omitempty"`
	EmptyTitle   string   `json:"empty_title,omitempty"`
	EmptyMessage string   `json:"empty_message,omitempty"`
}

// ExercisePage is one exercise with its place in the topic.
type ExercisePage struct {
	TopicSlug     string            `json:"topic_slug"`
	TopicTitle    string            `json:"topic_title"`
	Exercise      exercise.Exercise `json:"exercise"`
	Label         string            `json:"label"`
	Position      int               `json:"position"`
	Total         int               `json:"total"`
	PositionLabel string            `json:"position_label"`
	PreviousID    string            `json:"previous_id,omitempty"`
	NextID        string            `json:"next_id,omitempty"`
	Result        progress.Result   `json:"result,omitempty"`
}

// HTTPHandlers provides REST endpoints for topics and navigation.
type HTTPHandlers struct {
	catalog  *Catalog
	progress ProgressReader
	logger   zerolog.Logger
}

// NewHTTPHandlers creates topic handlers.
func NewHTTPHandlers(c *Catalog, progress ProgressReader, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		catalog:  c,
		progress: progress,
		logger:   logger.With().Str("component", "catalog_http").Logger(),
	}
}

func (h *HTTPHandlers) card(ctx context.Context, t *Topic) TopicCard {
	correct := 0
	for _, r := range h.progress.Results(ctx, t.Slug, t.IDs()) {
		if r == progress.ResultCorrect {
			correct++
		}
	}
	return TopicCard{
		Slug:        t.Slug,
		Title:       t.Title,
		Description: t.Description,
		Count:       t.Len(),
		CountLabel:  CountLabel(t.Len()),
		Correct:     correct,
	}
}

// ListTopics handles GET /v1/topics
func (h *HTTPHandlers) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics := h.catalog.ListTopics()
	cards := make([]TopicCard, 0, len(topics))
	for _, t := range topics {
		cards = append(cards, h.card(r.Context(), t))
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{"topics": cards})
}

// GetTopic handles GET /v1/topics/{slug}
func (h *HTTPHandlers) GetTopic(w http.ResponseWriter, r *http.Request) {
	t, ok := h.catalog.FindTopic(r.PathValue("slug"))
	if !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeTopicNotFound, "Topic not found")
		return
	}
	page := TopicPage{
		TopicCard:   h.card(r.Context(), t),
		ExerciseIDs: t.IDs(),
	}
	if ex, ok := ResolveEntry(r.Context(), t, h.progress); ok {
		page.EntryID = ex.GetID()
	} else {
		page.EmptyTitle = EmptyTopicTitle
		page.EmptyMessage = EmptyTopicMessage
	}
	httperrors.RespondJSON(w, http.StatusOK, page)
}

// GetExercise handles GET /v1/topics/{slug}/exercises/{id}
func (h *HTTPHandlers) GetExercise(w http.ResponseWriter, r *http.Request) {
	t, ex, err := h.catalog.Exercise(r.PathValue("slug"), r.PathValue("id"))
	if err != nil {
		if t == nil {
			httperrors.RespondNotFound(w, httperrors.ErrCodeTopicNotFound, "Topic not found")
			return
		}
		httperrors.RespondNotFound(w, httperrors.ErrCodeExerciseNotFound, "Exercise not found")
		return
	}

	n, total, _ := t.Position(ex.GetID())
	page := ExercisePage{
		TopicSlug:     t.Slug,
		TopicTitle:    t.Title,
		Exercise:      ex,
		Label:         exercise.Label(ex.GetType()),
		Position:      n,
		Total:         total,
		PositionLabel: fmt.Sprintf("%d / %d", n, total),
	}
	if prev, ok := t.Previous(ex.GetID()); ok {
		page.PreviousID = prev.GetID()
	}
	if next, ok := t.Next(ex.GetID()); ok {
		page.NextID = next.GetID()
	}
	page.Result = h.progress.Results(r.Context(), t.Slug, []string{ex.GetID()})[ex.GetID()]
	httperrors.RespondJSON(w, http.StatusOK, page)
}
