package sidebar

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/internal/catalog"
	"github.com/gokatarajesh/vitaena/internal/metrics"
	httperrors "github.com/gokatarajesh/vitaena/pkg/http/errors"
)

// Store is the part of the progress store the sidebar reads and resets.
type Store interface {
	ResultReader
	ClearAll(ctx context.Context, topicSlug string) error
	ClearResult(ctx context.Context, topicSlug, exerciseID string) error
}

// HTTPHandlers provides REST endpoints for topic progress.
type HTTPHandlers struct {
	topics  TopicFinder
	store   Store
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewHTTPHandlers creates progress handlers.
func NewHTTPHandlers(topics TopicFinder, store Store, m *metrics.Metrics, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		topics:  topics,
		store:   store,
		metrics: m,
		logger:  logger.With().Str("component", "progress_http").Logger(),
	}
}

// Progress handles GET /v1/topics/{slug}/progress?current={id}
func (h *HTTPHandlers) Progress(w http.ResponseWriter, r *http.Request) {
	t, ok := h.topic(w, r)
	if !ok {
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, Build(r.Context(), t, h.store, r.URL.Query().Get("current")))
}

// ClearAll handles DELETE /v1/topics/{slug}/progress
func (h *HTTPHandlers) ClearAll(w http.ResponseWriter, r *http.Request) {
	t, ok := h.topic(w, r)
	if !ok {
		return
	}
	if err := h.store.ClearAll(r.Context(), t.Slug); err != nil {
		h.logger.Error().Err(err).Str("topic", t.Slug).Msg("failed to clear topic progress")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeResetFailed, "Failed to reset progress")
		return
	}
	h.metrics.Reset("topic")
	httperrors.RespondJSON(w, http.StatusOK, Build(r.Context(), t, h.store, r.URL.Query().Get("current")))
}

// ClearOne handles DELETE /v1/topics/{slug}/progress/{id}
func (h *HTTPHandlers) ClearOne(w http.ResponseWriter, r *http.Request) {
	t, ok := h.topic(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if _, ok := t.IndexOf(id); !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeExerciseNotFound, "Exercise not found")
		return
	}
	if err := h.store.ClearResult(r.Context(), t.Slug, id); err != nil {
		h.logger.Error().Err(err).Str("topic", t.Slug).Str("exercise_id", id).Msg("failed to clear result")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeResetFailed, "Failed to reset result")
		return
	}
	h.metrics.Reset("exercise")
	httperrors.RespondJSON(w, http.StatusOK, Build(r.Context(), t, h.store, r.URL.Query().Get("current")))
}

func (h *HTTPHandlers) topic(w http.ResponseWriter, r *http.Request) (*catalog.Topic, bool) {
	t, ok := h.topics.FindTopic(r.PathValue("slug"))
	if !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeTopicNotFound, "Topic not found")
		return nil, false
	}
	return t, true
}
