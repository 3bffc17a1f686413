package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/vitaena/internal/progress"
)

type stubProgress struct {
	stubLastVisited
	results map[string]progress.Result
}

func (s stubProgress) Results(_ context.Context, slug string, ids []string) map[string]progress.Result {
	out := make(map[string]progress.Result)
	for _, id := range ids {
		if r, ok := s.results[slug+"/"+id]; ok {
			out[id] = r
		}
	}
	return out
}

func newTopicMux(t *testing.T, p stubProgress) *http.ServeMux {
	t.Helper()
	h := NewHTTPHandlers(loadEmbedded(t), p, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/topics", h.ListTopics)
	mux.HandleFunc("GET /v1/topics/{slug}", h.GetTopic)
	mux.HandleFunc("GET /v1/topics/{slug}/exercises/{id}", h.GetExercise)
	return mux
}

func get(t *testing.T, mux http.Handler, path string, dst interface{}) int {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if dst != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
	}
	return rec.Code
}

func TestListTopicsHTTP(t *testing.T) {
	mux := newTopicMux(t, stubProgress{results: map[string]progress.Result{
		"numbers/1": progress.ResultCorrect,
		"numbers/2": progress.ResultIncorrect,
	}})

	var body struct {
		Topics []TopicCard `json:"topics"`
	}
	require.Equal(t, http.StatusOK, get(t, mux, "/v1/topics", &body))
	require.Len(t, body.Topics, 5)

	numbers := body.Topics[2]
	assert.Equal(t, "numbers", numbers.Slug)
	assert.Equal(t, 1, numbers.Correct)
	assert.Equal(t, CountLabel(numbers.Count), numbers.CountLabel)

	verbs := body.Topics[4]
	assert.Equal(t, 0, verbs.Count)
	assert.Equal(t, "0 упражнений", verbs.CountLabel)
}

func TestGetTopicHTTP(t *testing.T) {
	mux := newTopicMux(t, stubProgress{stubLastVisited: stubLastVisited{"numbers": "3"}})

	var page TopicPage
	require.Equal(t, http.StatusOK, get(t, mux, "/v1/topics/numbers", &page))
	assert.Equal(t, "3", page.EntryID)
	assert.Empty(t, page.EmptyTitle)

	require.Equal(t, http.StatusOK, get(t, mux, "/v1/topics/greetings", &page))
	assert.Equal(t, page.ExerciseIDs[0], page.EntryID)

	var empty TopicPage
	require.Equal(t, http.StatusOK, get(t, mux, "/v1/topics/verbs", &empty))
	assert.Empty(t, empty.EntryID)
	assert.Equal(t, EmptyTopicTitle, empty.EmptyTitle)
	assert.Equal(t, EmptyTopicMessage, empty.EmptyMessage)

	assert.Equal(t, http.StatusNotFound, get(t, mux, "/v1/topics/nope", nil))
}

func TestGetExerciseHTTP(t *testing.T) {
	mux := newTopicMux(t, stubProgress{results: map[string]progress.Result{"numbers/2": progress.ResultCorrect}})

	var page struct {
		Position      int             `json:"position"`
		Total         int             `json:"total"`
		PositionLabel string          `json:"position_label"`
		PreviousID    string          `json:"previous_id"`
		NextID        string          `json:"next_id"`
		Label         string          `json:"label"`
		Result        progress.Result `json:"result"`
		Exercise      struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"exercise"`
	}
	require.Equal(t, http.StatusOK, get(t, mux, "/v1/topics/numbers/exercises/2", &page))
	assert.Equal(t, 2, page.Position)
	assert.Equal(t, "1", page.PreviousID)
	assert.Equal(t, "3", page.NextID)
	assert.Equal(t, "2", page.Exercise.ID)
	assert.Equal(t, "multiple-choice", page.Exercise.Type)
	assert.Equal(t, "Выбор", page.Label)
	assert.Equal(t, progress.ResultCorrect, page.Result)
	assert.Equal(t, "2 / "+strconv.Itoa(page.Total), page.PositionLabel)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/topics/numbers/exercises/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "exercise_not_found")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/topics/nope/exercises/1", nil))
	assert.Contains(t, rec.Body.String(), "topic_not_found")
}
