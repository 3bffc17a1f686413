package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/vitaena/internal/catalog"
	"github.com/gokatarajesh/vitaena/internal/exercise"
)

func newTestMux(t *testing.T, store Store) *http.ServeMux {
	t.Helper()
	cat, err := catalog.New([]*catalog.Topic{{
		Slug:      "travel",
		Title:     "Путешествия",
		Exercises: exercise.List{multipleChoice(), wordFill()},
	}})
	require.NoError(t, err)

	h := NewHTTPHandlers(NewManager(store, zerolog.Nop(), ManagerOptions{Seed: 5}), cat, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/topics/{slug}/exercises/{id}/visit", h.Visit)
	mux.HandleFunc("GET /v1/sessions/{sid}", h.Get)
	mux.HandleFunc("POST /v1/sessions/{sid}/responses", h.RecordResponse)
	mux.HandleFunc("POST /v1/sessions/{sid}/words", h.PlaceWord)
	mux.HandleFunc("POST /v1/sessions/{sid}/words/click", h.ClickWord)
	mux.HandleFunc("DELETE /v1/sessions/{sid}/words/{slot}", h.RemoveWord)
	mux.HandleFunc("POST /v1/sessions/{sid}/check", h.Check)
	mux.HandleFunc("POST /v1/sessions/{sid}/reset", h.Reset)
	mux.HandleFunc("POST /v1/sessions/{sid}/audio", h.AudioEvent)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

type viewBody struct {
	SessionID string   `json:"session_id"`
	State     string   `json:"state"`
	CanCheck  bool     `json:"can_check"`
	Responses []string `json:"responses"`
	Verdict   *struct {
		Correct  bool   `json:"correct"`
		Feedback string `json:"feedback"`
	} `json:"verdict"`
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) viewBody {
	t.Helper()
	var v viewBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestHTTPCheckFlow(t *testing.T) {
	store := new(mockStore)
	store.On("SetLastVisited", mock.Anything, "travel", "n1").Return(nil)
	store.On("SetResult", mock.Anything, "travel", "n1", mock.Anything).Return(nil)
	mux := newTestMux(t, store)

	rec := do(t, mux, http.MethodPost, "/v1/topics/travel/exercises/n1/visit", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decodeView(t, rec)
	assert.Equal(t, "unanswered", view.State)
	base := "/v1/sessions/" + view.SessionID

	rec = do(t, mux, http.MethodPost, base+"/check", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "incomplete_response", errorCode(t, rec))

	rec = do(t, mux, http.MethodPost, base+"/responses", map[string]interface{}{"slot": 0, "value": "πέντε"})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	assert.Equal(t, "answering", view.State)
	assert.True(t, view.CanCheck)

	rec = do(t, mux, http.MethodPost, base+"/check", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	assert.Equal(t, "checked", view.State)
	require.NotNil(t, view.Verdict)
	assert.True(t, view.Verdict.Correct)
	assert.Equal(t, "Правильно!", view.Verdict.Feedback)

	rec = do(t, mux, http.MethodPost, base+"/responses", map[string]interface{}{"slot": 0, "value": "ένα"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_transition", errorCode(t, rec))

	rec = do(t, mux, http.MethodPost, base+"/audio", map[string]string{"event": "toggle"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no_audio", errorCode(t, rec))
}

func TestHTTPWordFill(t *testing.T) {
	store := new(mockStore)
	store.On("SetLastVisited", mock.Anything, "travel", "t4").Return(nil)
	mux := newTestMux(t, store)

	view := decodeView(t, do(t, mux, http.MethodPost, "/v1/topics/travel/exercises/t4/visit", nil))
	base := "/v1/sessions/" + view.SessionID

	rec := do(t, mux, http.MethodPost, base+"/words/click", map[string]string{"word": "την"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"την", ""}, decodeView(t, rec).Responses)

	rec = do(t, mux, http.MethodPost, base+"/words", map[string]interface{}{"word": "την", "slot": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, mux, http.MethodDelete, base+"/words/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	assert.Equal(t, []string{"", ""}, view.Responses)
	assert.Equal(t, "unanswered", view.State)

	rec = do(t, mux, http.MethodDelete, base+"/words/x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPLookupErrors(t *testing.T) {
	mux := newTestMux(t, nil)

	rec := do(t, mux, http.MethodPost, "/v1/topics/nope/exercises/n1/visit", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "topic_not_found", errorCode(t, rec))

	rec = do(t, mux, http.MethodPost, "/v1/topics/travel/exercises/zz/visit", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "exercise_not_found", errorCode(t, rec))

	rec = do(t, mux, http.MethodGet, "/v1/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodGet, "/v1/sessions/6f1c1a4e-3c1b-4d6e-9a43-5f0d2d1c9b11", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "session_not_found", errorCode(t, rec))
}
