package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/internal/catalog"
	"github.com/gokatarajesh/vitaena/internal/exercise"
	httperrors "github.com/gokatarajesh/vitaena/pkg/http/errors"
)

// ExerciseResolver finds the exercise a visit starts on.
type ExerciseResolver interface {
	Exercise(slug, id string) (*catalog.Topic, exercise.Exercise, error)
}

// HTTPHandlers exposes the interaction state machine over REST.
type HTTPHandlers struct {
	manager *Manager
	catalog ExerciseResolver
	logger  zerolog.Logger
}

// NewHTTPHandlers creates session handlers.
func NewHTTPHandlers(manager *Manager, resolver ExerciseResolver, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		manager: manager,
		catalog: resolver,
		logger:  logger.With().Str("component", "session_http").Logger(),
	}
}

type responseRequest struct {
	Slot  int    `json:"slot"`
	Value string `json:"value"`
}

type placeWordRequest struct {
	Word string `json:"word"`
	Slot int    `json:"slot"`
}

type clickWordRequest struct {
	Word string `json:"word"`
}

type moveWordRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type audioEventRequest struct {
	Event   string `json:"event"`
	Message string `json:"message,omitempty"`
}

// Visit handles POST /v1/topics/{slug}/exercises/{id}/visit
func (h *HTTPHandlers) Visit(w http.ResponseWriter, r *http.Request) {
	slug, id := r.PathValue("slug"), r.PathValue("id")
	topic, ex, err := h.catalog.Exercise(slug, id)
	if err != nil {
		h.respondCatalogError(w, err)
		return
	}
	in := h.manager.Visit(r.Context(), topic.Slug, ex)
	httperrors.RespondJSON(w, http.StatusCreated, in.View())
}

// Get handles GET /v1/sessions/{sid}
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instance(w, r)
	if !ok {
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, in.View())
}

// RecordResponse handles POST /v1/sessions/{sid}/responses
func (h *HTTPHandlers) RecordResponse(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instance(w, r)
	if !ok {
		return
	}
	var req responseRequest
	if !decode(w, r, &req) {
		return
	}
	h.respondAfter(w, in, in.RecordResponse(req.Slot, req.Value))
}

// PlaceWord handles POST /v1/sessions/{sid}/words
func (h *HTTPHandlers) PlaceWord(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instance(w, r)
	if !ok {
		return
	}
	var req placeWordRequest
	if !decode(w, r, &req) {
		return
	}
	h.respondAfter(w, in, in.PlaceWord(req.Word, req.Slot))
}

// ClickWord handles POST /v1/sessions/{sid}/words/click
func (h *HTTPHandlers) ClickWord(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instance(w, r)
	if !ok {
		return
	}
	var req clickWordRequest
	if !decode(w, r, &req) {
		return
	}
	_, err := in.ClickToPlaceFirstEmpty(req.Word)
	h.respondAfter(w, in, err)
}

// MoveWord handles POST /v1/sessions/{sid}/words/move
func (h *HTTPHandlers) MoveWord(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instance(w, r)
	if !ok {
		return
	}
	var req moveWordRequest
	if !decode(w, r, &req) {
		return
	}
	h.respondAfter(w, in, in.MoveWord(req.From, req.To))
}

// RemoveWord handles DELETE /v1/sessions/{sid}/words/{slot}
func (h *HTTPHandlers) RemoveWord(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instance(w, r)
	if !ok {
		return
	}
	slot, err := strconv.Atoi(r.PathValue("slot"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "slot must be an integer", "slot")
		return
	}
	h.respondAfter(w, in, in.RemoveWord(slot))
}

// Check handles POST /v1/sessions/{sid}/check
func (h *HTTPHandlers) Check(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instance(w, r)
	if !ok {
		return
	}
	_, err := in.Check(r.Context())
	h.respondAfter(w, in, err)
}

// Reset handles POST /v1/sessions/{sid}/reset
func (h *HTTPHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instance(w, r)
	if !ok {
		return
	}
	h.respondAfter(w, in, in.Reset(r.Context()))
}

// Reveal handles POST /v1/sessions/{sid}/reveal
func (h *HTTPHandlers) Reveal(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instance(w, r)
	if !ok {
		return
	}
	_, err := in.ToggleReveal()
	h.respondAfter(w, in, err)
}

// AudioEvent handles POST /v1/sessions/{sid}/audio
func (h *HTTPHandlers) AudioEvent(w http.ResponseWriter, r *http.Request) {
	in, ok := h.instance(w, r)
	if !ok {
		return
	}
	var req audioEventRequest
	if !decode(w, r, &req) {
		return
	}
	ctl := in.Audio()
	if ctl == nil {
		httperrors.RespondConflict(w, httperrors.ErrCodeNoAudio, ErrNoAudio.Error())
		return
	}
	switch req.Event {
	case "toggle":
		ctl.Toggle()
	case "ended":
		ctl.Ended()
	case "error":
		ctl.Failed(errors.New(req.Message))
	default:
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "event must be toggle, ended or error", "event")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, in.View())
}

func (h *HTTPHandlers) instance(w http.ResponseWriter, r *http.Request) (*Instance, bool) {
	id, err := uuid.Parse(r.PathValue("sid"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidSessionID, "Invalid session id")
		return nil, false
	}
	in, err := h.manager.Get(id)
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "Session is no longer active")
		return nil, false
	}
	return in, true
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return false
	}
	return true
}

// respondAfter renders the fresh view, or maps err to an error response.
func (h *HTTPHandlers) respondAfter(w http.ResponseWriter, in *Instance, err error) {
	if err == nil {
		httperrors.RespondJSON(w, http.StatusOK, in.View())
		return
	}
	switch {
	case errors.Is(err, ErrIncomplete):
		httperrors.RespondUnprocessable(w, httperrors.ErrCodeIncompleteResponse, err.Error())
	case errors.Is(err, ErrNotGradeable):
		httperrors.RespondConflict(w, httperrors.ErrCodeNotGradeable, err.Error())
	case errors.Is(err, ErrInvalidValue),
		errors.Is(err, ErrSlotOutOfRange),
		errors.Is(err, ErrUnknownWord):
		httperrors.RespondUnprocessable(w, httperrors.ErrCodeInvalidValue, err.Error())
	case errors.Is(err, ErrChecked),
		errors.Is(err, ErrNotChecked),
		errors.Is(err, ErrNotReference),
		errors.Is(err, ErrWordPlaced),
		errors.Is(err, ErrNoEmptySlot),
		errors.Is(err, ErrSlotEmpty),
		errors.Is(err, ErrNoWordBank):
		httperrors.RespondConflict(w, httperrors.ErrCodeInvalidTransition, err.Error())
	default:
		h.logger.Error().Err(err).Str("session_id", in.ID().String()).Msg("session operation failed")
		httperrors.RespondInternalError(w, "Operation failed")
	}
}

func (h *HTTPHandlers) respondCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrTopicNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeTopicNotFound, "Topic not found")
	case errors.Is(err, catalog.ErrExerciseNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeExerciseNotFound, "Exercise not found")
	default:
		h.logger.Error().Err(err).Msg("exercise lookup failed")
		httperrors.RespondInternalError(w, "Lookup failed")
	}
}
