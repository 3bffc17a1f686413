package report

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/internal/sidebar"
	httperrors "github.com/gokatarajesh/vitaena/pkg/http/errors"
)

// HTTPHandler serves progress exports.
type HTTPHandler struct {
	topics  sidebar.TopicFinder
	results sidebar.ResultReader
	logger  zerolog.Logger
}

// NewHTTPHandler creates the export handler.
func NewHTTPHandler(topics sidebar.TopicFinder, results sidebar.ResultReader, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		topics:  topics,
		results: results,
		logger:  logger.With().Str("component", "report_http").Logger(),
	}
}

// ExportTopic handles GET /v1/topics/{slug}/progress.xlsx
func (h *HTTPHandler) ExportTopic(w http.ResponseWriter, r *http.Request) {
	t, ok := h.topics.FindTopic(r.PathValue("slug"))
	if !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeTopicNotFound, "Topic not found")
		return
	}

	data, err := TopicProgress(r.Context(), t, h.results)
	if err != nil {
		h.logger.Error().Err(err).Str("topic", t.Slug).Msg("failed to export progress")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeExportFailed, "Failed to export progress")
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(t.Slug)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
