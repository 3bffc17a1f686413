package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/internal/catalog"
	"github.com/gokatarajesh/vitaena/internal/config"
	"github.com/gokatarajesh/vitaena/internal/logging"
	"github.com/gokatarajesh/vitaena/internal/report"
	"github.com/gokatarajesh/vitaena/internal/session"
	"github.com/gokatarajesh/vitaena/internal/sidebar"
	httperrors "github.com/gokatarajesh/vitaena/pkg/http/errors"
	ws "github.com/gokatarajesh/vitaena/pkg/http/ws"
)

// HealthReporter exposes whether progress storage fell back to memory.
type HealthReporter interface {
	Degraded() bool
}

// Handlers groups the domain handlers mounted on the mux. Nil members are skipped.
type Handlers struct {
	Topics   *catalog.HTTPHandlers
	Sessions *session.HTTPHandlers
	Progress *sidebar.HTTPHandlers
	Stream   *sidebar.WSHandler
	Reports  *report.HTTPHandler
}

// NewHTTPServer wires health, metrics and the exercise API.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, health HealthReporter, h Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if health != nil && health.Degraded() {
			httperrors.RespondErrorWithDetails(w, http.StatusServiceUnavailable, httperrors.ErrCodeServiceUnavailable,
				"progress storage unavailable, results are kept in memory", map[string]interface{}{
					"progress_degraded": true,
				})
			return
		}
		httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"status":            "ok",
			"progress_degraded": false,
		})
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	if h.Topics != nil {
		mux.HandleFunc("GET /v1/topics", h.Topics.ListTopics)
		mux.HandleFunc("GET /v1/topics/{slug}", h.Topics.GetTopic)
		mux.HandleFunc("GET /v1/topics/{slug}/exercises/{id}", h.Topics.GetExercise)
	}

	if h.Sessions != nil {
		mux.HandleFunc("POST /v1/topics/{slug}/exercises/{id}/visit", h.Sessions.Visit)
		mux.HandleFunc("GET /v1/sessions/{sid}", h.Sessions.Get)
		mux.HandleFunc("POST /v1/sessions/{sid}/responses", h.Sessions.RecordResponse)
		mux.HandleFunc("POST /v1/sessions/{sid}/words", h.Sessions.PlaceWord)
		mux.HandleFunc("POST /v1/sessions/{sid}/words/click", h.Sessions.ClickWord)
		mux.HandleFunc("POST /v1/sessions/{sid}/words/move", h.Sessions.MoveWord)
		mux.HandleFunc("DELETE /v1/sessions/{sid}/words/{slot}", h.Sessions.RemoveWord)
		mux.HandleFunc("POST /v1/sessions/{sid}/check", h.Sessions.Check)
		mux.HandleFunc("POST /v1/sessions/{sid}/reset", h.Sessions.Reset)
		mux.HandleFunc("POST /v1/sessions/{sid}/reveal", h.Sessions.Reveal)
		mux.HandleFunc("POST /v1/sessions/{sid}/audio", h.Sessions.AudioEvent)
	}

	if h.Progress != nil {
		mux.HandleFunc("GET /v1/topics/{slug}/progress", h.Progress.Progress)
		mux.HandleFunc("DELETE /v1/topics/{slug}/progress", h.Progress.ClearAll)
		mux.HandleFunc("DELETE /v1/topics/{slug}/progress/{id}", h.Progress.ClearOne)
	}

	if h.Reports != nil {
		mux.HandleFunc("GET /v1/topics/{slug}/progress.xlsx", h.Reports.ExportTopic)
	}

	// WebSocket endpoint
	if h.Stream != nil {
		ws.Upgrader.CheckOrigin = ws.AllowOrigins(cfg.CORS.AllowedOrigins)
		mux.HandleFunc("GET /ws/progress", h.Stream.HandleWebSocket)
	} else {
		mux.HandleFunc("GET /ws/progress", func(w http.ResponseWriter, r *http.Request) {
			httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeServiceUnavailable, "progress stream not configured")
		})
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: withCORS(cfg.CORS, accessLog(logger, mux)),
	}
}

func withCORS(cfg config.CORS, next http.Handler) http.Handler {
	opts := []handlers.CORSOption{
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods(cfg.AllowedMethods),
		handlers.AllowedHeaders(cfg.AllowedHeaders),
		handlers.MaxAge(cfg.MaxAge),
	}
	if cfg.AllowCredentials {
		opts = append(opts, handlers.AllowCredentials())
	}
	return handlers.CORS(opts...)(next)
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the hijacker for websockets.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func accessLog(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.IntoContext(r.Context(), logger)

		if r.URL.Path == "/ws/progress" {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		evt := logger.Debug()
		if rec.status >= http.StatusInternalServerError {
			evt = logger.Warn()
		}
		evt.Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("status", strconv.Itoa(rec.status)).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
