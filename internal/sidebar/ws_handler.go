package sidebar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/internal/metrics"
	"github.com/gokatarajesh/vitaena/internal/progress"
	httperrors "github.com/gokatarajesh/vitaena/pkg/http/errors"
	ws "github.com/gokatarajesh/vitaena/pkg/http/ws"
)

// WSHandler serves live sidebar updates over /ws/progress.
type WSHandler struct {
	hub     *ws.Hub
	topics  TopicFinder
	results ResultReader
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewWSHandler creates the progress websocket handler.
func NewWSHandler(hub *ws.Hub, topics TopicFinder, results ResultReader, m *metrics.Metrics, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:     hub,
		topics:  topics,
		results: results,
		metrics: m,
		logger:  logger.With().Str("component", "progress_ws").Logger(),
	}
}

// HandleWebSocket upgrades the request and serves the connection until it closes.
// An optional ?topic={slug} subscribes right away.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	h.HandleConnection(conn, r.URL.Query().Get("topic"))
}

// HandleConnection registers conn with the hub and pumps messages.
func (h *WSHandler) HandleConnection(conn *websocket.Conn, topic string) {
	connID := uuid.New()
	wsConn := ws.NewConnection(conn, h.logger.With().Str("connection_id", connID.String()).Logger())
	h.hub.RegisterConnection(connID, wsConn)
	h.metrics.ConnectionOpened()

	go wsConn.WritePump()

	if topic != "" {
		if err := h.subscribe(connID, topic, ""); err != nil {
			h.logger.Warn().Err(err).Msg("initial subscription failed")
		}
	}

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(context.Background(), connID, msg)
	})

	h.hub.UnregisterConnection(connID)
	h.metrics.ConnectionClosed()
}

// handleMessage routes incoming WebSocket messages.
func (h *WSHandler) handleMessage(ctx context.Context, connID uuid.UUID, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeSubscribeTopic:
		var req ws.SubscribeTopicPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(connID, httperrors.ErrCodeInvalidPayload, "Invalid subscribe_topic payload")
		}
		return h.subscribe(connID, req.TopicSlug, "")
	case ws.TypeUnsubscribeTopic:
		var req ws.SubscribeTopicPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(connID, httperrors.ErrCodeInvalidPayload, "Invalid unsubscribe_topic payload")
		}
		h.hub.LeaveTopic(req.TopicSlug, connID)
		return nil
	case ws.TypeRequestProgress:
		var req ws.RequestProgressPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return h.sendError(connID, httperrors.ErrCodeInvalidPayload, "Invalid request_progress payload")
		}
		return h.sendProgress(ctx, connID, req.TopicSlug, req.CurrentID)
	case ws.TypePing:
		return h.hub.SendTo(connID, ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
	default:
		return h.sendError(connID, httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

// subscribe joins the topic and sends the current summary.
func (h *WSHandler) subscribe(connID uuid.UUID, slug, current string) error {
	if _, ok := h.topics.FindTopic(slug); !ok {
		return h.sendError(connID, httperrors.ErrCodeTopicNotFound, "Topic not found")
	}
	h.hub.JoinTopic(slug, connID)
	return h.sendProgress(context.Background(), connID, slug, current)
}

func (h *WSHandler) sendProgress(ctx context.Context, connID uuid.UUID, slug, current string) error {
	t, ok := h.topics.FindTopic(slug)
	if !ok {
		return h.sendError(connID, httperrors.ErrCodeTopicNotFound, "Topic not found")
	}
	view := Build(ctx, t, h.results, current)
	msg, err := ws.NewMessage(ws.TypeProgressUpdate, view.Payload(progress.Event{TopicSlug: slug}))
	if err != nil {
		return err
	}
	return h.hub.SendTo(connID, msg)
}

func (h *WSHandler) sendError(connID uuid.UUID, code, message string) error {
	msg, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return err
	}
	return h.hub.SendTo(connID, msg)
}
