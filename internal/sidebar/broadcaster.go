package sidebar

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/internal/catalog"
	"github.com/gokatarajesh/vitaena/internal/progress"
	ws "github.com/gokatarajesh/vitaena/pkg/http/ws"
)

// TopicFinder resolves topics by slug.
type TopicFinder interface {
	FindTopic(slug string) (*catalog.Topic, bool)
}

// Relay fans progress events out across processes. The Redis publisher in
// storage/redisstore implements it.
type Relay interface {
	Publish(evt progress.Event)
	Subscribe(ctx context.Context, fn func(progress.Event)) error
}

// EventSource is where local progress events come from.
type EventSource interface {
	Subscribe(fn func(progress.Event)) func()
}

// Broadcaster pushes a fresh sidebar summary to every websocket watching a
// topic whenever that topic's progress changes.
type Broadcaster struct {
	topics  TopicFinder
	results ResultReader
	hub     *ws.Hub
	relay   Relay
	logger  zerolog.Logger
}

// NewBroadcaster creates a broadcaster. relay may be nil for single-process
// deployments; events are then forwarded straight to the hub.
func NewBroadcaster(topics TopicFinder, results ResultReader, hub *ws.Hub, relay Relay, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		topics:  topics,
		results: results,
		hub:     hub,
		relay:   relay,
		logger:  logger.With().Str("component", "progress_broadcaster").Logger(),
	}
}

// Attach subscribes to local store events and returns the unsubscribe func.
func (b *Broadcaster) Attach(src EventSource) func() {
	return src.Subscribe(b.handleLocal)
}

func (b *Broadcaster) handleLocal(evt progress.Event) {
	if evt.Kind == progress.EventLastVisited {
		return
	}
	if b.relay != nil {
		b.relay.Publish(evt)
		return
	}
	b.forward(evt)
}

// Run relays remote events until the context is cancelled. Without a relay
// it just waits for cancellation.
func (b *Broadcaster) Run(ctx context.Context) error {
	if b.relay == nil || b.hub == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return b.relay.Subscribe(ctx, b.forward)
}

func (b *Broadcaster) forward(evt progress.Event) {
	if b.hub == nil || evt.Kind == progress.EventLastVisited {
		return
	}
	t, ok := b.topics.FindTopic(evt.TopicSlug)
	if !ok {
		b.logger.Warn().Str("topic", evt.TopicSlug).Msg("progress event for unknown topic")
		return
	}

	view := Build(context.Background(), t, b.results, "")
	msg, err := ws.NewMessage(ws.TypeProgressUpdate, view.Payload(evt))
	if err != nil {
		b.logger.Warn().Err(err).Msg("failed to marshal progress WS payload")
		return
	}
	if err := b.hub.BroadcastToTopic(evt.TopicSlug, msg); err != nil {
		b.logger.Warn().Err(err).Str("topic", evt.TopicSlug).Msg("failed to broadcast progress update")
	}
}
