package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/internal/progress"
)

// DefaultChannel carries progress events between processes sharing Redis.
const DefaultChannel = "progress:updates"

// Publisher relays store events to a Redis Pub/Sub channel.
type Publisher struct {
	redis   *redis.Client
	channel string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewPublisher creates a relay for channel (DefaultChannel when empty).
func NewPublisher(redis *redis.Client, channel string, logger zerolog.Logger) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{
		redis:   redis,
		channel: channel,
		timeout: 2 * time.Second,
		logger:  logger.With().Str("component", "progress_publisher").Logger(),
	}
}

// Channel returns the Pub/Sub channel name.
func (p *Publisher) Channel() string {
	return p.channel
}

// Publish sends evt; failures are logged and dropped.
func (p *Publisher) Publish(evt progress.Event) {
	raw, err := json.Marshal(evt)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to marshal progress event")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.redis.Publish(ctx, p.channel, raw).Err(); err != nil {
		p.logger.Warn().Err(err).Str("topic", evt.TopicSlug).Msg("failed to publish progress event")
	}
}

// Subscribe decodes events from the channel and hands them to fn until ctx
// is cancelled.
func (p *Publisher) Subscribe(ctx context.Context, fn func(progress.Event)) error {
	sub := p.redis.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var evt progress.Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				p.logger.Warn().Err(err).Msg("failed to decode progress event")
				continue
			}
			fn(evt)
		}
	}
}
