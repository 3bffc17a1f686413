package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/vitaena/internal/progress"
)

// ProgressKV keeps progress keys as plain Redis strings without expiry.
type ProgressKV struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewProgressKV creates a KV backed by Redis.
func NewProgressKV(redis *redis.Client, logger zerolog.Logger) *ProgressKV {
	return &ProgressKV{
		redis:  redis,
		logger: logger.With().Str("component", "redis_progress").Logger(),
	}
}

func (s *ProgressKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *ProgressKV) Set(ctx context.Context, key, value string) error {
	if err := s.redis.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *ProgressKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete %d keys: %w", len(keys), err)
	}
	return nil
}

// Keys walks the keyspace with SCAN so large namespaces do not block Redis.
func (s *ProgressKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.redis.Scan(ctx, 0, globPrefix(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan %s*: %w", prefix, err)
	}
	return keys, nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// globPrefix escapes MATCH metacharacters so prefix is taken literally.
func globPrefix(prefix string) string {
	return globEscaper.Replace(prefix)
}

// Close is a no-op; the client is shared and closed by the application.
func (s *ProgressKV) Close() error {
	return nil
}

var _ progress.KV = (*ProgressKV)(nil)
