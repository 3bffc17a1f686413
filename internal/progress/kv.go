package progress

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// KV is the durable key-value backend behind a Store.
// Get returns ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Key scheme shared by every backend.
const (
	resultPrefix = "result"
	lastPrefix   = "last"
)

// ResultKey is the key holding the verdict of one exercise.
func ResultKey(topicSlug, exerciseID string) string {
	return fmt.Sprintf("%s:%s:%s", resultPrefix, topicSlug, exerciseID)
}

// LastVisitedKey is the key holding the last visited exercise of a topic.
func LastVisitedKey(topicSlug string) string {
	return fmt.Sprintf("%s:%s", lastPrefix, topicSlug)
}

func topicResultPrefix(topicSlug string) string {
	return fmt.Sprintf("%s:%s:", resultPrefix, topicSlug)
}

// MemoryKV keeps keys in process memory. It serves tests and the
// session-only fallback.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV returns an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *MemoryKV) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryKV) Close() error { return nil }

// Namespaced prefixes every key with a device namespace so that several
// devices can share one backend.
type Namespaced struct {
	KV
	prefix string
}

// WithNamespace wraps kv; an empty namespace returns kv unchanged.
func WithNamespace(kv KV, namespace string) KV {
	if namespace == "" {
		return kv
	}
	return &Namespaced{KV: kv, prefix: namespace + ":"}
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.KV.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.KV.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = n.prefix + k
	}
	return n.KV.Delete(ctx, full...)
}

func (n *Namespaced) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := n.KV.Keys(ctx, n.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, n.prefix)
	}
	return keys, nil
}

var (
	_ KV = (*MemoryKV)(nil)
	_ KV = (*Namespaced)(nil)
)
