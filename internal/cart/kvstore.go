package cart

import (
	"context"
	"strings"
	"sync"
)

// KVStore is the durable key-value surface the persister writes through.
// Get reports found=false for a missing key without an error.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// MemoryKV keeps values in process memory.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// ScopedKV namespaces every key under a prefix, giving each cart session its
// own copy of the fixed storage key.
type ScopedKV struct {
	inner  KVStore
	prefix string
}

func NewScopedKV(inner KVStore, parts ...string) *ScopedKV {
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			clean = append(clean, part)
		}
	}
	return &ScopedKV{inner: inner, prefix: strings.Join(clean, ":")}
}

func (s *ScopedKV) Key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *ScopedKV) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.Key(key))
}

func (s *ScopedKV) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.Key(key), value)
}
