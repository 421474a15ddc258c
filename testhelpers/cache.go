package testhelpers

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// MemoryCache is an in-process stand-in for the redis cache. Values are kept
// JSON-encoded so tests see the same round trip redis would give them.
type MemoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration

	// Err, when set, is returned by every operation.
	Err error
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, k := range keys {
		delete(m.data, k)
		delete(m.ttls, k)
	}
	return nil
}

func (m *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
			delete(m.ttls, k)
		}
	}
	return nil
}

func (m *MemoryCache) Ping(context.Context) error { return m.Err }
func (m *MemoryCache) Close() error                { return nil }

// Has reports whether key is currently stored.
func (m *MemoryCache) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// TTL returns the expiry the key was last written with.
func (m *MemoryCache) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}

// Put stores raw bytes under key, bypassing JSON encoding.
func (m *MemoryCache) Put(key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
}
