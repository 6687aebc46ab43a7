package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/serroba/ttl-shortener/internal/shortener"
)

// MemoryStore is an in-process implementation of shortener.Store with per-key expiry.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates a memory store that sweeps expired keys every cleanupInterval.
// Expired keys are never returned, swept or not.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

// Get returns the value stored at key, or shortener.ErrNotFound when it is absent or expired.
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return "", shortener.ErrNotFound
	}

	s, _ := v.(string)

	return s, nil
}

// Exists reports whether key holds a live value.
func (m *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.cache.Get(key)

	return ok, nil
}

// Set stores value at key for ttl, replacing any existing value. A non-positive ttl never expires.
func (m *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.cache.Set(key, value, expiration(ttl))

	return nil
}

// SetNX stores value at key for ttl only if key holds no live value, and reports whether it did.
func (m *MemoryStore) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	// Add fails only when a live item exists.
	return m.cache.Add(key, value, expiration(ttl)) == nil, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return cache.NoExpiration
	}

	return ttl
}

var _ shortener.Store = (*MemoryStore)(nil)
