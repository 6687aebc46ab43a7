package shortener

import (
	"context"
	"time"
)

// Store is the key-value backend holding both mapping indexes.
// Operations are atomic per key only; there are no cross-key transactions.
type Store interface {
	// Get returns the live value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Set creates or overwrites key with an expiry of ttl from now.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX writes key only when it has no live value and reports whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}
