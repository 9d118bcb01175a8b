package ratelimit

import (
	"context"
	"time"
)

// MetadataKey is the key used to attach a Limit to operation metadata.
const MetadataKey = "rateLimit"

// Limit defines how many requests a client may make within a window.
type Limit struct {
	Max    int64
	Window time.Duration
}

// Store defines the interface for rate limit data storage.
type Store interface {
	// Record records a request and returns the count of requests in the
	// current window. Expired entries are pruned automatically.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// Limiter checks requests against a Limit using a sliding window.
type Limiter struct {
	store Store
}

// NewLimiter creates a rate limiter backed by the given store.
func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow records a request for key and reports whether it stays within limit.
func (l *Limiter) Allow(ctx context.Context, key string, limit Limit) (bool, error) {
	count, err := l.store.Record(ctx, key, limit.Window)
	if err != nil {
		return false, err
	}

	return count <= limit.Max, nil
}
