package shared

import (
	"context"
	"time"
)

// IdempotencyStore reserves occurrence keys so an occurrence is handled at
// most once even when two runs overlap (scheduled run racing a manual run,
// or two instances behind a load balancer).
type IdempotencyStore interface {
	// MarkProcessed reserves a key with a TTL.
	// Returns true if the key was newly reserved, false if it was already held.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops a reservation. Callers release a key when the work it
	// guarded failed, so the next run can retry without waiting out the TTL.
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is the time-to-live for reserved keys. After this duration the
	// same key can be reserved again.
	TTL time.Duration
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL: 48 * time.Hour,
	}
}
