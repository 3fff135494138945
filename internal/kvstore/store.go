// Package kvstore holds the expiring key-value stores used for session tokens.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("key not found")

// Store is a string key-value store with per-key expiry.
type Store interface {
	// Get returns ErrNotFound for absent or expired keys.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Del removes key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error
	// Alive reports whether the backend is reachable.
	Alive(ctx context.Context) bool
	Close() error
}
