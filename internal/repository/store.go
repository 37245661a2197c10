// Package repository provides the TTL-bound session store.
package repository

import (
	"context"
	"time"
)

// SessionStore is the key/value session store contract. Values are opaque
// JSON blobs; a missing or expired key reads as absent, which callers treat
// as "new session". The store does not need to be durable.
type SessionStore interface {
	// Get returns the value for key, or ok=false when the key is absent or
	// expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes the value with the given TTL, replacing any previous value
	// and refreshing the expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether the key is present and unexpired.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases store resources.
	Close() error
}
