// Package vault is the credential store: a key/value store with
// per-key expiry. It holds the bearer → cookie-jar mapping and the
// refresh-handle → identity mapping for the session bridge. Values are
// always replaced whole; there are no partial-field updates, so "most
// recent write wins" is the only ordering that matters.
package vault

import (
	"context"
	"time"
)

type Store interface {
	// Set replaces the value under key atomically, with the given ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns the value under key; ok is false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
