// Package cache is the app's local persistence: flat keys,
// read-most-recent-write, no versioning, no expiry.
package cache

import "errors"

// ErrNotFound is returned by Load when a key has no value. Callers treat
// it the same as a first run.
var ErrNotFound = errors.New("cache: not found")

// Well-known keys.
const (
	KeyChatHistory  = "chatHistory"
	KeyProperties   = "properties"
	KeyPropertyByID = "propertywithid"
	KeyFavorites    = "favorites"
)

// Cache is the key/value persistence contract. Implementations must make
// Save durable before returning (best effort for the in-memory variant).
type Cache interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
	Clear(key string) error
	Close() error
}
