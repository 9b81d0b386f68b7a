package cache

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

var _ Cache = (*PebbleCache)(nil)

// PebbleCache is the durable Cache backend. One database per user, keys
// stored verbatim.
type PebbleCache struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) a Pebble database at the given path.
func OpenPebble(path string) (*PebbleCache, error) {
	if path == "" {
		return nil, errors.New("cache: pebble path must not be empty")
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("cache: open pebble at %s: %w", path, err)
	}
	return &PebbleCache{db: db}, nil
}

func (c *PebbleCache) Load(key string) ([]byte, error) {
	value, closer, err := c.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("cache: load %q: %w", key, err)
	}
	out := make([]byte, len(value))
	copy(out, value)
	if err := closer.Close(); err != nil {
		return nil, fmt.Errorf("cache: load %q: %w", key, err)
	}
	return out, nil
}

func (c *PebbleCache) Save(key string, value []byte) error {
	if err := c.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("cache: save %q: %w", key, err)
	}
	return nil
}

func (c *PebbleCache) Clear(key string) error {
	if err := c.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("cache: clear %q: %w", key, err)
	}
	return nil
}

func (c *PebbleCache) Close() error {
	return c.db.Close()
}
