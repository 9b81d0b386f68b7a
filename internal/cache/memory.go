package cache

import (
	gocache "github.com/patrickmn/go-cache"
)

var _ Cache = (*MemoryCache)(nil)

// MemoryCache is an in-process Cache backend. Values never expire; the
// cache lives as long as the process. Used by tests and as a fallback
// when the durable store cannot be opened.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *MemoryCache {
	return &MemoryCache{c: gocache.New(gocache.NoExpiration, 0)}
}

func (m *MemoryCache) Load(key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return v.([]byte), nil
}

func (m *MemoryCache) Save(key string, value []byte) error {
	out := make([]byte, len(value))
	copy(out, value)
	m.c.Set(key, out, gocache.NoExpiration)
	return nil
}

func (m *MemoryCache) Clear(key string) error {
	m.c.Delete(key)
	return nil
}

func (m *MemoryCache) Close() error { return nil }
