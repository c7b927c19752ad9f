package iotesting

import (
	"context"
	"sync"

	"github.com/gnames/gnfmt"
)

// MemoryCache is an in-process cache.Cache without expiration.
type MemoryCache struct {
	// SetErr, if set, is returned by Set and nothing is stored.
	SetErr error

	mu     sync.Mutex
	data   map[string][]byte
	hits   int
	misses int
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string][]byte)}
}

func (c *MemoryCache) Get(_ context.Context, key string, v any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	if !ok {
		c.misses++
		return false, nil
	}
	c.hits++
	return true, gnfmt.GNjson{}.Decode(data, v)
}

func (c *MemoryCache) Set(_ context.Context, key string, v any) error {
	if c.SetErr != nil {
		return c.SetErr
	}
	data, err := gnfmt.GNjson{}.Encode(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *MemoryCache) Close() error { return nil }

// Has reports if a key is cached.
func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// Hits returns the number of successful reads.
func (c *MemoryCache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
