package memory

import (
	"context"
	"sync"

	"conferencecentral/internal/domain"
)

type cache struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewCache returns a process-local domain.Cache.
func NewCache() domain.Cache {
	return &cache{values: make(map[string]string)}
}

func (c *cache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *cache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}
