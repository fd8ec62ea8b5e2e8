package cache

import (
	"context"
	"sync"
	"time"

	"demandcast/internal/domain/models"
)

type entry struct {
	v   *models.ForecastResponse
	exp time.Time
}

// TTLCache is the in-process forecast cache. Expiry is lazy: stale entries
// are evicted on the read that finds them, never by a background sweeper.
type TTLCache struct {
	mu sync.RWMutex
	m  map[string]entry
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]entry)}
}

func (c *TTLCache) Get(_ context.Context, key string) (*models.ForecastResponse, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.v, true
}

// Set overwrites unconditionally, resetting the entry's expiry.
func (c *TTLCache) Set(_ context.Context, key string, v *models.ForecastResponse, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = entry{v: v, exp: exp}
	c.mu.Unlock()
}
