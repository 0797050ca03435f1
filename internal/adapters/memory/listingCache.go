// Package memory holds process-local adapters used when no redis is
// configured.
package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// ListingCache is an in-process ListingCache. Entries expire passively:
// a read past expiresAt is a miss and drops the entry. Put also sweeps
// every expired entry at most once per TTL, so keys that are never read
// again do not pile up.
type ListingCache struct {
	entries sync.Map // page -> *entry
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	lastSweep time.Time
}

func NewListingCache(ttl time.Duration) *ListingCache {
	return &ListingCache{ttl: ttl, now: time.Now}
}

// WithClock replaces the time source; tests use it to step past the TTL.
func (c *ListingCache) WithClock(now func() time.Time) *ListingCache {
	c.now = now
	return c
}

func (c *ListingCache) Get(_ context.Context, page string) ([]byte, bool, error) {
	v, ok := c.entries.Load(page)
	if !ok {
		return nil, false, nil
	}
	e := v.(*entry)
	if !c.now().Before(e.expiresAt) {
		c.entries.CompareAndDelete(page, v)
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (c *ListingCache) Put(_ context.Context, page string, payload []byte) error {
	now := c.now()
	c.sweep(now)
	c.entries.Store(page, &entry{payload: payload, expiresAt: now.Add(c.ttl)})
	return nil
}

func (c *ListingCache) sweep(now time.Time) {
	c.mu.Lock()
	if now.Sub(c.lastSweep) < c.ttl {
		c.mu.Unlock()
		return
	}
	c.lastSweep = now
	c.mu.Unlock()

	c.entries.Range(func(k, v any) bool {
		if !now.Before(v.(*entry).expiresAt) {
			c.entries.CompareAndDelete(k, v)
		}
		return true
	})
}

func (c *ListingCache) Invalidate(_ context.Context) error {
	c.entries.Range(func(k, _ any) bool {
		c.entries.Delete(k)
		return true
	})
	return nil
}
