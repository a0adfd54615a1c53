package entitlement

import (
	"context"
	"log"
	"time"
)

// DefaultTTL is how long a resolution stays live in the cache.
const DefaultTTL = 5 * time.Minute

// Cache resolves entitlements through a fixed provider chain, memoizing
// results per user. Concurrent misses for the same user may each query the
// providers; the last writer to the store wins.
type Cache struct {
	providers []Provider
	store     Store
	ttl       time.Duration
	logger    *log.Logger
}

// NewCache builds a cache over the given providers, queried in slice order.
func NewCache(providers []Provider, store Store, ttl time.Duration, logger *log.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[ENTITLE] ", log.LstdFlags)
	}
	return &Cache{providers: providers, store: store, ttl: ttl, logger: logger}
}

// Resolve returns the user's entitlement. An empty user id resolves to
// inactive/none immediately, touching neither the store nor the network.
// Provider failures are swallowed and count as "found nothing"; the first
// provider reporting an active membership determines plan and source.
// Successful or not, the resolution is cached before returning.
func (c *Cache) Resolve(ctx context.Context, userID string) Entitlement {
	if userID == "" {
		return Inactive()
	}

	if cached, ok, err := c.store.Get(ctx, userID); err != nil {
		c.logger.Printf("cache read failed for %s: %v", userID, err)
	} else if ok {
		return cached
	}

	resolved := Inactive()
	for _, p := range c.providers {
		m, err := p.Lookup(ctx, userID)
		if err != nil {
			c.logger.Printf("provider %s lookup failed for %s: %v", p.Source(), userID, err)
			continue
		}
		if m.Active {
			resolved = Entitlement{Active: true, Plan: m.Plan, Source: p.Source()}
			break
		}
	}

	if err := c.store.Set(ctx, userID, resolved, c.ttl); err != nil {
		c.logger.Printf("cache write failed for %s: %v", userID, err)
	}
	return resolved
}
