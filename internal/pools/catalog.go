package pools

import (
	"context"
	"fmt"
	"sync"
)

// Pool is a named liquidity source a position borrows from. Pool choice
// is recorded on the position for bookkeeping; it does not currently
// alter the computed interest rate.
type Pool struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Currency    string  `json:"currency"`
	BaseRateAdj float64 `json:"base_rate_adj"`
	Active      bool    `json:"active"`
}

// Catalog resolves pool identifiers for the lending engine. Registry
// synchronization lives outside this module; implementations only need
// lookup.
type Catalog interface {
	Resolve(ctx context.Context, poolID string) (*Pool, error)
	List(ctx context.Context) ([]Pool, error)
}

// DefaultPoolID is used when a borrow request names no pool.
const DefaultPoolID = "senior-usd"

// StaticCatalog is an in-memory catalog seeded at startup
type StaticCatalog struct {
	mu    sync.RWMutex
	pools map[string]Pool
}

// NewStaticCatalog creates a catalog with the platform's standing pools
func NewStaticCatalog() *StaticCatalog {
	c := &StaticCatalog{pools: make(map[string]Pool)}
	for _, p := range []Pool{
		{ID: "senior-usd", Name: "Senior USD Pool", Currency: "USD", Active: true},
		{ID: "mezzanine-usd", Name: "Mezzanine USD Pool", Currency: "USD", Active: true},
		{ID: "trade-finance-usd", Name: "Trade Finance Pool", Currency: "USD", Active: true},
	} {
		c.pools[p.ID] = p
	}
	return c
}

// Resolve returns the pool for an identifier, defaulting when empty.
func (c *StaticCatalog) Resolve(ctx context.Context, poolID string) (*Pool, error) {
	if poolID == "" {
		poolID = DefaultPoolID
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	pool, ok := c.pools[poolID]
	if !ok {
		return nil, fmt.Errorf("unknown pool %q", poolID)
	}
	if !pool.Active {
		return nil, fmt.Errorf("pool %q is not accepting new positions", poolID)
	}
	return &pool, nil
}

// List returns all pools in the catalog
func (c *StaticCatalog) List(ctx context.Context) ([]Pool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Pool, 0, len(c.pools))
	for _, p := range c.pools {
		out = append(out, p)
	}
	return out, nil
}

// Upsert adds or replaces a pool, for catalog refresh flows
func (c *StaticCatalog) Upsert(pool Pool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pools[pool.ID] = pool
}
