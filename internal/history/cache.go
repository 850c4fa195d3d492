package history

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/carson-networks/finance-tracker/internal/period"
)

// CacheKey identifies one reconstruction. Version is the storage write counter, so any
// committed change to accounts or transactions produces a new key.
type CacheKey struct {
	Scope   string
	Start   string
	End     string
	Today   string
	Version uint64
}

func NewCacheKey(scope Scope, r period.Range, today time.Time, version uint64) CacheKey {
	return CacheKey{
		Scope:   scope.String(),
		Start:   r.Start.Format(time.DateOnly),
		End:     r.End.Format(time.DateOnly),
		Today:   today.Format(time.DateOnly),
		Version: version,
	}
}

// Cache memoizes reconstructed series. The underlying LRU is safe for concurrent use.
type Cache struct {
	series *lru.Cache[CacheKey, Series]
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("history cache size must be positive, got %d", size)
	}
	c, err := lru.New[CacheKey, Series](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create history cache: %w", err)
	}
	return &Cache{series: c}, nil
}

// GetOrCompute returns the cached series for key or computes and stores it. Errors are not cached.
// The returned bool reports a cache hit.
func (c *Cache) GetOrCompute(key CacheKey, compute func() (Series, error)) (Series, bool, error) {
	if s, ok := c.series.Get(key); ok {
		return s, true, nil
	}
	s, err := compute()
	if err != nil {
		return Series{}, false, err
	}
	c.series.Add(key, s)
	return s, false, nil
}

func (c *Cache) Len() int {
	return c.series.Len()
}

func (c *Cache) Purge() {
	c.series.Purge()
}
