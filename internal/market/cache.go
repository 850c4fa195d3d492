package market

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Quote is a price and the time it was obtained. A zero FetchedAt marks the configured fallback.
type Quote struct {
	PricePerGram decimal.Decimal
	FetchedAt    time.Time
	Stale        bool
}

// PriceCache keeps the last known gold price. A failed refresh leaves the previous value in place.
type PriceCache struct {
	fetcher GoldPriceFetcher
	logger  logrus.FieldLogger
	now     func() time.Time

	mu        sync.RWMutex
	quote     Quote
	lastError error
}

func NewPriceCache(fetcher GoldPriceFetcher, fallback decimal.Decimal, logger logrus.FieldLogger) *PriceCache {
	return &PriceCache{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
		quote:   Quote{PricePerGram: fallback, Stale: true},
	}
}

// Refresh fetches a new price. On failure the error is logged and returned, and Current keeps
// reporting the previous value.
func (c *PriceCache) Refresh(ctx context.Context) error {
	price, err := c.fetcher.FetchGoldPricePerGram(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastError = err
		c.quote.Stale = true
		c.logger.WithError(err).WithField("price", c.quote.PricePerGram.String()).Warn("PriceCache.Refresh.KeepingLastKnown")
		return err
	}
	c.lastError = nil
	c.quote = Quote{PricePerGram: price, FetchedAt: c.now()}
	c.logger.WithField("price", price.String()).Debug("PriceCache.Refresh.Updated")
	return nil
}

// Current returns the last known quote. ok is false when no price has ever been known.
func (c *PriceCache) Current() (Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.quote, c.quote.PricePerGram.IsPositive()
}

// CurrentOrRefresh refreshes first when no price is known yet.
func (c *PriceCache) CurrentOrRefresh(ctx context.Context) (Quote, bool) {
	if q, ok := c.Current(); ok {
		return q, true
	}
	_ = c.Refresh(ctx)
	return c.Current()
}

func (c *PriceCache) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}
