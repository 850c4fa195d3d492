package service

import (
	"context"
	"errors"

	"github.com/carson-networks/finance-tracker/internal/market"
	"github.com/carson-networks/finance-tracker/internal/zakat"
)

// MarketService exposes the cached gold price and the chart widget contract.
type MarketService struct {
	prices *market.PriceCache
	widget market.Widget
}

func NewMarketService(prices *market.PriceCache, widget market.Widget) *MarketService {
	if len(widget.Ranges) == 0 {
		widget = market.DefaultGoldWidget()
	}
	return &MarketService{prices: prices, widget: widget}
}

// GoldPrice returns the current or last known gold price per gram. When no price has ever been
// known the last fetch error is joined to zakat.ErrNoGoldPrice.
func (s *MarketService) GoldPrice(ctx context.Context) (market.Quote, error) {
	if s.prices == nil {
		return market.Quote{}, zakat.ErrNoGoldPrice
	}
	q, ok := s.prices.CurrentOrRefresh(ctx)
	if !ok {
		return market.Quote{}, errors.Join(zakat.ErrNoGoldPrice, s.prices.LastError())
	}
	return q, nil
}

// Refresh fetches a new gold price, keeping the last known one on failure.
func (s *MarketService) Refresh(ctx context.Context) error {
	if s.prices == nil {
		return zakat.ErrNoGoldPrice
	}
	return s.prices.Refresh(ctx)
}

func (s *MarketService) Widget() market.Widget {
	return s.widget
}
