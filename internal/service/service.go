package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/history"
	"github.com/carson-networks/finance-tracker/internal/market"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/zakat"
)

// Processor runs write actions. Satisfied by *operator.OperatorDelegator.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Options carries the collaborators the services share.
type Options struct {
	Location         *time.Location
	HistoryCacheSize int
	Prices           *market.PriceCache
	Widget           market.Widget
	Reminders        zakat.Reminders
	Notifier         zakat.Notifier
	Logger           logrus.FieldLogger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service holds all business logic services.
type Service struct {
	Account     *AccountService
	Transaction *TransactionService
	History     *HistoryService
	Zakat       *ZakatService
	Report      *ReportService
	Market      *MarketService
}

// NewService creates a new Service with the given storage and write pipeline.
func NewService(store *storage.Storage, op Processor, opts Options) (*Service, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.HistoryCacheSize <= 0 {
		opts.HistoryCacheSize = 128
	}
	if opts.Reminders == nil {
		opts.Reminders = zakat.NewMemoryReminders()
	}

	cache, err := history.NewCache(opts.HistoryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create history cache: %w", err)
	}

	historySvc := NewHistoryService(store, cache, opts.Location, opts.Now, opts.Logger)
	marketSvc := NewMarketService(opts.Prices, opts.Widget)
	return &Service{
		Account:     NewAccountService(store, op),
		Transaction: NewTransactionService(store, op, opts.Location, opts.Now),
		History:     historySvc,
		Zakat:       NewZakatService(store, op, marketSvc, opts.Reminders, opts.Notifier, opts.Location, opts.Now, opts.Logger),
		Report:      NewReportService(store, historySvc, opts.Location, opts.Now),
		Market:      marketSvc,
	}, nil
}
