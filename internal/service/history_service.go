package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/history"
	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/period"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

// HistoryQuery selects the scope and period of a reconstruction.
type HistoryQuery struct {
	Scope  history.Scope
	Period period.Kind
	Custom *period.Range
}

// HistoryService serves reconstructed balance histories, memoized per storage version.
type HistoryService struct {
	storage *storage.Storage
	cache   *history.Cache
	loc     *time.Location
	now     func() time.Time
	logger  logrus.FieldLogger
}

func NewHistoryService(store *storage.Storage, cache *history.Cache, loc *time.Location, now func() time.Time, logger logrus.FieldLogger) *HistoryService {
	return &HistoryService{storage: store, cache: cache, loc: loc, now: now, logger: logger}
}

// Series reconstructs the daily totals for the query.
func (s *HistoryService) Series(ctx context.Context, query HistoryQuery) (history.Series, error) {
	snap, err := s.storage.Load(ctx)
	if err != nil {
		return history.Series{}, err
	}
	now := s.now()

	kind := query.Period
	if kind == "" {
		kind = period.KindMonth
	}
	r, err := period.Resolve(kind, now, s.loc, query.Custom, period.Earliest(snap.Transactions, s.loc))
	if err != nil {
		return history.Series{}, &ledger.ValidationError{Field: "period", Reason: err.Error()}
	}

	key := history.NewCacheKey(query.Scope, r, ledger.Day(now, s.loc), snap.Version)
	series, hit, err := s.cache.GetOrCompute(key, func() (history.Series, error) {
		return history.Reconstruct(query.Scope, snap.Accounts, snap.Transactions, r, now, s.loc)
	})
	if errors.Is(err, period.ErrInvalidRange) {
		return history.Series{}, &ledger.ValidationError{Field: "range", Reason: err.Error()}
	}
	if err != nil {
		return history.Series{}, err
	}

	entry := s.logger.WithFields(logrus.Fields{
		"scope":  query.Scope.String(),
		"range":  r.String(),
		"points": len(series.Points),
		"hit":    hit,
	})
	if len(series.Issues) > 0 {
		entry.WithField("issues", len(series.Issues)).Warn("HistoryService.Series.RecordsExcluded")
	} else {
		entry.Debug("HistoryService.Series.Served")
	}
	return series, nil
}
