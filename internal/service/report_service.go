package service

import (
	"context"
	"time"

	"github.com/carson-networks/finance-tracker/internal/analytics"
	"github.com/carson-networks/finance-tracker/internal/history"
	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/period"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

// ReportService computes income/expense summaries and asset growth.
type ReportService struct {
	storage *storage.Storage
	history *HistoryService
	loc     *time.Location
	now     func() time.Time
}

func NewReportService(store *storage.Storage, historySvc *HistoryService, loc *time.Location, now func() time.Time) *ReportService {
	return &ReportService{storage: store, history: historySvc, loc: loc, now: now}
}

// Report is a summary together with its bucketed totals.
type Report struct {
	Summary analytics.Summary
	Buckets []analytics.BucketTotal
}

// Summary totals income and expense over the period, grouped into buckets.
func (s *ReportService) Summary(ctx context.Context, kind period.Kind, custom *period.Range, bucket period.Bucket) (Report, error) {
	snap, err := s.storage.Load(ctx)
	if err != nil {
		return Report{}, err
	}
	r, err := period.Resolve(kind, s.now(), s.loc, custom, period.Earliest(snap.Transactions, s.loc))
	if err != nil {
		return Report{}, &ledger.ValidationError{Field: "period", Reason: err.Error()}
	}
	return Report{
		Summary: analytics.Summarize(snap.Transactions, r, s.loc),
		Buckets: analytics.Buckets(snap.Transactions, r, bucket, s.loc),
	}, nil
}

// Growth measures how the scope's total moved over the period. ok is false for an empty series.
func (s *ReportService) Growth(ctx context.Context, query HistoryQuery) (analytics.Growth, history.Series, bool, error) {
	series, err := s.history.Series(ctx, query)
	if err != nil {
		return analytics.Growth{}, history.Series{}, false, err
	}
	g, ok := analytics.GrowthOf(series)
	return g, series, ok, nil
}
