// Package analytics aggregates transactions into totals and breakdowns for reporting.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/period"
)

// CategoryTransferFees collects transfer fees in expense breakdowns.
const CategoryTransferFees = "Transfer Fees"

const uncategorized = "Uncategorized"

var hundred = decimal.NewFromInt(100)

type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
	// Percent of total expense, two decimals.
	Percent decimal.Decimal
	Count   int
}

type Summary struct {
	Range     period.Range
	Income    decimal.Decimal
	Expense   decimal.Decimal
	Net       decimal.Decimal
	Breakdown []CategoryTotal
	Issues    []error
}

// Summarize totals income and expense over r. Adjustments count towards totals but are left out
// of the breakdown; transfers only contribute their fee.
func Summarize(txs []ledger.Transaction, r period.Range, loc *time.Location) Summary {
	inRange, issues := period.Filter(txs, r, loc)
	s := Summary{Range: r, Income: decimal.Zero, Expense: decimal.Zero, Issues: issues}

	byCategory := make(map[string]*CategoryTotal)
	add := func(category string, amount decimal.Decimal) {
		ct, ok := byCategory[category]
		if !ok {
			ct = &CategoryTotal{Category: category, Amount: decimal.Zero}
			byCategory[category] = ct
		}
		ct.Amount = ct.Amount.Add(amount)
		ct.Count++
	}

	for _, tx := range inRange {
		switch tx.Type {
		case ledger.Income:
			s.Income = s.Income.Add(tx.Amount)
		case ledger.Expense:
			s.Expense = s.Expense.Add(tx.Amount)
			if tx.IsAdjustment() {
				continue
			}
			category := tx.Category
			if category == "" {
				category = uncategorized
			}
			add(category, tx.Amount)
		case ledger.Transfer:
			if tx.Fee.IsPositive() {
				s.Expense = s.Expense.Add(tx.Fee)
				add(CategoryTransferFees, tx.Fee)
			}
		}
	}
	s.Net = s.Income.Sub(s.Expense)

	breakdownTotal := decimal.Zero
	for _, ct := range byCategory {
		breakdownTotal = breakdownTotal.Add(ct.Amount)
	}
	for _, ct := range byCategory {
		if breakdownTotal.IsPositive() {
			ct.Percent = ct.Amount.Div(breakdownTotal).Mul(hundred).Round(2)
		} else {
			ct.Percent = decimal.Zero
		}
		s.Breakdown = append(s.Breakdown, *ct)
	}
	sort.Slice(s.Breakdown, func(i, j int) bool {
		if !s.Breakdown[i].Amount.Equal(s.Breakdown[j].Amount) {
			return s.Breakdown[i].Amount.GreaterThan(s.Breakdown[j].Amount)
		}
		return s.Breakdown[i].Category < s.Breakdown[j].Category
	})
	return s
}

type BucketTotal struct {
	Start   time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Buckets groups income and expense by bucket. Every bucket overlapping r is returned, empty
// ones included, oldest first.
func Buckets(txs []ledger.Transaction, r period.Range, bucket period.Bucket, loc *time.Location) []BucketTotal {
	inRange, _ := period.Filter(txs, r, loc)

	var out []BucketTotal
	index := make(map[string]int)
	for b := period.BucketStart(r.Start, bucket); !b.After(r.End); b = nextBucket(b, bucket) {
		index[b.Format(time.DateOnly)] = len(out)
		out = append(out, BucketTotal{Start: b, Income: decimal.Zero, Expense: decimal.Zero})
	}

	for _, tx := range inRange {
		d, err := tx.ParsedDate(loc)
		if err != nil {
			continue
		}
		i, ok := index[period.BucketStart(ledger.Day(d, loc), bucket).Format(time.DateOnly)]
		if !ok {
			continue
		}
		switch tx.Type {
		case ledger.Income:
			out[i].Income = out[i].Income.Add(tx.Amount)
		case ledger.Expense:
			out[i].Expense = out[i].Expense.Add(tx.Amount)
		case ledger.Transfer:
			out[i].Expense = out[i].Expense.Add(tx.Fee)
		}
	}
	return out
}

func nextBucket(b time.Time, bucket period.Bucket) time.Time {
	switch bucket {
	case period.BucketWeek:
		return b.AddDate(0, 0, 7)
	case period.BucketMonth:
		return b.AddDate(0, 1, 0)
	case period.BucketYear:
		return b.AddDate(1, 0, 0)
	}
	return b.AddDate(0, 0, 1)
}
