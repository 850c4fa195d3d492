// Package history rebuilds day-by-day asset totals from current balances and the transaction log.
package history

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/period"
)

// MaxDays bounds the number of points a single reconstruction produces.
const MaxDays = 3650

// Point is the total at the end of one calendar day.
type Point struct {
	Date  time.Time
	Value decimal.Decimal
}

// Series is a reconstructed history. Points holds exactly one entry per day of Range, oldest first.
type Series struct {
	Scope        Scope
	Range        period.Range
	CurrentTotal decimal.Decimal
	Points       []Point
	// Clamped is set when the requested range was longer than MaxDays.
	Clamped bool
	// Issues lists records that were excluded from the walk.
	Issues []error
}

// At returns the point for day, if it falls inside the series.
func (s Series) At(day time.Time) (Point, bool) {
	if len(s.Points) == 0 || day.Before(s.Range.Start) || day.After(s.Range.End) {
		return Point{}, false
	}
	return s.Points[period.DaysBetween(s.Range.Start, day)], true
}

var errNegative = errors.New("must not be negative")

type replayEntry struct {
	at    time.Time
	day   time.Time
	seq   int
	delta map[string]decimal.Decimal
}

// Reconstruct walks the transaction log backward from the current balances of the accounts in
// scope and reports the total at the end of every day in r.
//
// Transactions are ordered by timestamp, most recent first; equal timestamps are ordered by
// position in txs, later entries being treated as more recent. Transactions dated after today
// are treated as dated today since their effect is already part of the current balance.
func Reconstruct(scope Scope, accounts []ledger.Account, txs []ledger.Transaction, r period.Range, now time.Time, loc *time.Location) (Series, error) {
	if loc == nil {
		loc = time.UTC
	}
	r, err := period.NewRange(r.Start, r.End, loc)
	if err != nil {
		return Series{}, err
	}

	series := Series{Scope: scope}
	if r.Days() > MaxDays {
		r.Start = r.End.AddDate(0, 0, -(MaxDays - 1))
		series.Clamped = true
	}
	series.Range = r

	balances := scope.Members(accounts)
	known := ledger.IndexAccounts(accounts)
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b)
	}
	series.CurrentTotal = total

	today := ledger.Day(now, loc)
	entries := make([]replayEntry, 0, len(txs))
	for i, tx := range txs {
		entry, ok, issues := prepare(tx, i, balances, known, today, loc)
		series.Issues = append(series.Issues, issues...)
		if ok {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].at.Equal(entries[j].at) {
			return entries[i].at.After(entries[j].at)
		}
		return entries[i].seq > entries[j].seq
	})

	series.Points = make([]Point, r.Days())
	for d := r.End; d.After(today) && !d.Before(r.Start); d = d.AddDate(0, 0, -1) {
		series.Points[period.DaysBetween(r.Start, d)] = Point{Date: d, Value: series.CurrentTotal}
	}

	top := r.End
	if top.After(today) {
		top = today
	}
	next := 0
	for d := top; !d.Before(r.Start); d = d.AddDate(0, 0, -1) {
		for next < len(entries) && entries[next].day.After(d) {
			for id, delta := range entries[next].delta {
				balances[id] = balances[id].Sub(delta)
				total = total.Sub(delta)
			}
			next++
		}
		series.Points[period.DaysBetween(r.Start, d)] = Point{Date: d, Value: total}
	}
	return series, nil
}

// prepare computes the forward effect of tx on the accounts in scope. ok is false when the
// record is malformed or touches nothing in scope.
func prepare(tx ledger.Transaction, seq int, scope map[string]decimal.Decimal, known map[string]ledger.Account, today time.Time, loc *time.Location) (replayEntry, bool, []error) {
	var issues []error
	at, err := tx.ParsedDate(loc)
	if err != nil {
		return replayEntry{}, false, append(issues, err)
	}
	if tx.Amount.IsNegative() {
		return replayEntry{}, false, append(issues, &ledger.ParseError{RecordID: tx.ID, Field: "amount", Value: tx.Amount.String(), Err: errNegative})
	}
	if tx.Type == ledger.Transfer && tx.Fee.IsNegative() {
		return replayEntry{}, false, append(issues, &ledger.ParseError{RecordID: tx.ID, Field: "fee", Value: tx.Fee.String(), Err: errNegative})
	}

	legs := []string{tx.AccountID}
	if tx.Type == ledger.Transfer && tx.ToAccountID != tx.AccountID {
		legs = append(legs, tx.ToAccountID)
	}
	delta := make(map[string]decimal.Decimal, len(legs))
	for _, id := range legs {
		if _, ok := known[id]; !ok {
			issues = append(issues, &ledger.MissingAccountError{TransactionID: tx.ID, AccountID: id})
			continue
		}
		if _, ok := scope[id]; !ok {
			continue
		}
		delta[id] = tx.Effect(id)
	}
	if len(delta) == 0 {
		return replayEntry{}, false, issues
	}

	day := ledger.Day(at, loc)
	if day.After(today) {
		day = today
	}
	return replayEntry{at: at, day: day, seq: seq, delta: delta}, true, issues
}
