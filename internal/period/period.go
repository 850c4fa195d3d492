// Package period resolves reporting periods into day ranges and buckets dates.
package period

import (
	"errors"
	"fmt"
	"time"

	"github.com/carson-networks/finance-tracker/internal/ledger"
)

// Kind names a reporting period.
type Kind string

const (
	KindDay      Kind = "day"
	KindWeek     Kind = "week"
	KindMonth    Kind = "month"
	KindYear     Kind = "year"
	KindLifetime Kind = "lifetime"
	KindCustom   Kind = "custom"
)

// Bucket is the granularity used to group dates.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
	BucketYear  Bucket = "year"
)

var ErrInvalidRange = errors.New("range end is before start")

// Range is an inclusive span of calendar days. Start and End are midnights.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange truncates both bounds to days in loc and validates ordering.
func NewRange(start, end time.Time, loc *time.Location) (Range, error) {
	r := Range{Start: ledger.Day(start, loc), End: ledger.Day(end, loc)}
	if r.End.Before(r.Start) {
		return Range{}, ErrInvalidRange
	}
	return r, nil
}

// Days is the inclusive number of calendar days in r.
func (r Range) Days() int {
	return DaysBetween(r.Start, r.End) + 1
}

// Contains reports whether t falls on a day inside r.
func (r Range) Contains(t time.Time) bool {
	d := ledger.Day(t, r.Start.Location())
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r Range) String() string {
	return r.Start.Format(time.DateOnly) + ".." + r.End.Format(time.DateOnly)
}

// DaysBetween counts calendar days from a to b. Counted on UTC dates, so DST shifts in the
// source location do not change the result.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// Resolve turns a period kind into a range ending today. custom is used only for KindCustom and
// is read by calendar date, whatever location it carries; earliest is the first known
// transaction date and only matters for KindLifetime.
func Resolve(kind Kind, now time.Time, loc *time.Location, custom *Range, earliest *time.Time) (Range, error) {
	today := ledger.Day(now, loc)
	switch kind {
	case KindDay:
		return Range{Start: today, End: today}, nil
	case KindWeek:
		return Range{Start: BucketStart(today, BucketWeek), End: today}, nil
	case KindMonth:
		return Range{Start: BucketStart(today, BucketMonth), End: today}, nil
	case KindYear:
		return Range{Start: BucketStart(today, BucketYear), End: today}, nil
	case KindLifetime:
		start := today
		if earliest != nil && !earliest.IsZero() {
			if e := ledger.Day(*earliest, loc); e.Before(today) {
				start = e
			}
		}
		return Range{Start: start, End: today}, nil
	case KindCustom:
		if custom == nil {
			return Range{}, fmt.Errorf("custom period requires start and end")
		}
		return NewRange(calendarDay(custom.Start, loc), calendarDay(custom.End, loc), loc)
	}
	return Range{}, fmt.Errorf("unknown period %q", kind)
}

func calendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDates reads a custom range from two YYYY-MM-DD strings.
func ParseDates(start, end string) (*Range, error) {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q", start)
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q", end)
	}
	r, err := NewRange(s, e, time.UTC)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// LastDays is the range of n days back from today plus today itself.
func LastDays(n int, now time.Time, loc *time.Location) Range {
	today := ledger.Day(now, loc)
	return Range{Start: today.AddDate(0, 0, -n), End: today}
}

// BucketStart returns the first day of the bucket containing day. Weeks start on Monday.
func BucketStart(day time.Time, bucket Bucket) time.Time {
	y, m, d := day.Date()
	loc := day.Location()
	switch bucket {
	case BucketWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case BucketMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case BucketYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseBucket validates a bucket name, defaulting to day.
func ParseBucket(s string) (Bucket, error) {
	switch Bucket(s) {
	case "", BucketDay:
		return BucketDay, nil
	case BucketWeek, BucketMonth, BucketYear:
		return Bucket(s), nil
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

// ParseKind validates a period kind, defaulting to month.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "":
		return KindMonth, nil
	case KindDay, KindWeek, KindMonth, KindYear, KindLifetime, KindCustom:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Filter keeps the transactions dated inside r. Records with malformed dates are returned
// separately so callers can surface them.
func Filter(txs []ledger.Transaction, r Range, loc *time.Location) ([]ledger.Transaction, []error) {
	var (
		kept   []ledger.Transaction
		issues []error
	)
	for _, tx := range txs {
		d, err := tx.ParsedDate(loc)
		if err != nil {
			issues = append(issues, err)
			continue
		}
		if r.Contains(d) {
			kept = append(kept, tx)
		}
	}
	return kept, issues
}

// Earliest returns the earliest parseable transaction date, or nil.
func Earliest(txs []ledger.Transaction, loc *time.Location) *time.Time {
	var earliest *time.Time
	for _, tx := range txs {
		d, err := tx.ParsedDate(loc)
		if err != nil {
			continue
		}
		if earliest == nil || d.Before(*earliest) {
			d := d
			earliest = &d
		}
	}
	return earliest
}
