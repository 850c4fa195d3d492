// Package zakat decides whether an owner owes Zakat Mal and builds the payment transaction.
package zakat

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/ledger"
)

type State string

const (
	NotObligated State = "NOT_OBLIGATED"
	Obligated    State = "OBLIGATED"
	Paid         State = "PAID"
)

const (
	NisabGrams = 85
	HaulDays   = 354
)

var (
	Rate = decimal.RequireFromString("0.025")

	ErrNoGoldPrice = errors.New("gold price is not available")
)

// PaymentRecord is the qualifying payment found inside the haul window.
type PaymentRecord struct {
	TransactionID string
	AccountID     string
	Amount        decimal.Decimal
	Date          time.Time
}

// Assessment is derived per query and never stored.
type Assessment struct {
	Owner            ledger.Owner
	State            State
	GoldPricePerGram decimal.Decimal
	Nisab            decimal.Decimal
	Wealth           decimal.Decimal
	// Due is 2.5% of Wealth when State is Obligated, zero otherwise.
	Due          decimal.Decimal
	HaulStart    time.Time
	Payment      *PaymentRecord
	NextHaulDate *time.Time
	Issues       []error
}

// Nisab is the wealth threshold for a gold price per gram.
func Nisab(goldPricePerGram decimal.Decimal) decimal.Decimal {
	return goldPricePerGram.Mul(decimal.NewFromInt(NisabGrams))
}

// Evaluate assesses owner against the current balances of their included accounts and the
// payments recorded in the last HaulDays days.
func Evaluate(owner ledger.Owner, accounts []ledger.Account, txs []ledger.Transaction, goldPricePerGram decimal.Decimal, now time.Time, loc *time.Location) (Assessment, error) {
	if owner == ledger.OwnerNone {
		return Assessment{}, &ledger.ValidationError{Field: "owner", Reason: "must be selected"}
	}
	if !goldPricePerGram.IsPositive() {
		return Assessment{}, ErrNoGoldPrice
	}
	if loc == nil {
		loc = time.UTC
	}

	today := ledger.Day(now, loc)
	a := Assessment{
		Owner:            owner,
		State:            NotObligated,
		GoldPricePerGram: goldPricePerGram,
		Nisab:            Nisab(goldPricePerGram),
		Wealth:           decimal.Zero,
		Due:              decimal.Zero,
		HaulStart:        today.AddDate(0, 0, -HaulDays),
	}

	owned := make(map[string]bool)
	for _, acc := range accounts {
		if acc.Owner != owner {
			continue
		}
		owned[acc.ID] = true
		if acc.IncludeInTotals {
			a.Wealth = a.Wealth.Add(acc.Balance)
		}
	}

	payment, issues := latestPayment(txs, owned, a.HaulStart, today, loc)
	a.Issues = issues
	if payment != nil {
		next := ledger.Day(payment.Date, loc).AddDate(0, 0, HaulDays)
		a.State = Paid
		a.Payment = payment
		a.NextHaulDate = &next
		return a, nil
	}

	if a.Wealth.GreaterThanOrEqual(a.Nisab) {
		a.State = Obligated
		a.Due = a.Wealth.Mul(Rate)
	}
	return a, nil
}

// IsZakatPayment reports whether tx is tagged as a Zakat Mal payment.
func IsZakatPayment(tx ledger.Transaction) bool {
	return tx.Type == ledger.Expense && strings.EqualFold(strings.TrimSpace(tx.Category), ledger.CategoryZakat)
}

// PaidWithinHaul returns the latest payment owner made in the HaulDays days ending at now,
// or nil when the haul window holds none.
func PaidWithinHaul(owner ledger.Owner, accounts []ledger.Account, txs []ledger.Transaction, now time.Time, loc *time.Location) *PaymentRecord {
	if loc == nil {
		loc = time.UTC
	}
	owned := make(map[string]bool)
	for _, acc := range accounts {
		if acc.Owner == owner {
			owned[acc.ID] = true
		}
	}
	today := ledger.Day(now, loc)
	payment, _ := latestPayment(txs, owned, today.AddDate(0, 0, -HaulDays), today, loc)
	return payment
}

func latestPayment(txs []ledger.Transaction, owned map[string]bool, haulStart, today time.Time, loc *time.Location) (*PaymentRecord, []error) {
	var (
		latest *PaymentRecord
		issues []error
	)
	for _, tx := range txs {
		if !IsZakatPayment(tx) || !owned[tx.AccountID] {
			continue
		}
		d, err := tx.ParsedDate(loc)
		if err != nil {
			issues = append(issues, err)
			continue
		}
		day := ledger.Day(d, loc)
		if day.Before(haulStart) || day.After(today) {
			continue
		}
		if latest == nil || !d.Before(latest.Date) {
			latest = &PaymentRecord{TransactionID: tx.ID, AccountID: tx.AccountID, Amount: tx.Amount, Date: d}
		}
	}
	return latest, issues
}
