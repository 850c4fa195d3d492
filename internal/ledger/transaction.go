package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense || t == Transfer
}

const (
	// CategoryAdjustment marks a balance correction. It counts in totals but not in breakdowns.
	CategoryAdjustment = "Adjustment"
	// CategoryZakat tags zakat payments.
	CategoryZakat = "Zakat Mal"
)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// Transaction represents a single ledger entry. Date keeps the stored ISO string so that
// malformed records can be surfaced rather than silently dropped at load time.
type Transaction struct {
	ID          string
	Date        string
	Type        TransactionType
	Amount      decimal.Decimal
	AccountID   string
	ToAccountID string
	Category    string
	Notes       string
	Fee         decimal.Decimal
}

// ParsedDate parses Date. Layouts without a zone are read in loc.
func (t Transaction) ParsedDate(loc *time.Location) (time.Time, error) {
	d, err := ParseDate(t.Date, loc)
	if err != nil {
		return time.Time{}, &ParseError{RecordID: t.ID, Field: "date", Value: t.Date, Err: err}
	}
	return d, nil
}

// IsAdjustment reports whether the transaction is a balance correction.
func (t Transaction) IsAdjustment() bool {
	return strings.EqualFold(strings.TrimSpace(t.Category), CategoryAdjustment)
}

// Touches reports whether either leg of the transaction references accountID.
func (t Transaction) Touches(accountID string) bool {
	if t.AccountID == accountID {
		return true
	}
	return t.Type == Transfer && t.ToAccountID == accountID
}

// Effect returns the forward change the transaction makes to accountID's balance.
// Undoing the transaction is the negation.
func (t Transaction) Effect(accountID string) decimal.Decimal {
	delta := decimal.Zero
	switch t.Type {
	case Income:
		if t.AccountID == accountID {
			delta = delta.Add(t.Amount)
		}
	case Expense:
		if t.AccountID == accountID {
			delta = delta.Sub(t.Amount)
		}
	case Transfer:
		if t.AccountID == accountID {
			delta = delta.Sub(t.Amount.Add(t.Fee))
		}
		if t.ToAccountID == accountID {
			delta = delta.Add(t.Amount)
		}
	}
	return delta
}

// Validate checks the record invariants. accounts is used for the TRANSFER destination check
// and may be nil to skip existence checks.
func (t Transaction) Validate(loc *time.Location, accounts map[string]Account) error {
	if strings.TrimSpace(t.ID) == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if _, err := t.ParsedDate(loc); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "must be INCOME, EXPENSE or TRANSFER"}
	}
	if t.Amount.IsNegative() {
		return &ParseError{RecordID: t.ID, Field: "amount", Value: t.Amount.String(), Err: errNegativeAmount}
	}
	if t.Fee.IsNegative() {
		return &ParseError{RecordID: t.ID, Field: "fee", Value: t.Fee.String(), Err: errNegativeAmount}
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return &ValidationError{Field: "accountID", Reason: "must not be empty"}
	}
	if accounts != nil {
		if _, ok := accounts[t.AccountID]; !ok {
			return &MissingAccountError{TransactionID: t.ID, AccountID: t.AccountID}
		}
	}
	if t.Type != Transfer {
		return nil
	}
	if t.ToAccountID == "" {
		return &ValidationError{Field: "toAccountID", Reason: "required for TRANSFER"}
	}
	if t.ToAccountID == t.AccountID {
		return &ValidationError{Field: "toAccountID", Reason: "must differ from accountID"}
	}
	if accounts != nil {
		if _, ok := accounts[t.ToAccountID]; !ok {
			return &MissingAccountError{TransactionID: t.ID, AccountID: t.ToAccountID}
		}
	}
	return nil
}

// Normalize clears fields that are meaningless for the transaction type.
func (t Transaction) Normalize() Transaction {
	if t.Type != Transfer {
		t.ToAccountID = ""
		t.Fee = decimal.Zero
	}
	t.Category = strings.TrimSpace(t.Category)
	return t
}

// ParseDate parses an ISO-8601 date or date-time.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	var lastErr error
	for _, layout := range dateLayouts {
		d, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseAmount parses a non-negative decimal amount.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ParseError{Field: field, Value: s, Err: err}
	}
	if d.IsNegative() {
		return decimal.Zero, &ParseError{Field: field, Value: s, Err: errNegativeAmount}
	}
	return d, nil
}

// Day truncates t to midnight of its calendar day in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
