package ledger

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed date or amount on a record.
type ParseError struct {
	RecordID string
	Field    string
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("record %s: parse %s %q: %v", e.RecordID, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingAccountError reports a transaction that references an unknown account.
type MissingAccountError struct {
	TransactionID string
	AccountID     string
}

func (e *MissingAccountError) Error() string {
	return fmt.Sprintf("transaction %s references unknown account %s", e.TransactionID, e.AccountID)
}

// ValidationError blocks a user action, e.g. a zakat payment without a funding account.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var errNegativeAmount = errors.New("amount must not be negative")

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
