package zakat

import (
	"fmt"
	"time"

	"github.com/carson-networks/finance-tracker/internal/ledger"
)

// NewPayment builds the EXPENSE transaction that settles an obligated assessment from the
// funding account. The account must belong to the assessed owner so the payment qualifies on
// the next evaluation.
func NewPayment(a Assessment, id string, funding *ledger.Account, now time.Time, loc *time.Location) (ledger.Transaction, error) {
	if funding == nil || funding.ID == "" {
		return ledger.Transaction{}, &ledger.ValidationError{Field: "accountID", Reason: "a funding account must be selected"}
	}
	if funding.Owner != a.Owner {
		return ledger.Transaction{}, &ledger.ValidationError{Field: "accountID", Reason: fmt.Sprintf("account %s is not owned by %s", funding.ID, a.Owner)}
	}
	if a.State != Obligated || !a.Due.IsPositive() {
		return ledger.Transaction{}, &ledger.ValidationError{Field: "state", Reason: fmt.Sprintf("no zakat is due while %s", a.State)}
	}
	if loc == nil {
		loc = time.UTC
	}

	return ledger.Transaction{
		ID:        id,
		Date:      now.In(loc).Format(time.RFC3339),
		Type:      ledger.Expense,
		Amount:    a.Due.Round(2),
		AccountID: funding.ID,
		Category:  ledger.CategoryZakat,
		Notes:     fmt.Sprintf("Zakat Mal %d (%s)", now.In(loc).Year(), a.Owner),
	}, nil
}
