package transaction

import (
	"github.com/carson-networks/finance-tracker/internal/ledger"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string `json:"id" doc:"Transaction ID"`
	Date        string `json:"date" doc:"ISO-8601 date or date-time as recorded"`
	Type        string `json:"type" doc:"INCOME, EXPENSE or TRANSFER"`
	Amount      string `json:"amount" doc:"Decimal amount"`
	AccountID   string `json:"accountID" doc:"Source account ID"`
	ToAccountID string `json:"toAccountID,omitempty" doc:"Destination account ID for transfers"`
	Category    string `json:"category,omitempty" doc:"Category name"`
	Notes       string `json:"notes,omitempty" doc:"Free-form notes"`
	Fee         string `json:"fee,omitempty" doc:"Transfer fee"`
}

func fromLedger(tx ledger.Transaction) Transaction {
	out := Transaction{
		ID:          tx.ID,
		Date:        tx.Date,
		Type:        string(tx.Type),
		Amount:      tx.Amount.String(),
		AccountID:   tx.AccountID,
		ToAccountID: tx.ToAccountID,
		Category:    tx.Category,
		Notes:       tx.Notes,
	}
	if tx.Type == ledger.Transfer && !tx.Fee.IsZero() {
		out.Fee = tx.Fee.String()
	}
	return out
}
