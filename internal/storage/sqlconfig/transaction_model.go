package sqlconfig

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/ledger"
)

const transactionsTableName = "transactions"

// seq and created_at are filled in by the database.
var transactionColumns = []string{"id", "date", "type", "amount", "account_id", "to_account_id", "category", "notes", "fee"}

// transactionRow represents a transactions record. Date is stored as written so malformed
// values can be reported instead of rejected by the driver.
type transactionRow struct {
	ID          string          `db:"id"`
	Date        string          `db:"date"`
	Type        string          `db:"type"`
	Amount      decimal.Decimal `db:"amount"`
	AccountID   string          `db:"account_id"`
	ToAccountID string          `db:"to_account_id"`
	Category    string          `db:"category"`
	Notes       string          `db:"notes"`
	Fee         decimal.Decimal `db:"fee"`
}

func transactionToRow(tx ledger.Transaction) transactionRow {
	return transactionRow{
		ID:          tx.ID,
		Date:        tx.Date,
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		AccountID:   tx.AccountID,
		ToAccountID: tx.ToAccountID,
		Category:    tx.Category,
		Notes:       tx.Notes,
		Fee:         tx.Fee,
	}
}

func rowToTransaction(row transactionRow) ledger.Transaction {
	return ledger.Transaction{
		ID:          row.ID,
		Date:        row.Date,
		Type:        ledger.TransactionType(row.Type),
		Amount:      row.Amount,
		AccountID:   row.AccountID,
		ToAccountID: row.ToAccountID,
		Category:    row.Category,
		Notes:       row.Notes,
		Fee:         row.Fee,
	}
}
