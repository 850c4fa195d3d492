package sqlconfig

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/ledger"
)

const accountsTableName = "accounts"

var accountColumns = []string{"id", "name", "type", "balance", "currency", "include_in_totals", "owner"}

// accountRow represents an accounts record.
type accountRow struct {
	ID              string          `db:"id"`
	Name            string          `db:"name"`
	Type            int16           `db:"type"`
	Balance         decimal.Decimal `db:"balance"`
	Currency        string          `db:"currency"`
	IncludeInTotals bool            `db:"include_in_totals"`
	Owner           string          `db:"owner"`
}

func accountToRow(a ledger.Account) (accountRow, error) {
	t, err := AccountTypeOf(a.Group)
	if err != nil {
		return accountRow{}, err
	}
	return accountRow{
		ID:              a.ID,
		Name:            a.Name,
		Type:            int16(t),
		Balance:         a.Balance,
		Currency:        a.Currency,
		IncludeInTotals: a.IncludeInTotals,
		Owner:           string(a.Owner),
	}, nil
}

func rowToAccount(row accountRow) (ledger.Account, error) {
	group, err := AccountType(row.Type).Group()
	if err != nil {
		return ledger.Account{}, err
	}
	return ledger.Account{
		ID:              row.ID,
		Name:            row.Name,
		Group:           group,
		Balance:         row.Balance,
		Currency:        row.Currency,
		IncludeInTotals: row.IncludeInTotals,
		Owner:           ledger.Owner(row.Owner),
	}, nil
}

func columns(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}
