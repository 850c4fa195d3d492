package account

import (
	"github.com/carson-networks/finance-tracker/internal/ledger"
)

// Account is the API response model for an account.
type Account struct {
	ID              string `json:"id" doc:"Account ID"`
	Name            string `json:"name" doc:"Account name"`
	Group           string `json:"group" doc:"Account group: Cash, Bank Accounts, Credit Cards, Investments or Loans"`
	Balance         string `json:"balance" doc:"Current decimal balance"`
	Currency        string `json:"currency,omitempty" doc:"Currency code"`
	IncludeInTotals bool   `json:"includeInTotals" doc:"Whether the account counts towards household totals"`
	Owner           string `json:"owner,omitempty" doc:"husband, wife or empty when shared"`
}

func fromLedger(acc ledger.Account) Account {
	return Account{
		ID:              acc.ID,
		Name:            acc.Name,
		Group:           string(acc.Group),
		Balance:         acc.Balance.StringFixed(2),
		Currency:        acc.Currency,
		IncludeInTotals: acc.IncludeInTotals,
		Owner:           string(acc.Owner),
	}
}
