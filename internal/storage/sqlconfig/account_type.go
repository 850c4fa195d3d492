package sqlconfig

import (
	"fmt"

	"github.com/carson-networks/finance-tracker/internal/ledger"
)

// AccountType is the SMALLINT stored in accounts.type.
type AccountType int16

const (
	AccountTypeCash AccountType = iota
	AccountTypeCreditCards
	AccountTypeInvestments
	AccountTypeLoans
	AccountTypeBankAccounts
)

var groupByType = map[AccountType]ledger.AccountGroup{
	AccountTypeCash:         ledger.GroupCash,
	AccountTypeCreditCards:  ledger.GroupCreditCards,
	AccountTypeInvestments:  ledger.GroupInvestments,
	AccountTypeLoans:        ledger.GroupLoans,
	AccountTypeBankAccounts: ledger.GroupBankAccounts,
}

func AccountTypeOf(group ledger.AccountGroup) (AccountType, error) {
	for t, g := range groupByType {
		if g == group {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown account group %q", group)
}

func (t AccountType) Group() (ledger.AccountGroup, error) {
	g, ok := groupByType[t]
	if !ok {
		return "", fmt.Errorf("unknown account type %d", t)
	}
	return g, nil
}
