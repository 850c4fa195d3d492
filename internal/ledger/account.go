package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountGroup is the fixed account taxonomy.
type AccountGroup string

const (
	GroupCash         AccountGroup = "Cash"
	GroupBankAccounts AccountGroup = "Bank Accounts"
	GroupCreditCards  AccountGroup = "Credit Cards"
	GroupInvestments  AccountGroup = "Investments"
	GroupLoans        AccountGroup = "Loans"
)

// AccountGroups lists every valid group in display order.
var AccountGroups = []AccountGroup{
	GroupCash,
	GroupBankAccounts,
	GroupCreditCards,
	GroupInvestments,
	GroupLoans,
}

// Valid reports whether g is one of the fixed groups.
func (g AccountGroup) Valid() bool {
	for _, known := range AccountGroups {
		if g == known {
			return true
		}
	}
	return false
}

// Owner tags an account with a household member. The zero value means shared/untagged.
type Owner string

const (
	OwnerNone    Owner = ""
	OwnerHusband Owner = "husband"
	OwnerWife    Owner = "wife"
)

// Owners lists the household members that can own accounts.
var Owners = []Owner{OwnerHusband, OwnerWife}

// ParseOwner normalizes an owner string. Empty input yields OwnerNone.
func ParseOwner(s string) (Owner, error) {
	switch Owner(strings.ToLower(strings.TrimSpace(s))) {
	case OwnerNone:
		return OwnerNone, nil
	case OwnerHusband:
		return OwnerHusband, nil
	case OwnerWife:
		return OwnerWife, nil
	}
	return OwnerNone, &ValidationError{Field: "owner", Reason: "must be husband or wife"}
}

// Account represents a user account. Balance is always the current, authoritative value.
type Account struct {
	ID              string
	Name            string
	Group           AccountGroup
	Balance         decimal.Decimal
	Currency        string
	IncludeInTotals bool
	Owner           Owner
}

// Validate checks the account attributes a form would enforce.
func (a Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(a.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !a.Group.Valid() {
		return &ValidationError{Field: "group", Reason: "unknown account group " + string(a.Group)}
	}
	if a.Owner != OwnerNone && a.Owner != OwnerHusband && a.Owner != OwnerWife {
		return &ValidationError{Field: "owner", Reason: "must be husband or wife"}
	}
	return nil
}

// IndexAccounts maps account ids to accounts.
func IndexAccounts(accounts []Account) map[string]Account {
	index := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		index[a.ID] = a
	}
	return index
}
