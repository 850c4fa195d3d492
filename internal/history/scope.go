package history

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/ledger"
)

type ScopeKind string

const (
	ScopeGlobal  ScopeKind = "global"
	ScopeOwner   ScopeKind = "owner"
	ScopeAccount ScopeKind = "account"
)

// Scope selects the accounts a total is computed over.
type Scope struct {
	Kind      ScopeKind
	Owner     ledger.Owner
	AccountID string
}

func Global() Scope {
	return Scope{Kind: ScopeGlobal}
}

func ByOwner(owner ledger.Owner) Scope {
	return Scope{Kind: ScopeOwner, Owner: owner}
}

func ByAccount(id string) Scope {
	return Scope{Kind: ScopeAccount, AccountID: id}
}

// ParseScope builds a scope from a kind and its argument (owner or account id).
func ParseScope(kind, value string) (Scope, error) {
	switch ScopeKind(kind) {
	case "", ScopeGlobal:
		return Global(), nil
	case ScopeOwner:
		owner, err := ledger.ParseOwner(value)
		if err != nil {
			return Scope{}, err
		}
		if owner == ledger.OwnerNone {
			return Scope{}, &ledger.ValidationError{Field: "owner", Reason: "required for owner scope"}
		}
		return ByOwner(owner), nil
	case ScopeAccount:
		if value == "" {
			return Scope{}, &ledger.ValidationError{Field: "accountID", Reason: "required for account scope"}
		}
		return ByAccount(value), nil
	}
	return Scope{}, &ledger.ValidationError{Field: "scope", Reason: fmt.Sprintf("unknown scope %q", kind)}
}

func (s Scope) String() string {
	switch s.Kind {
	case ScopeOwner:
		return "owner:" + string(s.Owner)
	case ScopeAccount:
		return "account:" + s.AccountID
	}
	return string(ScopeGlobal)
}

// Includes reports whether acc belongs to the scope. A single-account scope ignores the
// inclusion flag; the others only count accounts included in totals.
func (s Scope) Includes(acc ledger.Account) bool {
	switch s.Kind {
	case ScopeAccount:
		return acc.ID == s.AccountID
	case ScopeOwner:
		return acc.IncludeInTotals && acc.Owner == s.Owner
	}
	return acc.IncludeInTotals
}

// Members seeds the working balance map from the current balances of the accounts in scope.
func (s Scope) Members(accounts []ledger.Account) map[string]decimal.Decimal {
	members := make(map[string]decimal.Decimal)
	for _, acc := range accounts {
		if s.Includes(acc) {
			members[acc.ID] = acc.Balance
		}
	}
	return members
}

// Total sums the current balances of the accounts in scope.
func (s Scope) Total(accounts []ledger.Account) decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Members(accounts) {
		total = total.Add(b)
	}
	return total
}
