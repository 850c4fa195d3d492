// Package table declares the account and transaction tables every storage backend provides.
package table

import (
	"context"
	"errors"

	"github.com/carson-networks/finance-tracker/internal/ledger"
)

var ErrNotFound = errors.New("record not found")

// AccountFilter specifies filters for listing accounts. Nil filter returns all.
type AccountFilter struct {
	Owner  *ledger.Owner
	Limit  int
	Offset int
}

// TransactionFilter specifies filters for listing transactions. Nil filter returns all.
type TransactionFilter struct {
	AccountID *string
	Limit     int
	Offset    int
}

// IAccountTable is ordered by name, then id.
type IAccountTable interface {
	FindByID(ctx context.Context, id string) (*ledger.Account, error)
	List(ctx context.Context, filter *AccountFilter) ([]ledger.Account, error)
	Upsert(ctx context.Context, account ledger.Account) error
	Delete(ctx context.Context, id string) error
}

// ITransactionTable is ordered by log position, oldest first. Upserting an existing id keeps its
// position.
type ITransactionTable interface {
	FindByID(ctx context.Context, id string) (*ledger.Transaction, error)
	List(ctx context.Context, filter *TransactionFilter) ([]ledger.Transaction, error)
	Upsert(ctx context.Context, transaction ledger.Transaction) error
	Delete(ctx context.Context, id string) error
}

// Page applies offset and limit to an ordered slice.
func Page[T any](rows []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(rows) {
			return nil
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// Tx is a unit of work over both tables. Nothing is visible to readers until Commit.
type Tx interface {
	Accounts() IAccountTable
	Transactions() ITransactionTable
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Backend is a storage engine. The tables it returns directly read committed data.
type Backend interface {
	Accounts() IAccountTable
	Transactions() ITransactionTable
	Begin(ctx context.Context) (Tx, error)
	// Snapshot reads every account and the whole transaction log from one consistent view.
	Snapshot(ctx context.Context) ([]ledger.Account, []ledger.Transaction, error)
	Close() error
}
