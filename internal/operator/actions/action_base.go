package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
)

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// legs returns the distinct account ids a transaction moves money on.
func legs(tx ledger.Transaction) []string {
	ids := []string{tx.AccountID}
	if tx.Type == ledger.Transfer && tx.ToAccountID != "" && tx.ToAccountID != tx.AccountID {
		ids = append(ids, tx.ToAccountID)
	}
	return ids
}

// applyEffect adds sign times the transaction's effect to every leg's balance. Legs whose account
// no longer exists are skipped when skipMissing is set.
func applyEffect(ctx context.Context, writer *storage.Writer, tx ledger.Transaction, sign int64, skipMissing bool) error {
	for _, id := range legs(tx) {
		acc, err := writer.Account.FindByID(ctx, id)
		if errors.Is(err, table.ErrNotFound) && skipMissing {
			continue
		}
		if errors.Is(err, table.ErrNotFound) {
			return &ledger.MissingAccountError{TransactionID: tx.ID, AccountID: id}
		}
		if err != nil {
			return fmt.Errorf("failed to load account %s: %w", id, err)
		}
		delta := tx.Effect(id)
		if sign < 0 {
			delta = delta.Neg()
		}
		acc.Balance = acc.Balance.Add(delta)
		if err := writer.Account.Upsert(ctx, *acc); err != nil {
			return fmt.Errorf("failed to update balance of %s: %w", id, err)
		}
	}
	return nil
}
