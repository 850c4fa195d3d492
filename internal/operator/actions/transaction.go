package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
	"github.com/carson-networks/finance-tracker/internal/zakat"
)

// CreateTransaction appends a transaction to the log and applies it to the balances of the
// accounts it touches.
type CreateTransaction struct {
	Transaction ledger.Transaction
	Location    *time.Location
}

func (c *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	tx := c.Transaction.Normalize()

	accounts := make(map[string]ledger.Account)
	for _, id := range legs(tx) {
		acc, err := writer.Account.FindByID(ctx, id)
		if errors.Is(err, table.ErrNotFound) {
			return &ledger.MissingAccountError{TransactionID: tx.ID, AccountID: id}
		}
		if err != nil {
			return err
		}
		accounts[id] = *acc
	}
	if err := tx.Validate(c.Location, accounts); err != nil {
		return err
	}

	_, err := writer.Transaction.FindByID(ctx, tx.ID)
	if err == nil {
		return &ledger.ValidationError{Field: "id", Reason: fmt.Sprintf("transaction %s already exists", tx.ID)}
	}
	if !errors.Is(err, table.ErrNotFound) {
		return err
	}

	if err := writer.Transaction.Upsert(ctx, tx); err != nil {
		return err
	}
	return applyEffect(ctx, writer, tx, 1, false)
}

// DeleteTransaction removes a transaction and reverts its effect on the accounts that still exist.
type DeleteTransaction struct {
	ID string
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	tx, err := writer.Transaction.FindByID(ctx, d.ID)
	if err != nil {
		return err
	}
	if err := writer.Transaction.Delete(ctx, d.ID); err != nil {
		return err
	}
	return applyEffect(ctx, writer, *tx, -1, true)
}

// RecordZakatPayment records the payment built by zakat.NewPayment.
type RecordZakatPayment struct {
	Payment  ledger.Transaction
	Location *time.Location
}

func (r *RecordZakatPayment) Perform(ctx context.Context, writer *storage.Writer) error {
	if !zakat.IsZakatPayment(r.Payment) {
		return &ledger.ValidationError{Field: "category", Reason: "payment must be a Zakat Mal expense"}
	}
	if err := r.checkNotPaid(ctx, writer); err != nil {
		return err
	}
	create := CreateTransaction{Transaction: r.Payment, Location: r.Location}
	return create.Perform(ctx, writer)
}

// checkNotPaid rejects the payment when the funding account's owner already paid inside the
// haul window ending on the payment date. It reads through the writer so concurrent requests
// see each other's payments.
func (r *RecordZakatPayment) checkNotPaid(ctx context.Context, writer *storage.Writer) error {
	funding, err := writer.Account.FindByID(ctx, r.Payment.AccountID)
	if errors.Is(err, table.ErrNotFound) {
		return &ledger.MissingAccountError{TransactionID: r.Payment.ID, AccountID: r.Payment.AccountID}
	}
	if err != nil {
		return err
	}
	paidOn, err := r.Payment.ParsedDate(r.Location)
	if err != nil {
		return err
	}

	accounts, err := writer.Account.List(ctx, nil)
	if err != nil {
		return err
	}
	txs, err := writer.Transaction.List(ctx, nil)
	if err != nil {
		return err
	}
	if prior := zakat.PaidWithinHaul(funding.Owner, accounts, txs, paidOn, r.Location); prior != nil {
		return &ledger.ValidationError{
			Field:  "state",
			Reason: fmt.Sprintf("zakat for %s already paid on %s", funding.Owner, prior.Date.Format(time.DateOnly)),
		}
	}
	return nil
}
