package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
)

type CreateAccount struct {
	Account ledger.Account
}

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := c.Account.Validate(); err != nil {
		return err
	}
	_, err := writer.Account.FindByID(ctx, c.Account.ID)
	if err == nil {
		return &ledger.ValidationError{Field: "id", Reason: fmt.Sprintf("account %s already exists", c.Account.ID)}
	}
	if !errors.Is(err, table.ErrNotFound) {
		return err
	}
	return writer.Account.Upsert(ctx, c.Account)
}

// UpdateAccount changes the descriptive attributes of an account. The balance only moves
// through transactions.
type UpdateAccount struct {
	ID              string
	Name            string
	Group           ledger.AccountGroup
	Currency        string
	IncludeInTotals bool
	Owner           ledger.Owner
}

func (u *UpdateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	acc, err := writer.Account.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}
	acc.Name = u.Name
	acc.Group = u.Group
	acc.Currency = u.Currency
	acc.IncludeInTotals = u.IncludeInTotals
	acc.Owner = u.Owner
	if err := acc.Validate(); err != nil {
		return err
	}
	return writer.Account.Upsert(ctx, *acc)
}

// DeleteAccount removes an account that no transaction references.
type DeleteAccount struct {
	ID string
}

func (d *DeleteAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := writer.Account.FindByID(ctx, d.ID); err != nil {
		return err
	}
	referencing, err := writer.Transaction.List(ctx, &table.TransactionFilter{AccountID: &d.ID, Limit: 1})
	if err != nil {
		return err
	}
	if len(referencing) > 0 {
		return &ledger.ValidationError{Field: "id", Reason: fmt.Sprintf("account %s still has transactions", d.ID)}
	}
	return writer.Account.Delete(ctx, d.ID)
}
