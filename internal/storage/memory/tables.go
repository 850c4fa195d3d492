package memory

import (
	"context"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
)

type accountsTable struct {
	read  func(fn func(d *document))
	write func(fn func(d *document) error) error
}

var _ table.IAccountTable = (*accountsTable)(nil)

func (t *accountsTable) FindByID(_ context.Context, id string) (*ledger.Account, error) {
	var (
		acc ledger.Account
		ok  bool
	)
	t.read(func(d *document) {
		acc, ok = d.accounts[id]
	})
	if !ok {
		return nil, table.ErrNotFound
	}
	return &acc, nil
}

func (t *accountsTable) List(_ context.Context, filter *table.AccountFilter) ([]ledger.Account, error) {
	var all []ledger.Account
	t.read(func(d *document) {
		all = sortedAccounts(d.accounts)
	})
	if filter == nil {
		return all, nil
	}
	rows := all[:0:0]
	for _, acc := range all {
		if filter.Owner != nil && acc.Owner != *filter.Owner {
			continue
		}
		rows = append(rows, acc)
	}
	return table.Page(rows, filter.Offset, filter.Limit), nil
}

func (t *accountsTable) Upsert(_ context.Context, account ledger.Account) error {
	if t.write == nil {
		return errReadOnly
	}
	return t.write(func(d *document) error {
		d.accounts[account.ID] = account
		return nil
	})
}

func (t *accountsTable) Delete(_ context.Context, id string) error {
	if t.write == nil {
		return errReadOnly
	}
	return t.write(func(d *document) error {
		if _, ok := d.accounts[id]; !ok {
			return table.ErrNotFound
		}
		delete(d.accounts, id)
		return nil
	})
}

type transactionsTable struct {
	read  func(fn func(d *document))
	write func(fn func(d *document) error) error
}

var _ table.ITransactionTable = (*transactionsTable)(nil)

func (t *transactionsTable) FindByID(_ context.Context, id string) (*ledger.Transaction, error) {
	var (
		tx ledger.Transaction
		ok bool
	)
	t.read(func(d *document) {
		if i := d.transactionIndex(id); i >= 0 {
			tx, ok = d.transactions[i], true
		}
	})
	if !ok {
		return nil, table.ErrNotFound
	}
	return &tx, nil
}

func (t *transactionsTable) List(_ context.Context, filter *table.TransactionFilter) ([]ledger.Transaction, error) {
	var rows []ledger.Transaction
	t.read(func(d *document) {
		for _, tx := range d.transactions {
			if filter != nil && filter.AccountID != nil && !tx.Touches(*filter.AccountID) {
				continue
			}
			rows = append(rows, tx)
		}
	})
	if filter == nil {
		return rows, nil
	}
	return table.Page(rows, filter.Offset, filter.Limit), nil
}

func (t *transactionsTable) Upsert(_ context.Context, transaction ledger.Transaction) error {
	if t.write == nil {
		return errReadOnly
	}
	return t.write(func(d *document) error {
		if i := d.transactionIndex(transaction.ID); i >= 0 {
			d.transactions[i] = transaction
			return nil
		}
		d.transactions = append(d.transactions, transaction)
		return nil
	})
}

func (t *transactionsTable) Delete(_ context.Context, id string) error {
	if t.write == nil {
		return errReadOnly
	}
	return t.write(func(d *document) error {
		i := d.transactionIndex(id)
		if i < 0 {
			return table.ErrNotFound
		}
		d.transactions = append(d.transactions[:i], d.transactions[i+1:]...)
		return nil
	})
}
