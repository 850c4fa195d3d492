package sqlconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
)

var _ table.ITransactionTable = (*TransactionsTable)(nil)

type TransactionsTable struct {
	exec bob.Executor
}

func NewTransactionsTable(exec bob.Executor) *TransactionsTable {
	return &TransactionsTable{exec: exec}
}

// FindByID retrieves a transaction by primary key.
func (t *TransactionsTable) FindByID(ctx context.Context, id string) (*ledger.Transaction, error) {
	q := psql.Select(
		sm.Columns(columns(transactionColumns)...),
		sm.From(transactionsTableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[transactionRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, table.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	tx := rowToTransaction(row)
	return &tx, nil
}

// List returns transactions matching the filter in log order. Nil filter returns all.
func (t *TransactionsTable) List(ctx context.Context, filter *table.TransactionFilter) ([]ledger.Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns(transactionColumns)...),
		sm.From(transactionsTableName),
	}
	if filter != nil {
		if filter.AccountID != nil {
			queryMods = append(queryMods, sm.Where(psql.Or(
				psql.Quote("account_id").EQ(psql.Arg(*filter.AccountID)),
				psql.Quote("to_account_id").EQ(psql.Arg(*filter.AccountID)),
			)))
		}
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}
	queryMods = append(queryMods, sm.OrderBy(psql.Quote("seq")).Asc())

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, err
	}
	result := make([]ledger.Transaction, len(rows))
	for i, row := range rows {
		result[i] = rowToTransaction(row)
	}
	return result, nil
}

// Upsert inserts the transaction or replaces its attributes. seq is never updated, so the log
// position of an existing transaction is kept.
func (t *TransactionsTable) Upsert(ctx context.Context, transaction ledger.Transaction) error {
	row := transactionToRow(transaction)
	q := psql.Insert(
		im.Into(transactionsTableName, transactionColumns...),
		im.Values(psql.Arg(row.ID, row.Date, row.Type, row.Amount, row.AccountID, row.ToAccountID, row.Category, row.Notes, row.Fee)),
		im.OnConflict("id").DoUpdate(im.SetExcluded(transactionColumns[1:]...)),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return err
}

func (t *TransactionsTable) Delete(ctx context.Context, id string) error {
	q := psql.Delete(
		dm.From(transactionsTableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
