package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

// AccountsTable provides access to the accounts table.
type AccountsTable struct {
	exec bob.Executor
}

// Ensure AccountsTable implements IAccountTable at compile time.
var _ table.IAccountTable = (*AccountsTable)(nil)

func NewAccountsTable(exec bob.Executor) *AccountsTable {
	return &AccountsTable{exec: exec}
}

// FindByID retrieves an account by primary key.
func (t *AccountsTable) FindByID(ctx context.Context, id string) (*ledger.Account, error) {
	q := psql.Select(
		sm.Columns(columns(accountColumns)...),
		sm.From(accountsTableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[accountRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, table.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	acc, err := rowToAccount(row)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// List returns accounts matching the filter. Nil filter returns all.
func (t *AccountsTable) List(ctx context.Context, filter *table.AccountFilter) ([]ledger.Account, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns(accountColumns)...),
		sm.From(accountsTableName),
	}
	if filter != nil {
		if filter.Owner != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("owner").EQ(psql.Arg(string(*filter.Owner)))))
		}
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("name")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)
	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[accountRow]())
	if err != nil {
		return nil, err
	}
	result := make([]ledger.Account, 0, len(rows))
	for _, row := range rows {
		acc, err := rowToAccount(row)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", row.ID, err)
		}
		result = append(result, acc)
	}
	return result, nil
}

// Upsert inserts the account or replaces every attribute of the existing row.
func (t *AccountsTable) Upsert(ctx context.Context, account ledger.Account) error {
	row, err := accountToRow(account)
	if err != nil {
		return err
	}
	q := psql.Insert(
		im.Into(accountsTableName, accountColumns...),
		im.Values(psql.Arg(row.ID, row.Name, row.Type, row.Balance, row.Currency, row.IncludeInTotals, row.Owner)),
		im.OnConflict("id").DoUpdate(im.SetExcluded(accountColumns[1:]...)),
	)
	_, err = bob.Exec(ctx, t.exec, q)
	return err
}

func (t *AccountsTable) Delete(ctx context.Context, id string) error {
	q := psql.Delete(
		dm.From(accountsTableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return table.ErrNotFound
	}
	return nil
}
