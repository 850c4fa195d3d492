// Package sqlconfig stores accounts and transactions in PostgreSQL.
package sqlconfig

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
)

// DB is the PostgreSQL backend.
type DB struct {
	sqlDB *sql.DB
	exec  bob.DB
}

var _ table.Backend = (*DB)(nil)

func Open(ctx context.Context, connStr string) (*DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewDB(db), nil
}

func NewDB(db *sql.DB) *DB {
	return &DB{sqlDB: db, exec: bob.NewDB(db)}
}

func (d *DB) SQL() *sql.DB {
	return d.sqlDB
}

func (d *DB) Accounts() table.IAccountTable {
	return NewAccountsTable(d.exec)
}

func (d *DB) Transactions() table.ITransactionTable {
	return NewTransactionsTable(d.exec)
}

func (d *DB) Begin(ctx context.Context) (table.Tx, error) {
	tx, err := d.exec.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

// Snapshot reads both tables inside one read-only REPEATABLE READ transaction.
func (d *DB) Snapshot(ctx context.Context) ([]ledger.Account, []ledger.Transaction, error) {
	tx, err := d.exec.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	accounts, err := NewAccountsTable(tx).List(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	txs, err := NewTransactionsTable(tx).List(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	return accounts, txs, nil
}

func (d *DB) Close() error {
	return d.sqlDB.Close()
}

type sqlTx struct {
	tx bob.Tx
}

func (t *sqlTx) Accounts() table.IAccountTable {
	return NewAccountsTable(t.tx)
}

func (t *sqlTx) Transactions() table.ITransactionTable {
	return NewTransactionsTable(t.tx)
}

func (t *sqlTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *sqlTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
