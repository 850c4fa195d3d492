// Package memory is an in-process document store with optional JSON file persistence.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
)

var (
	ErrTxDone   = errors.New("transaction has already been committed or rolled back")
	errReadOnly = errors.New("table is read-only outside a transaction")
)

// Store keeps the data set in memory. A write transaction holds the store lock from Begin until
// Commit or Rollback and works on a private copy.
type Store struct {
	path string

	mu  sync.RWMutex
	doc *document
}

var _ table.Backend = (*Store)(nil)

// New returns an empty store. With a non-empty path the store is loaded from and saved to that
// JSON file.
func New(path string) (*Store, error) {
	s := &Store{path: path, doc: newDocument()}
	if path == "" {
		return s, nil
	}
	doc, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	s.doc = doc
	return s, nil
}

func (s *Store) Accounts() table.IAccountTable {
	return &accountsTable{read: s.read}
}

func (s *Store) Transactions() table.ITransactionTable {
	return &transactionsTable{read: s.read}
}

func (s *Store) Begin(ctx context.Context) (table.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &storeTx{store: s, doc: s.doc.clone()}, nil
}

func (s *Store) Snapshot(ctx context.Context) ([]ledger.Account, []ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	var (
		accounts []ledger.Account
		txs      []ledger.Transaction
	)
	s.read(func(d *document) {
		accounts = sortedAccounts(d.accounts)
		txs = append([]ledger.Transaction(nil), d.transactions...)
	})
	return accounts, txs, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) read(fn func(d *document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.doc)
}

type storeTx struct {
	store *Store
	doc   *document
	done  bool
}

func (t *storeTx) Accounts() table.IAccountTable {
	return &accountsTable{read: t.read, write: t.write}
}

func (t *storeTx) Transactions() table.ITransactionTable {
	return &transactionsTable{read: t.read, write: t.write}
}

func (t *storeTx) read(fn func(d *document)) {
	fn(t.doc)
}

func (t *storeTx) write(fn func(d *document) error) error {
	if t.done {
		return ErrTxDone
	}
	return fn(t.doc)
}

func (t *storeTx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	defer t.store.mu.Unlock()
	if t.store.path != "" {
		if err := saveFile(t.store.path, t.doc); err != nil {
			return err
		}
	}
	t.store.doc = t.doc
	return nil
}

func (t *storeTx) Rollback(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func sortedAccounts(accounts map[string]ledger.Account) []ledger.Account {
	out := make([]ledger.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
