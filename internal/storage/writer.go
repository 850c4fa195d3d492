package storage

import (
	"context"
	"sync"

	"github.com/carson-networks/finance-tracker/internal/storage/table"
)

type Writer struct {
	tx          table.Tx
	Account     table.IAccountTable
	Transaction table.ITransactionTable
	onCommit    func()
	release     func()
	releaseOnce sync.Once
}

func NewWriter(tx table.Tx) *Writer {
	return &Writer{
		tx:          tx,
		Account:     tx.Accounts(),
		Transaction: tx.Transactions(),
	}
}

// Commit applies the unit of work. The Writer is finished afterwards even when Commit fails.
func (w *Writer) Commit() error {
	defer w.done()
	if err := w.tx.Commit(context.Background()); err != nil {
		return err
	}
	if w.onCommit != nil {
		w.onCommit()
	}
	return nil
}

func (w *Writer) Rollback() error {
	defer w.done()
	return w.tx.Rollback(context.Background())
}

func (w *Writer) done() {
	w.releaseOnce.Do(func() {
		if w.release != nil {
			w.release()
		}
	})
}
