package storage

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/carson-networks/finance-tracker/internal/config"
	"github.com/carson-networks/finance-tracker/internal/storage/memory"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
)

// Storage is the persistence collaborator. Reads go straight to the backend; writes go through a
// Writer. Every committed Writer bumps Version.
type Storage struct {
	backend table.Backend
	version atomic.Uint64

	// gate is held for writing from Write until Commit or Rollback, and for reading by Load.
	gate sync.RWMutex

	Accounts     table.IAccountTable
	Transactions table.ITransactionTable
}

func NewStorage(backend table.Backend) *Storage {
	return &Storage{
		backend:      backend,
		Accounts:     backend.Accounts(),
		Transactions: backend.Transactions(),
	}
}

// Open builds the backend selected by STORAGE_BACKEND.
func Open(ctx context.Context, env *config.Config) (*Storage, error) {
	switch env.StorageBackend {
	case config.StorageMemory:
		store, err := memory.New(env.DataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open memory store: %w", err)
		}
		return NewStorage(store), nil
	case config.StoragePostgres:
		db, err := sqlconfig.Open(ctx, env.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		return NewStorage(db), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", env.StorageBackend)
}

// Write starts a unit of work. The caller must Commit or Rollback.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	s.gate.Lock()
	tx, err := s.backend.Begin(ctx)
	if err != nil {
		s.gate.Unlock()
		return nil, fmt.Errorf("failed to begin write: %w", err)
	}
	w := NewWriter(tx)
	w.onCommit = func() { s.version.Add(1) }
	w.release = s.gate.Unlock
	return w, nil
}

// Version counts committed writes since startup.
func (s *Storage) Version() uint64 {
	return s.version.Load()
}

func (s *Storage) Close() error {
	return s.backend.Close()
}
