package storage

import (
	"context"
	"fmt"

	"github.com/carson-networks/finance-tracker/internal/ledger"
)

// Snapshot is the full data set as of Version.
type Snapshot struct {
	Accounts     []ledger.Account
	Transactions []ledger.Transaction
	Version      uint64
}

// Load reads every account and the whole transaction log from one consistent view. Writes are
// held off while it reads, so Version matches the data exactly.
func (s *Storage) Load(ctx context.Context) (*Snapshot, error) {
	s.gate.RLock()
	defer s.gate.RUnlock()

	version := s.Version()
	accounts, txs, err := s.backend.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return &Snapshot{Accounts: accounts, Transactions: txs, Version: version}, nil
}
