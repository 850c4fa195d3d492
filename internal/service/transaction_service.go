package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/period"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
)

const defaultLimit = 20

// TransactionCursor identifies a position in a paginated result set. Version pins the page to the
// data set the first page was read from.
type TransactionCursor struct {
	Position int
	Limit    int
	Version  uint64
}

// TransactionQuery narrows a transaction listing. A zero Period lists every transaction.
type TransactionQuery struct {
	AccountID *string
	Period    period.Kind
	Custom    *period.Range
}

// TransactionPage is one page of a listing, newest first.
type TransactionPage struct {
	Transactions []ledger.Transaction
	Next         *TransactionCursor
	// Issues lists records whose date could not be read. They sort last.
	Issues []error
	// Stale is set when the data changed since the cursor was issued.
	Stale bool
}

// TransactionService handles transaction business logic.
type TransactionService struct {
	storage  *storage.Storage
	operator Processor
	loc      *time.Location
	now      func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, op Processor, loc *time.Location, now func() time.Time) *TransactionService {
	return &TransactionService{storage: store, operator: op, loc: loc, now: now}
}

// CreateTransaction records a transaction and applies it to the balances it touches. An empty
// ID is generated; an empty Date means now.
func (s *TransactionService) CreateTransaction(ctx context.Context, tx ledger.Transaction) (string, error) {
	if tx.ID == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return "", fmt.Errorf("failed to generate transaction id: %w", err)
		}
		tx.ID = id.String()
	}
	if tx.Date == "" {
		tx.Date = s.now().In(s.loc).Format(time.RFC3339)
	}
	if err := s.operator.Process(ctx, &actions.CreateTransaction{Transaction: tx, Location: s.loc}); err != nil {
		return "", err
	}
	return tx.ID, nil
}

// DeleteTransaction removes a transaction and reverts its balance effect.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	return s.operator.Process(ctx, &actions.DeleteTransaction{ID: id})
}

// ListTransactions returns a page of transactions, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, query TransactionQuery, cursor *TransactionCursor) (*TransactionPage, error) {
	limit := defaultLimit
	offset := 0
	version := s.storage.Version()
	page := &TransactionPage{}
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
		page.Stale = cursor.Version != version
		version = cursor.Version
	}

	var filter *table.TransactionFilter
	if query.AccountID != nil {
		filter = &table.TransactionFilter{AccountID: query.AccountID}
	}
	rows, err := s.storage.Transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	dated := make([]datedTransaction, 0, len(rows))
	if query.Period != "" {
		r, err := period.Resolve(query.Period, s.now(), s.loc, query.Custom, period.Earliest(rows, s.loc))
		if err != nil {
			return nil, &ledger.ValidationError{Field: "period", Reason: err.Error()}
		}
		kept, issues := period.Filter(rows, r, s.loc)
		page.Issues = issues
		rows = kept
	}
	for seq, tx := range rows {
		d, err := tx.ParsedDate(s.loc)
		if err != nil && query.Period == "" {
			page.Issues = append(page.Issues, err)
		}
		dated = append(dated, datedTransaction{tx: tx, at: d, ok: err == nil, seq: seq})
	}
	sortNewestFirst(dated)

	rows = make([]ledger.Transaction, len(dated))
	for i, d := range dated {
		rows[i] = d.tx
	}
	rows = table.Page(rows, offset, limit+1)

	if len(rows) > limit {
		rows = rows[:limit]
		page.Next = &TransactionCursor{
			Position: offset + limit,
			Limit:    limit,
			Version:  version,
		}
	}
	if len(rows) > 0 {
		page.Transactions = rows
	}
	return page, nil
}

type datedTransaction struct {
	tx  ledger.Transaction
	at  time.Time
	ok  bool
	seq int
}

// sortNewestFirst orders by date descending, then by log position descending. Undated records
// go last in log order.
func sortNewestFirst(rows []datedTransaction) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return a.seq < b.seq
		}
		if !a.at.Equal(b.at) {
			return a.at.After(b.at)
		}
		return a.seq > b.seq
	})
}
