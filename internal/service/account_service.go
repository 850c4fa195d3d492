package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
)

const defaultAccountLimit = 20

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// AccountService handles account business logic.
type AccountService struct {
	storage  *storage.Storage
	operator Processor
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *storage.Storage, op Processor) *AccountService {
	return &AccountService{storage: store, operator: op}
}

// CreateAccount creates a new account and returns its ID. An empty ID is generated.
func (s *AccountService) CreateAccount(ctx context.Context, account ledger.Account) (string, error) {
	if account.ID == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return "", fmt.Errorf("failed to generate account id: %w", err)
		}
		account.ID = id.String()
	}
	if err := s.operator.Process(ctx, &actions.CreateAccount{Account: account}); err != nil {
		return "", err
	}
	return account.ID, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	return s.storage.Accounts.FindByID(ctx, id)
}

// ListAccounts returns a page of accounts, optionally restricted to one owner.
func (s *AccountService) ListAccounts(ctx context.Context, owner *ledger.Owner, cursor *AccountCursor) ([]ledger.Account, *AccountCursor, error) {
	limit := defaultAccountLimit
	offset := 0
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
	}

	accounts, err := s.storage.Accounts.List(ctx, &table.AccountFilter{
		Owner:  owner,
		Limit:  limit + 1,
		Offset: offset,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(accounts) == 0 {
		return nil, nil, nil
	}

	var nextCursor *AccountCursor
	if len(accounts) > limit {
		accounts = accounts[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	return accounts, nextCursor, nil
}

// UpdateAccount changes account attributes. Balances are left to transactions.
func (s *AccountService) UpdateAccount(ctx context.Context, update actions.UpdateAccount) error {
	return s.operator.Process(ctx, &update)
}

// DeleteAccount removes an account that has no transactions.
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	return s.operator.Process(ctx, &actions.DeleteAccount{ID: id})
}
