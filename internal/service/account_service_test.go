package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
)

func TestCreateAccount_GeneratesID(t *testing.T) {
	env := newTestEnv(t, decimal.Zero, nil)

	id, err := env.svc.Account.CreateAccount(context.Background(), ledger.Account{Name: "Checking", Group: ledger.GroupBankAccounts})
	require.NoError(t, err)
	_, err = uuid.FromString(id)
	assert.NoError(t, err)

	acc, err := env.svc.Account.GetAccount(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Checking", acc.Name)
}

func TestCreateAccount_OperatorError(t *testing.T) {
	processor := new(mockProcessor)
	processor.On("Process", mock.Anything, mock.AnythingOfType("*actions.CreateAccount")).
		Return(errors.New("queue closed"))
	svc := NewAccountService(nil, processor)

	id, err := svc.CreateAccount(context.Background(), ledger.Account{Name: "Checking"})
	assert.EqualError(t, err, "queue closed")
	assert.Empty(t, id)
	processor.AssertExpectations(t)
}

func TestGetAccount_NotFound(t *testing.T) {
	env := newTestEnv(t, decimal.Zero, nil)
	_, err := env.svc.Account.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, table.ErrNotFound)
}

func TestListAccounts_Pagination(t *testing.T) {
	env := newTestEnv(t, decimal.Zero, nil)
	for _, name := range []string{"A", "B", "C"} {
		env.addAccount(t, ledger.Account{ID: name, Name: name, Group: ledger.GroupCash, Owner: ledger.OwnerWife})
	}
	env.addAccount(t, ledger.Account{ID: "D", Name: "D", Group: ledger.GroupCash, Owner: ledger.OwnerHusband})

	accounts, next, err := env.svc.Account.ListAccounts(context.Background(), nil, &AccountCursor{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
	require.NotNil(t, next)
	assert.Equal(t, 2, next.Position)

	accounts, next, err = env.svc.Account.ListAccounts(context.Background(), nil, next)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Nil(t, next)

	wife := ledger.OwnerWife
	accounts, next, err = env.svc.Account.ListAccounts(context.Background(), &wife, nil)
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
	assert.Nil(t, next)
}

func TestListAccounts_NoResults(t *testing.T) {
	env := newTestEnv(t, decimal.Zero, nil)
	accounts, next, err := env.svc.Account.ListAccounts(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, accounts)
	assert.Nil(t, next)
}

func TestUpdateAndDeleteAccount(t *testing.T) {
	env := newTestEnv(t, decimal.Zero, nil)
	ctx := context.Background()
	env.addAccount(t, ledger.Account{ID: "a", Name: "Wallet", Group: ledger.GroupCash, Balance: decimal.NewFromInt(10)})

	err := env.svc.Account.UpdateAccount(ctx, actions.UpdateAccount{ID: "a", Name: "Purse", Group: ledger.GroupCash, IncludeInTotals: true})
	require.NoError(t, err)
	acc, err := env.svc.Account.GetAccount(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Purse", acc.Name)
	assert.True(t, acc.IncludeInTotals)

	env.addTransaction(t, ledger.Transaction{ID: "t", Date: day(1), Type: ledger.Income, Amount: decimal.NewFromInt(1), AccountID: "a"})
	assert.True(t, ledger.IsValidation(env.svc.Account.DeleteAccount(ctx, "a")))

	require.NoError(t, env.svc.Transaction.DeleteTransaction(ctx, "t"))
	require.NoError(t, env.svc.Account.DeleteAccount(ctx, "a"))
}
