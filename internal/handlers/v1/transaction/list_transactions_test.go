package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/period"
	"github.com/carson-networks/finance-tracker/internal/service"
)

type mockTransactionLister struct {
	mock.Mock
}

func (m *mockTransactionLister) ListTransactions(ctx context.Context, query service.TransactionQuery, cursor *service.TransactionCursor) (*service.TransactionPage, error) {
	args := m.Called(ctx, query, cursor)
	page, _ := args.Get(0).(*service.TransactionPage)
	return page, args.Error(1)
}

func newListTestAPI(t *testing.T, svc transactionLister) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewListTransactionsHandler(svc).Register(api)
	return api
}

// -- parseListTransactionsInput unit tests --

func TestParseListTransactionsInput_NoCursor(t *testing.T) {
	query, cursor, err := parseListTransactionsInput(&ListTransactionsInput{})
	assert.NoError(t, err)
	assert.Nil(t, cursor)
	assert.Equal(t, service.TransactionQuery{}, query)
}

func TestParseListTransactionsInput_WithCursorAndPeriod(t *testing.T) {
	input := &ListTransactionsInput{
		Body: ListTransactionsBody{
			AccountID: "bank",
			Start:     "2025-06-01",
			End:       "2025-06-30",
			Cursor:    &ListTransactionsCursor{Position: 40, Limit: 10, Version: 7},
		},
	}

	query, cursor, err := parseListTransactionsInput(input)
	require.NoError(t, err)
	require.NotNil(t, query.AccountID)
	assert.Equal(t, "bank", *query.AccountID)
	assert.Equal(t, period.KindCustom, query.Period)
	require.NotNil(t, query.Custom)
	assert.Equal(t, 30, query.Custom.Days())
	assert.Equal(t, &service.TransactionCursor{Position: 40, Limit: 10, Version: 7}, cursor)
}

func TestParseListTransactionsInput_InvalidPeriod(t *testing.T) {
	_, _, err := parseListTransactionsInput(&ListTransactionsInput{Body: ListTransactionsBody{Period: "custom", Start: "2025-06-01"}})
	assert.Error(t, err)
}

// -- HTTP tests --

func TestHTTP_ListTransactions_SinglePage(t *testing.T) {
	svc := new(mockTransactionLister)
	svc.On("ListTransactions", mock.Anything, service.TransactionQuery{}, (*service.TransactionCursor)(nil)).
		Return(&service.TransactionPage{
			Transactions: []ledger.Transaction{{
				ID:        "t1",
				Date:      "2025-06-01T12:00:00Z",
				Type:      ledger.Expense,
				Amount:    decimal.RequireFromString("10.00"),
				AccountID: "cash",
				Category:  "Coffee",
			}},
			Issues: []error{&ledger.ParseError{RecordID: "bad", Field: "date", Value: "soon", Err: errors.New("unparseable")}},
		}, nil)

	resp := newListTestAPI(t, svc).Post("/v1/transaction/list", ListTransactionsBody{})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Transactions, 1)
	assert.Equal(t, "t1", body.Transactions[0].ID)
	assert.Equal(t, "EXPENSE", body.Transactions[0].Type)
	assert.Empty(t, body.Transactions[0].Fee)
	assert.Len(t, body.Issues, 1)
	assert.Nil(t, body.NextCursor)
	svc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_NextCursor(t *testing.T) {
	svc := new(mockTransactionLister)
	svc.On("ListTransactions", mock.Anything, mock.Anything, mock.MatchedBy(func(c *service.TransactionCursor) bool {
		return c != nil && c.Position == 20 && c.Limit == 20 && c.Version == 3
	})).Return(&service.TransactionPage{
		Next:  &service.TransactionCursor{Position: 40, Limit: 20, Version: 3},
		Stale: true,
	}, nil)

	resp := newListTestAPI(t, svc).Post("/v1/transaction/list", ListTransactionsBody{
		Cursor: &ListTransactionsCursor{Position: 20, Limit: 20, Version: 3},
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Transactions)
	assert.True(t, body.Stale)
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, 40, body.NextCursor.Position)
	svc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_ServiceError(t *testing.T) {
	svc := new(mockTransactionLister)
	svc.On("ListTransactions", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("database unavailable"))

	resp := newListTestAPI(t, svc).Post("/v1/transaction/list", ListTransactionsBody{})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	svc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_InvalidCursorLimit(t *testing.T) {
	svc := new(mockTransactionLister)

	resp := newListTestAPI(t, svc).Post("/v1/transaction/list", ListTransactionsBody{
		Cursor: &ListTransactionsCursor{Position: 0, Limit: 500},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "ListTransactions")
}
