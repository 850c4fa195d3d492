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
)

type mockTransactionService struct {
	mock.Mock
}

func (m *mockTransactionService) CreateTransaction(ctx context.Context, tx ledger.Transaction) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

func (m *mockTransactionService) DeleteTransaction(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// newTestAPI registers the handlers against a humatest API and returns it.
func newTestAPI(t *testing.T, svc *mockTransactionService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateTransactionHandler(svc).Register(api)
	NewDeleteTransactionHandler(svc).Register(api)
	return api
}

// -- parseCreateTransactionInput unit tests --

func TestParseCreateTransactionInput_Transfer(t *testing.T) {
	tx, err := parseCreateTransactionInput(&CreateTransactionInput{Body: CreateTransactionBody{
		Date:        "2025-01-15T10:30:00Z",
		Type:        "TRANSFER",
		Amount:      "123.45",
		AccountID:   "bank",
		ToAccountID: "cash",
		Fee:         "1.5",
	}})
	require.NoError(t, err)
	assert.Equal(t, ledger.Transfer, tx.Type)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("123.45")))
	assert.True(t, tx.Fee.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, "2025-01-15T10:30:00Z", tx.Date)
	assert.Equal(t, "cash", tx.ToAccountID)
}

func TestParseCreateTransactionInput_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body CreateTransactionBody
	}{
		{"negative amount", CreateTransactionBody{Type: "INCOME", Amount: "-1", AccountID: "a"}},
		{"malformed amount", CreateTransactionBody{Type: "INCOME", Amount: "ten", AccountID: "a"}},
		{"negative fee", CreateTransactionBody{Type: "TRANSFER", Amount: "1", Fee: "-2", AccountID: "a", ToAccountID: "b"}},
		{"malformed date", CreateTransactionBody{Type: "INCOME", Amount: "1", AccountID: "a", Date: "15/01/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCreateTransactionInput(&CreateTransactionInput{Body: tt.body})
			assert.Error(t, err)
		})
	}
}

// -- HTTP tests (full Huma stack via humatest) --

func TestHTTP_CreateTransaction_Success(t *testing.T) {
	svc := new(mockTransactionService)
	svc.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx ledger.Transaction) bool {
		return tx.AccountID == "cash" &&
			tx.Type == ledger.Expense &&
			tx.Amount.Equal(decimal.RequireFromString("12.50")) &&
			tx.Category == "Coffee" &&
			tx.Date == ""
	})).Return("tx-1", nil)

	resp := newTestAPI(t, svc).Post("/v1/transaction", CreateTransactionBody{
		Type:      "EXPENSE",
		Amount:    "12.50",
		AccountID: "cash",
		Category:  "Coffee",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body CreateTransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "tx-1", body.ID)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_MissingRequiredFields(t *testing.T) {
	svc := new(mockTransactionService)

	// Huma schema validation rejects the request before the handler runs.
	resp := newTestAPI(t, svc).Post("/v1/transaction", map[string]any{"type": "INCOME"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_UnknownType(t *testing.T) {
	svc := new(mockTransactionService)

	resp := newTestAPI(t, svc).Post("/v1/transaction", CreateTransactionBody{
		Type:      "REFUND",
		Amount:    "10.00",
		AccountID: "cash",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_InvalidAmount(t *testing.T) {
	svc := new(mockTransactionService)

	// Amount has no schema format, so parseCreateTransactionInput rejects it with 400.
	resp := newTestAPI(t, svc).Post("/v1/transaction", CreateTransactionBody{
		Type:      "INCOME",
		Amount:    "not-a-decimal",
		AccountID: "cash",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	svc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing account", &ledger.MissingAccountError{TransactionID: "t", AccountID: "ghost"}, http.StatusBadRequest},
		{"validation", &ledger.ValidationError{Field: "toAccountID", Reason: "required for TRANSFER"}, http.StatusBadRequest},
		{"storage", errors.New("database unavailable"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockTransactionService)
			svc.On("CreateTransaction", mock.Anything, mock.Anything).Return("", tt.err)

			resp := newTestAPI(t, svc).Post("/v1/transaction", CreateTransactionBody{
				Type:      "TRANSFER",
				Amount:    "10.00",
				AccountID: "cash",
			})

			assert.Equal(t, tt.status, resp.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHTTP_DeleteTransaction(t *testing.T) {
	svc := new(mockTransactionService)
	svc.On("DeleteTransaction", mock.Anything, "t1").Return(nil)

	resp := newTestAPI(t, svc).Delete("/v1/transaction/t1")

	assert.Equal(t, http.StatusNoContent, resp.Code)
	svc.AssertExpectations(t)
}
