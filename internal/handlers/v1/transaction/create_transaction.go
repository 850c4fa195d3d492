package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/logging"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	Date        string `json:"date,omitempty" doc:"ISO-8601 date or date-time, defaults to now"`
	Type        string `json:"type" enum:"INCOME,EXPENSE,TRANSFER" doc:"Transaction type"`
	Amount      string `json:"amount" minLength:"1" doc:"Non-negative decimal amount"`
	AccountID   string `json:"accountID" minLength:"1" doc:"Source account ID"`
	ToAccountID string `json:"toAccountID,omitempty" doc:"Destination account ID, required for TRANSFER"`
	Category    string `json:"category,omitempty" doc:"Category; 'Adjustment' marks a balance correction"`
	Notes       string `json:"notes,omitempty" doc:"Free-form notes"`
	Fee         string `json:"fee,omitempty" doc:"Transfer fee charged to the source account"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionResponse is the response body for creating a transaction.
type CreateTransactionResponse struct {
	ID string `json:"id" doc:"Created transaction ID"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponse
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, tx ledger.Transaction) (string, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction",
		Summary:     "Create transaction",
		Description: "Records a transaction and applies it to the balances of the accounts it touches.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseCreateTransactionInput(input *CreateTransactionInput) (ledger.Transaction, error) {
	amount, err := ledger.ParseAmount("amount", input.Body.Amount)
	if err != nil {
		return ledger.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	fee, err := ledger.ParseAmount("fee", input.Body.Fee)
	if err != nil {
		return ledger.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid fee", err)
	}
	if input.Body.Date != "" {
		if _, err := ledger.ParseDate(input.Body.Date, nil); err != nil {
			return ledger.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
	}

	return ledger.Transaction{
		Date:        input.Body.Date,
		Type:        ledger.TransactionType(input.Body.Type),
		Amount:      amount,
		AccountID:   input.Body.AccountID,
		ToAccountID: input.Body.ToAccountID,
		Category:    input.Body.Category,
		Notes:       input.Body.Notes,
		Fee:         fee,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	tx, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createTransactionMs")
	}
	id, err := h.TransactionService.CreateTransaction(ctx, tx)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, common.Error(ctx, "failed to create transaction", err)
	}

	if logData != nil {
		logData.AddData("transactionID", id)
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   CreateTransactionResponse{ID: id},
	}, nil
}
