package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
)

type DeleteTransactionInput struct {
	ID string `path:"id" doc:"Transaction ID"`
}

type DeleteTransactionOutput struct {
	Status int
}

type transactionDeleter interface {
	DeleteTransaction(ctx context.Context, id string) error
}

// DeleteTransactionHandler handles DELETE /v1/transaction/{id}.
type DeleteTransactionHandler struct {
	TransactionService transactionDeleter
}

func NewDeleteTransactionHandler(svc transactionDeleter) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{TransactionService: svc}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-transaction",
		Method:      http.MethodDelete,
		Path:        "/v1/transaction/{id}",
		Summary:     "Delete transaction",
		Description: "Deletes a transaction and reverts its effect on account balances.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	if err := h.TransactionService.DeleteTransaction(ctx, input.ID); err != nil {
		return nil, common.Error(ctx, "failed to delete transaction", err)
	}
	return &DeleteTransactionOutput{Status: http.StatusNoContent}, nil
}
