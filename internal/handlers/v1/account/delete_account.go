package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
)

type DeleteAccountInput struct {
	ID string `path:"id" doc:"Account ID"`
}

type DeleteAccountOutput struct {
	Status int
}

type accountDeleter interface {
	DeleteAccount(ctx context.Context, id string) error
}

// DeleteAccountHandler handles DELETE /v1/account/{id}.
type DeleteAccountHandler struct {
	AccountService accountDeleter
}

func NewDeleteAccountHandler(svc accountDeleter) *DeleteAccountHandler {
	return &DeleteAccountHandler{AccountService: svc}
}

func (h *DeleteAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-account",
		Method:      http.MethodDelete,
		Path:        "/v1/account/{id}",
		Summary:     "Delete an account",
		Description: "Deletes an account. Accounts still referenced by transactions are rejected.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *DeleteAccountHandler) handle(ctx context.Context, input *DeleteAccountInput) (*DeleteAccountOutput, error) {
	if err := h.AccountService.DeleteAccount(ctx, input.ID); err != nil {
		return nil, common.Error(ctx, "failed to delete account", err)
	}
	return &DeleteAccountOutput{Status: http.StatusNoContent}, nil
}
