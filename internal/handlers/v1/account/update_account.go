package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
)

// UpdateAccountBody holds the editable account attributes. The balance only changes through
// transactions; record an Adjustment to correct it.
type UpdateAccountBody struct {
	Name            string `json:"name" minLength:"1" doc:"Account name"`
	Group           string `json:"group" enum:"Cash,Bank Accounts,Credit Cards,Investments,Loans" doc:"Account group"`
	Currency        string `json:"currency,omitempty" doc:"Currency code"`
	IncludeInTotals bool   `json:"includeInTotals,omitempty" doc:"Whether the account counts towards household totals"`
	Owner           string `json:"owner,omitempty" doc:"husband, wife or empty when shared"`
}

type UpdateAccountInput struct {
	ID   string `path:"id" doc:"Account ID"`
	Body UpdateAccountBody
}

type UpdateAccountOutput struct {
	Status int
}

type accountUpdater interface {
	UpdateAccount(ctx context.Context, update actions.UpdateAccount) error
}

// UpdateAccountHandler handles PUT /v1/account/{id}.
type UpdateAccountHandler struct {
	AccountService accountUpdater
}

func NewUpdateAccountHandler(svc accountUpdater) *UpdateAccountHandler {
	return &UpdateAccountHandler{AccountService: svc}
}

func (h *UpdateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-account",
		Method:      http.MethodPut,
		Path:        "/v1/account/{id}",
		Summary:     "Update an account",
		Description: "Replaces the name, group, currency, owner and inclusion flag of an account.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *UpdateAccountHandler) handle(ctx context.Context, input *UpdateAccountInput) (*UpdateAccountOutput, error) {
	owner, err := ledger.ParseOwner(input.Body.Owner)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid owner", err)
	}

	err = h.AccountService.UpdateAccount(ctx, actions.UpdateAccount{
		ID:              input.ID,
		Name:            input.Body.Name,
		Group:           ledger.AccountGroup(input.Body.Group),
		Currency:        input.Body.Currency,
		IncludeInTotals: input.Body.IncludeInTotals,
		Owner:           owner,
	})
	if err != nil {
		return nil, common.Error(ctx, "failed to update account", err)
	}
	return &UpdateAccountOutput{Status: http.StatusNoContent}, nil
}
