package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/logging"
)

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	Name            string `json:"name" minLength:"1" doc:"Account name"`
	Group           string `json:"group" enum:"Cash,Bank Accounts,Credit Cards,Investments,Loans" doc:"Account group"`
	Balance         string `json:"balance,omitempty" doc:"Opening balance (e.g. '0' or '-1234.56'), defaults to 0"`
	Currency        string `json:"currency,omitempty" doc:"Currency code"`
	IncludeInTotals bool   `json:"includeInTotals,omitempty" doc:"Whether the account counts towards household totals"`
	Owner           string `json:"owner,omitempty" doc:"husband, wife or empty when shared"`
}

// CreateAccountResponse is the response body for creating an account.
type CreateAccountResponse struct {
	ID string `json:"id" doc:"Created account ID"`
}

// CreateAccountOutput is the response for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   CreateAccountResponse
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, account ledger.Account) (string, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-account",
		Method:      http.MethodPost,
		Path:        "/v1/account",
		Summary:     "Create an account",
		Description: "Creates a new account with the given name, group, owner and opening balance.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func parseCreateAccountInput(input *CreateAccountInput) (ledger.Account, error) {
	balanceStr := input.Body.Balance
	if balanceStr == "" {
		balanceStr = "0"
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return ledger.Account{}, huma.NewError(http.StatusBadRequest, "invalid balance", err)
	}

	owner, err := ledger.ParseOwner(input.Body.Owner)
	if err != nil {
		return ledger.Account{}, huma.NewError(http.StatusBadRequest, "invalid owner", err)
	}

	return ledger.Account{
		Name:            input.Body.Name,
		Group:           ledger.AccountGroup(input.Body.Group),
		Balance:         balance,
		Currency:        input.Body.Currency,
		IncludeInTotals: input.Body.IncludeInTotals,
		Owner:           owner,
	}, nil
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	account, err := parseCreateAccountInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createAccountMs")
	}
	id, err := h.AccountService.CreateAccount(ctx, account)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, common.Error(ctx, "failed to create account", err)
	}

	if logData != nil {
		logData.AddData("accountID", id)
	}

	return &CreateAccountOutput{
		Status: http.StatusCreated,
		Body:   CreateAccountResponse{ID: id},
	}, nil
}
