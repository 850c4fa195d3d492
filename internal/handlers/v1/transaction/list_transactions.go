package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// ListTransactionsCursor represents a pagination cursor in request and response bodies.
// It carries the data version of the first page so later pages can report changes.
type ListTransactionsCursor struct {
	Position int    `json:"position" minimum:"0" doc:"Numeric offset position for the next page"`
	Limit    int    `json:"limit" minimum:"1" maximum:"100" doc:"Page size used for this cursor"`
	Version  uint64 `json:"version" doc:"Data version the first page was read at"`
}

// ListTransactionsBody is the request body for listing transactions.
type ListTransactionsBody struct {
	AccountID string                  `json:"accountID,omitempty" doc:"Only list transactions touching this account"`
	Period    string                  `json:"period,omitempty" enum:"day,week,month,year,lifetime,custom" doc:"Reporting period; all transactions when empty"`
	Start     string                  `json:"start,omitempty" doc:"Custom period start, YYYY-MM-DD"`
	End       string                  `json:"end,omitempty" doc:"Custom period end, YYYY-MM-DD"`
	Cursor    *ListTransactionsCursor `json:"cursor,omitempty" doc:"Cursor from a previous response to fetch the next page"`
}

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	Body ListTransactionsBody
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction           `json:"transactions" doc:"Page of transactions, newest first"`
	NextCursor   *ListTransactionsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
	Stale        bool                    `json:"stale,omitempty" doc:"Set when data changed since the cursor was issued"`
	Issues       []string                `json:"issues,omitempty" doc:"Records whose date could not be read"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, query service.TransactionQuery, cursor *service.TransactionCursor) (*service.TransactionPage, error)
}

// ListTransactionsHandler handles POST /v1/transaction/list.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/list",
		Summary:     "List transactions",
		Description: "Returns a paginated list of transactions, newest first, using cursor-based pagination.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput parses and validates the API input. Without a cursor the service
// uses its default limit.
func parseListTransactionsInput(input *ListTransactionsInput) (service.TransactionQuery, *service.TransactionCursor, error) {
	var query service.TransactionQuery
	if input.Body.AccountID != "" {
		id := input.Body.AccountID
		query.AccountID = &id
	}
	if input.Body.Period != "" || input.Body.Start != "" || input.Body.End != "" {
		kind, custom, err := common.ParsePeriod(input.Body.Period, input.Body.Start, input.Body.End)
		if err != nil {
			return service.TransactionQuery{}, nil, err
		}
		query.Period = kind
		query.Custom = custom
	}

	if input.Body.Cursor == nil {
		return query, nil, nil
	}
	if input.Body.Cursor.Position < 0 {
		return service.TransactionQuery{}, nil, huma.NewError(http.StatusBadRequest, "cursor position must be non-negative")
	}
	return query, &service.TransactionCursor{
		Position: input.Body.Cursor.Position,
		Limit:    input.Body.Cursor.Limit,
		Version:  input.Body.Cursor.Version,
	}, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)
	query, requestCursor, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	page, err := h.TransactionService.ListTransactions(ctx, query, requestCursor)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, common.Error(ctx, "failed to list transactions", err)
	}

	if logData != nil {
		logData.AddData("transactionCount", len(page.Transactions))
	}

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(page.Transactions)),
		Stale:        page.Stale,
	}
	for i, tx := range page.Transactions {
		resp.Transactions[i] = fromLedger(tx)
	}
	for _, issue := range page.Issues {
		resp.Issues = append(resp.Issues, issue.Error())
	}
	if page.Next != nil {
		resp.NextCursor = &ListTransactionsCursor{
			Position: page.Next.Position,
			Limit:    page.Next.Limit,
			Version:  page.Next.Version,
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
