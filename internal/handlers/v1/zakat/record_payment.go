package zakat

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/logging"
)

type RecordPaymentInput struct {
	Owner string `path:"owner" enum:"husband,wife" doc:"Household member paying"`
	Body  struct {
		AccountID string `json:"accountID,omitempty" doc:"Account the payment is drawn from. Optional."`
	}
}

type RecordPaymentResponseBody struct {
	ID     string `json:"id" doc:"ID of the recorded expense transaction"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

type RecordPaymentOutput struct {
	Status int
	Body   RecordPaymentResponseBody
}

type paymentRecorder interface {
	RecordPayment(ctx context.Context, owner ledger.Owner, fundingAccountID string) (ledger.Transaction, error)
}

// RecordPaymentHandler handles POST /v1/zakat/{owner}/payment.
type RecordPaymentHandler struct {
	ZakatService paymentRecorder
}

func NewRecordPaymentHandler(svc paymentRecorder) *RecordPaymentHandler {
	return &RecordPaymentHandler{ZakatService: svc}
}

func (h *RecordPaymentHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "record-zakat-payment",
		Method:      http.MethodPost,
		Path:        "/v1/zakat/{owner}/payment",
		Summary:     "Record a Zakat payment",
		Description: "Records the amount currently due as a Zakat expense, drawn from the given account when one is supplied.",
		Tags:        []string{"Zakat"},
	}, h.handle)
}

func (h *RecordPaymentHandler) handle(ctx context.Context, input *RecordPaymentInput) (*RecordPaymentOutput, error) {
	owner, err := ledger.ParseOwner(input.Owner)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid owner", err)
	}

	tx, err := h.ZakatService.RecordPayment(ctx, owner, input.Body.AccountID)
	if err != nil {
		return nil, common.Error(ctx, "failed to record zakat payment", err)
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("transactionID", tx.ID)
	}
	return &RecordPaymentOutput{
		Status: http.StatusCreated,
		Body: RecordPaymentResponseBody{
			ID:     tx.ID,
			Amount: tx.Amount.StringFixed(2),
			Date:   tx.Date,
		},
	}, nil
}
