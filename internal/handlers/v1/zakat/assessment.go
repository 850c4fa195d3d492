package zakat

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/zakat"
)

type GetAssessmentInput struct {
	Owner string `path:"owner" enum:"husband,wife" doc:"Household member to assess"`
}

type Payment struct {
	TransactionID string `json:"transactionID"`
	AccountID     string `json:"accountID"`
	Amount        string `json:"amount"`
	Date          string `json:"date" doc:"Day the payment was made, YYYY-MM-DD"`
}

type GetAssessmentResponseBody struct {
	Owner            string   `json:"owner"`
	State            string   `json:"state" enum:"NOT_OBLIGATED,OBLIGATED,PAID"`
	GoldPricePerGram string   `json:"goldPricePerGram"`
	Nisab            string   `json:"nisab" doc:"Value of 85 grams of gold"`
	Wealth           string   `json:"wealth" doc:"Sum of the owner's included balances"`
	Due              string   `json:"due" doc:"2.5% of wealth when obligated"`
	HaulStart        string   `json:"haulStart" doc:"Start of the lookback window for payments"`
	Payment          *Payment `json:"payment,omitempty" doc:"Qualifying payment inside the window"`
	NextHaulDate     string   `json:"nextHaulDate,omitempty" doc:"Day the next assessment is due after a payment"`
	Issues           []string `json:"issues,omitempty"`
}

type GetAssessmentOutput struct {
	Body GetAssessmentResponseBody
}

type assessor interface {
	Assess(ctx context.Context, owner ledger.Owner) (zakat.Assessment, error)
}

// GetAssessmentHandler handles GET /v1/zakat/{owner}.
type GetAssessmentHandler struct {
	ZakatService assessor
}

func NewGetAssessmentHandler(svc assessor) *GetAssessmentHandler {
	return &GetAssessmentHandler{ZakatService: svc}
}

func (h *GetAssessmentHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-zakat-assessment",
		Method:      http.MethodGet,
		Path:        "/v1/zakat/{owner}",
		Summary:     "Zakat assessment",
		Description: "Compares the owner's wealth with the gold nisab and reports whether Zakat Mal is due, paid or not obligated.",
		Tags:        []string{"Zakat"},
	}, h.handle)
}

func (h *GetAssessmentHandler) handle(ctx context.Context, input *GetAssessmentInput) (*GetAssessmentOutput, error) {
	owner, err := ledger.ParseOwner(input.Owner)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid owner", err)
	}

	a, err := h.ZakatService.Assess(ctx, owner)
	if err != nil {
		return nil, common.Error(ctx, "failed to assess zakat", err)
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("owner", string(owner))
		logData.AddData("state", string(a.State))
	}
	return &GetAssessmentOutput{Body: fromAssessment(a)}, nil
}

func fromAssessment(a zakat.Assessment) GetAssessmentResponseBody {
	body := GetAssessmentResponseBody{
		Owner:            string(a.Owner),
		State:            string(a.State),
		GoldPricePerGram: a.GoldPricePerGram.StringFixed(2),
		Nisab:            a.Nisab.StringFixed(2),
		Wealth:           a.Wealth.StringFixed(2),
		Due:              a.Due.StringFixed(2),
		HaulStart:        a.HaulStart.Format(time.DateOnly),
	}
	if a.Payment != nil {
		body.Payment = &Payment{
			TransactionID: a.Payment.TransactionID,
			AccountID:     a.Payment.AccountID,
			Amount:        a.Payment.Amount.StringFixed(2),
			Date:          a.Payment.Date.Format(time.DateOnly),
		}
	}
	if a.NextHaulDate != nil {
		body.NextHaulDate = a.NextHaulDate.Format(time.DateOnly)
	}
	for _, issue := range a.Issues {
		body.Issues = append(body.Issues, issue.Error())
	}
	return body
}
