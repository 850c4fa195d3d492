package report

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/period"
	"github.com/carson-networks/finance-tracker/internal/service"
)

type GetSummaryInput struct {
	Period string `query:"period" enum:"day,week,month,year,lifetime,custom" doc:"Reporting period, default month"`
	Start  string `query:"start" doc:"Custom period start, YYYY-MM-DD"`
	End    string `query:"end" doc:"Custom period end, YYYY-MM-DD"`
	Bucket string `query:"bucket" enum:"day,week,month,year" doc:"Grouping of the bucket totals, default day"`
}

type CategoryTotal struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Percent  string `json:"percent" doc:"Share of categorized expense"`
	Count    int    `json:"count"`
}

type BucketTotal struct {
	Start   string `json:"start"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

type GetSummaryResponseBody struct {
	Start     string          `json:"start"`
	End       string          `json:"end"`
	Income    string          `json:"income"`
	Expense   string          `json:"expense"`
	Net       string          `json:"net"`
	Breakdown []CategoryTotal `json:"breakdown"`
	Buckets   []BucketTotal   `json:"buckets"`
	Issues    []string        `json:"issues,omitempty"`
}

type GetSummaryOutput struct {
	Body GetSummaryResponseBody
}

type summarizer interface {
	Summary(ctx context.Context, kind period.Kind, custom *period.Range, bucket period.Bucket) (service.Report, error)
}

// GetSummaryHandler handles GET /v1/report/summary.
type GetSummaryHandler struct {
	ReportService summarizer
}

func NewGetSummaryHandler(svc summarizer) *GetSummaryHandler {
	return &GetSummaryHandler{ReportService: svc}
}

func (h *GetSummaryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-report-summary",
		Method:      http.MethodGet,
		Path:        "/v1/report/summary",
		Summary:     "Income and expense summary",
		Description: "Totals income and expense over the period with a per-category breakdown and bucketed totals.",
		Tags:        []string{"Reports"},
	}, h.handle)
}

func (h *GetSummaryHandler) handle(ctx context.Context, input *GetSummaryInput) (*GetSummaryOutput, error) {
	kind, custom, err := common.ParsePeriod(input.Period, input.Start, input.End)
	if err != nil {
		return nil, err
	}
	bucket, err := common.ParseBucket(input.Bucket)
	if err != nil {
		return nil, err
	}

	report, err := h.ReportService.Summary(ctx, kind, custom, bucket)
	if err != nil {
		return nil, common.Error(ctx, "failed to build summary", err)
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("period", string(kind))
	}

	s := report.Summary
	body := GetSummaryResponseBody{
		Start:     s.Range.Start.Format(time.DateOnly),
		End:       s.Range.End.Format(time.DateOnly),
		Income:    s.Income.StringFixed(2),
		Expense:   s.Expense.StringFixed(2),
		Net:       s.Net.StringFixed(2),
		Breakdown: make([]CategoryTotal, 0, len(s.Breakdown)),
		Buckets:   make([]BucketTotal, 0, len(report.Buckets)),
	}
	for _, ct := range s.Breakdown {
		body.Breakdown = append(body.Breakdown, CategoryTotal{
			Category: ct.Category,
			Amount:   ct.Amount.StringFixed(2),
			Percent:  ct.Percent.StringFixed(2),
			Count:    ct.Count,
		})
	}
	for _, b := range report.Buckets {
		body.Buckets = append(body.Buckets, BucketTotal{
			Start:   b.Start.Format(time.DateOnly),
			Income:  b.Income.StringFixed(2),
			Expense: b.Expense.StringFixed(2),
		})
	}
	for _, issue := range s.Issues {
		body.Issues = append(body.Issues, issue.Error())
	}
	return &GetSummaryOutput{Body: body}, nil
}
