package report

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/analytics"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
	"github.com/carson-networks/finance-tracker/internal/history"
	"github.com/carson-networks/finance-tracker/internal/service"
)

type GetGrowthInput struct {
	Scope  string `query:"scope" enum:"global,owner,account" doc:"global (default), owner or account"`
	ID     string `query:"id" doc:"Owner or account ID for the owner and account scopes"`
	Period string `query:"period" enum:"day,week,month,year,lifetime,custom" doc:"Reporting period, default month"`
	Start  string `query:"start" doc:"Custom period start, YYYY-MM-DD"`
	End    string `query:"end" doc:"Custom period end, YYYY-MM-DD"`
}

type GrowthPoint struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type GetGrowthResponseBody struct {
	Scope   string       `json:"scope"`
	Empty   bool         `json:"empty,omitempty" doc:"Set when the period has no days to measure"`
	Start   *GrowthPoint `json:"start,omitempty"`
	End     *GrowthPoint `json:"end,omitempty"`
	Peak    *GrowthPoint `json:"peak,omitempty"`
	Trough  *GrowthPoint `json:"trough,omitempty"`
	Change  string       `json:"change,omitempty"`
	Percent *string      `json:"percent,omitempty" doc:"Omitted when the starting total is zero"`
	Issues  []string     `json:"issues,omitempty"`
}

type GetGrowthOutput struct {
	Body GetGrowthResponseBody
}

type growthReader interface {
	Growth(ctx context.Context, query service.HistoryQuery) (analytics.Growth, history.Series, bool, error)
}

// GetGrowthHandler handles GET /v1/report/growth.
type GetGrowthHandler struct {
	ReportService growthReader
}

func NewGetGrowthHandler(svc growthReader) *GetGrowthHandler {
	return &GetGrowthHandler{ReportService: svc}
}

func (h *GetGrowthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-report-growth",
		Method:      http.MethodGet,
		Path:        "/v1/report/growth",
		Summary:     "Asset growth",
		Description: "Measures how the reconstructed total of a scope changed over the period.",
		Tags:        []string{"Reports"},
	}, h.handle)
}

func (h *GetGrowthHandler) handle(ctx context.Context, input *GetGrowthInput) (*GetGrowthOutput, error) {
	scope, err := common.ParseScope(input.Scope, input.ID)
	if err != nil {
		return nil, err
	}
	kind, custom, err := common.ParsePeriod(input.Period, input.Start, input.End)
	if err != nil {
		return nil, err
	}

	g, series, ok, err := h.ReportService.Growth(ctx, service.HistoryQuery{Scope: scope, Period: kind, Custom: custom})
	if err != nil {
		return nil, common.Error(ctx, "failed to measure growth", err)
	}

	body := GetGrowthResponseBody{Scope: scope.String(), Empty: !ok}
	for _, issue := range series.Issues {
		body.Issues = append(body.Issues, issue.Error())
	}
	if !ok {
		return &GetGrowthOutput{Body: body}, nil
	}
	body.Start = growthPoint(g.Start)
	body.End = growthPoint(g.End)
	body.Peak = growthPoint(g.Peak)
	body.Trough = growthPoint(g.Trough)
	body.Change = g.Change.StringFixed(2)
	if g.Percent != nil {
		pct := g.Percent.StringFixed(2)
		body.Percent = &pct
	}
	return &GetGrowthOutput{Body: body}, nil
}

func growthPoint(p history.Point) *GrowthPoint {
	return &GrowthPoint{Date: p.Date.Format(time.DateOnly), Value: p.Value.StringFixed(2)}
}
