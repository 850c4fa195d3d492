package history

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
	"github.com/carson-networks/finance-tracker/internal/history"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// GetHistoryInput selects the scope, period and chart granularity.
type GetHistoryInput struct {
	Scope  string `query:"scope" enum:"global,owner,account" doc:"global (default), owner or account"`
	ID     string `query:"id" doc:"Owner (husband, wife) or account ID for the owner and account scopes"`
	Period string `query:"period" enum:"day,week,month,year,lifetime,custom" doc:"Reporting period, default month"`
	Start  string `query:"start" doc:"Custom period start, YYYY-MM-DD"`
	End    string `query:"end" doc:"Custom period end, YYYY-MM-DD"`
	Bucket string `query:"bucket" enum:"day,week,month,year" doc:"Keep one point per bucket, default day"`
}

type GetHistoryResponseBody struct {
	Scope        string               `json:"scope" doc:"Scope the series was computed for"`
	Start        string               `json:"start" doc:"First day of the series"`
	End          string               `json:"end" doc:"Last day of the series"`
	CurrentTotal string               `json:"currentTotal" doc:"Live total of the scope"`
	Clamped      bool                 `json:"clamped,omitempty" doc:"Set when the range was shortened to the maximum length"`
	Points       []history.ChartPoint `json:"points" doc:"Totals at the end of each day, oldest first"`
	Issues       []string             `json:"issues,omitempty" doc:"Records excluded from the reconstruction"`
}

type GetHistoryOutput struct {
	Body GetHistoryResponseBody
}

type historyReader interface {
	Series(ctx context.Context, query service.HistoryQuery) (history.Series, error)
}

// GetHistoryHandler handles GET /v1/history.
type GetHistoryHandler struct {
	HistoryService historyReader
}

func NewGetHistoryHandler(svc historyReader) *GetHistoryHandler {
	return &GetHistoryHandler{HistoryService: svc}
}

func (h *GetHistoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-history",
		Method:      http.MethodGet,
		Path:        "/v1/history",
		Summary:     "Balance history",
		Description: "Reconstructs the total of a scope at the end of every day in the period from current balances and the transaction log.",
		Tags:        []string{"History"},
	}, h.handle)
}

func (h *GetHistoryHandler) handle(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error) {
	logData := logging.GetLogData(ctx)

	scope, err := common.ParseScope(input.Scope, input.ID)
	if err != nil {
		return nil, err
	}
	kind, custom, err := common.ParsePeriod(input.Period, input.Start, input.End)
	if err != nil {
		return nil, err
	}
	bucket, err := common.ParseBucket(input.Bucket)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("reconstructMs")
	}
	series, err := h.HistoryService.Series(ctx, service.HistoryQuery{Scope: scope, Period: kind, Custom: custom})
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, common.Error(ctx, "failed to reconstruct history", err)
	}

	if logData != nil {
		logData.AddData("scope", scope.String())
		logData.AddData("points", len(series.Points))
	}

	resp := GetHistoryResponseBody{
		Scope:        scope.String(),
		Start:        series.Range.Start.Format(time.DateOnly),
		End:          series.Range.End.Format(time.DateOnly),
		CurrentTotal: series.CurrentTotal.StringFixed(2),
		Clamped:      series.Clamped,
		Points:       history.ToChart(history.Downsample(series.Points, bucket), bucket),
	}
	for _, issue := range series.Issues {
		resp.Issues = append(resp.Issues, issue.Error())
	}
	return &GetHistoryOutput{Body: resp}, nil
}
