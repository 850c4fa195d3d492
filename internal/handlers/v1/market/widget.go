package market

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/market"
)

type GetWidgetOutput struct {
	Body market.Widget
}

type widgetSource interface {
	Widget() market.Widget
}

// GetWidgetHandler handles GET /v1/market/widget.
type GetWidgetHandler struct {
	MarketService widgetSource
}

func NewGetWidgetHandler(svc widgetSource) *GetWidgetHandler {
	return &GetWidgetHandler{MarketService: svc}
}

func (h *GetWidgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-market-widget",
		Method:      http.MethodGet,
		Path:        "/v1/market/widget",
		Summary:     "Gold chart widget",
		Description: "Symbol and range/interval pairs for the embedded gold chart.",
		Tags:        []string{"Market"},
	}, h.handle)
}

func (h *GetWidgetHandler) handle(_ context.Context, _ *struct{}) (*GetWidgetOutput, error) {
	return &GetWidgetOutput{Body: h.MarketService.Widget()}, nil
}
