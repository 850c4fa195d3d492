package market

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
	"github.com/carson-networks/finance-tracker/internal/market"
)

type GetGoldPriceResponseBody struct {
	PricePerGram string `json:"pricePerGram" doc:"24k gold price per gram"`
	Stale        bool   `json:"stale" doc:"Set when the last refresh failed or the value is the configured fallback"`
	FetchedAt    string `json:"fetchedAt,omitempty" doc:"When the price was fetched, RFC 3339. Empty for the fallback."`
}

type GetGoldPriceOutput struct {
	Body GetGoldPriceResponseBody
}

type goldPricer interface {
	GoldPrice(ctx context.Context) (market.Quote, error)
}

// GetGoldPriceHandler handles GET /v1/market/gold.
type GetGoldPriceHandler struct {
	MarketService goldPricer
}

func NewGetGoldPriceHandler(svc goldPricer) *GetGoldPriceHandler {
	return &GetGoldPriceHandler{MarketService: svc}
}

func (h *GetGoldPriceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-gold-price",
		Method:      http.MethodGet,
		Path:        "/v1/market/gold",
		Summary:     "Current gold price",
		Description: "Returns the last known gold price used for the nisab.",
		Tags:        []string{"Market"},
	}, h.handle)
}

func (h *GetGoldPriceHandler) handle(ctx context.Context, _ *struct{}) (*GetGoldPriceOutput, error) {
	q, err := h.MarketService.GoldPrice(ctx)
	if err != nil {
		return nil, common.Error(ctx, "gold price unavailable", err)
	}
	body := GetGoldPriceResponseBody{
		PricePerGram: q.PricePerGram.StringFixed(2),
		Stale:        q.Stale,
	}
	if !q.FetchedAt.IsZero() {
		body.FetchedAt = q.FetchedAt.Format(time.RFC3339)
	}
	return &GetGoldPriceOutput{Body: body}, nil
}
