// Package market fetches the gold spot price and describes the market chart widget.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FetchError reports a failed price fetch. It never reaches the history or zakat computations;
// callers fall back to the last known price.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// GoldPriceFetcher returns the gold spot price per gram.
type GoldPriceFetcher interface {
	FetchGoldPricePerGram(ctx context.Context) (decimal.Decimal, error)
}

// GoldClient reads a JSON document from a price API and extracts a numeric field.
type GoldClient struct {
	url        string
	apiKey     string
	field      string
	httpClient *http.Client
}

func NewGoldClient(url, apiKey, field string) *GoldClient {
	return &GoldClient{
		url:        strings.TrimSuffix(url, "/"),
		apiKey:     apiKey,
		field:      field,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *GoldClient) FetchGoldPricePerGram(ctx context.Context) (decimal.Decimal, error) {
	if c.url == "" {
		return decimal.Zero, &FetchError{Err: fmt.Errorf("gold price URL is not configured")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return decimal.Zero, &FetchError{URL: c.url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if c.apiKey != "" {
		req.Header.Set("x-access-token", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, &FetchError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return decimal.Zero, &FetchError{URL: c.url, StatusCode: resp.StatusCode}
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, &FetchError{URL: c.url, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	raw, ok := body[c.field]
	if !ok {
		return decimal.Zero, &FetchError{URL: c.url, Err: fmt.Errorf("field %q missing from response", c.field)}
	}

	var price decimal.Decimal
	if err := price.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, &FetchError{URL: c.url, Err: fmt.Errorf("field %q is not a number: %w", c.field, err)}
	}
	if !price.IsPositive() {
		return decimal.Zero, &FetchError{URL: c.url, Err: fmt.Errorf("field %q is not positive: %s", c.field, price)}
	}
	return price, nil
}
