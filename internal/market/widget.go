package market

import (
	"fmt"
	"strings"
)

// RangeInterval is one selectable chart span, e.g. range "1M" sampled every "1D".
type RangeInterval struct {
	Range    string `json:"range"`
	Interval string `json:"interval"`
}

func (ri RangeInterval) String() string {
	return ri.Range + "|" + ri.Interval
}

// ParseRangeInterval parses the "range|interval" form.
func ParseRangeInterval(s string) (RangeInterval, error) {
	r, i, ok := strings.Cut(strings.TrimSpace(s), "|")
	if !ok || r == "" || i == "" {
		return RangeInterval{}, fmt.Errorf("invalid range interval %q, want RANGE|INTERVAL", s)
	}
	return RangeInterval{Range: r, Interval: i}, nil
}

// Widget is the contract handed to the chart widget. Nothing here is computed.
type Widget struct {
	Symbol string          `json:"symbol"`
	Ranges []RangeInterval `json:"ranges"`
}

// DefaultGoldWidget is the gold chart shown next to the zakat assessment.
func DefaultGoldWidget() Widget {
	return Widget{
		Symbol: "OANDA:XAUUSD",
		Ranges: []RangeInterval{
			{Range: "1D", Interval: "15"},
			{Range: "1M", Interval: "1D"},
			{Range: "12M", Interval: "1W"},
			{Range: "60M", Interval: "1M"},
		},
	}
}

// NewWidget builds a widget from "range|interval" pairs.
func NewWidget(symbol string, pairs []string) (Widget, error) {
	if symbol == "" {
		return Widget{}, fmt.Errorf("widget symbol must not be empty")
	}
	w := Widget{Symbol: symbol}
	for _, p := range pairs {
		ri, err := ParseRangeInterval(p)
		if err != nil {
			return Widget{}, err
		}
		w.Ranges = append(w.Ranges, ri)
	}
	return w, nil
}
