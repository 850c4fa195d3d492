package common

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/history"
	"github.com/carson-networks/finance-tracker/internal/period"
)

// ParsePeriod reads the period query parameters. Start and end without a period select a
// custom range.
func ParsePeriod(kind, start, end string) (period.Kind, *period.Range, error) {
	if kind == "" && (start != "" || end != "") {
		kind = string(period.KindCustom)
	}
	k, err := period.ParseKind(kind)
	if err != nil {
		return "", nil, huma.NewError(http.StatusBadRequest, "invalid period", err)
	}
	if k != period.KindCustom {
		return k, nil, nil
	}
	if start == "" || end == "" {
		return "", nil, huma.NewError(http.StatusBadRequest, "custom period requires start and end")
	}
	custom, err := period.ParseDates(start, end)
	if err != nil {
		return "", nil, huma.NewError(http.StatusBadRequest, "invalid custom period", err)
	}
	return k, custom, nil
}

func ParseBucket(bucket string) (period.Bucket, error) {
	b, err := period.ParseBucket(bucket)
	if err != nil {
		return "", huma.NewError(http.StatusBadRequest, "invalid bucket", err)
	}
	return b, nil
}

func ParseScope(kind, value string) (history.Scope, error) {
	scope, err := history.ParseScope(kind, value)
	if err != nil {
		return history.Scope{}, huma.NewError(http.StatusBadRequest, "invalid scope", err)
	}
	return scope, nil
}
