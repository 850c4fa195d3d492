// Package common holds helpers shared by the v1 handlers.
package common

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/identity"
	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/period"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
	"github.com/carson-networks/finance-tracker/internal/zakat"
)

// StatusOf maps a service error to an HTTP status.
func StatusOf(err error) int {
	var (
		validation *ledger.ValidationError
		parse      *ledger.ParseError
		missing    *ledger.MissingAccountError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &parse), errors.As(err, &missing), errors.Is(err, period.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, table.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, identity.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, zakat.ErrNoGoldPrice):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error records err on the request log and converts it into a huma error.
func Error(ctx context.Context, msg string, err error) error {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.SetError(err)
	}
	return huma.NewError(StatusOf(err), msg, err)
}
