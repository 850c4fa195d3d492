package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/account"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/history"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/market"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/report"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/session"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/status"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/transaction"
	"github.com/carson-networks/finance-tracker/internal/handlers/v1/zakat"
	"github.com/carson-networks/finance-tracker/internal/identity"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/service"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type Rest struct {
	Logger         *logrus.Logger
	Port           string
	Service        *service.Service
	Storage        *storage.Storage
	Sessions       *identity.Sessions
	AllowedOrigins []string
}

type registrar interface {
	Register(api huma.API)
}

// Router builds the chi router with every v1 operation mounted on it.
func (r *Rest) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: r.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	api := humachi.New(router, huma.DefaultConfig("Finance Tracker", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))
	api.UseMiddleware(r.Sessions.Middleware(api))

	svc := r.Service
	handlers := []registrar{
		status.NewHandler(r.Storage),

		account.NewCreateAccountHandler(svc.Account),
		account.NewListAccountsHandler(svc.Account),
		account.NewUpdateAccountHandler(svc.Account),
		account.NewDeleteAccountHandler(svc.Account),

		transaction.NewCreateTransactionHandler(svc.Transaction),
		transaction.NewListTransactionsHandler(svc.Transaction),
		transaction.NewDeleteTransactionHandler(svc.Transaction),

		history.NewGetHistoryHandler(svc.History),

		zakat.NewGetAssessmentHandler(svc.Zakat),
		zakat.NewRecordPaymentHandler(svc.Zakat),

		report.NewGetSummaryHandler(svc.Report),
		report.NewGetGrowthHandler(svc.Report),

		market.NewGetGoldPriceHandler(svc.Market),
		market.NewGetWidgetHandler(svc.Market),

		session.NewGetSessionHandler(),
		session.NewSignOutHandler(r.Sessions),
	}
	for _, h := range handlers {
		h.Register(api)
	}
	return router
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Router(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
