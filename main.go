package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/carson-networks/finance-tracker/api"
	"github.com/carson-networks/finance-tracker/internal/config"
	"github.com/carson-networks/finance-tracker/internal/identity"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/market"
	"github.com/carson-networks/finance-tracker/internal/notify"
	"github.com/carson-networks/finance-tracker/internal/operator"
	"github.com/carson-networks/finance-tracker/internal/scheduler"
	"github.com/carson-networks/finance-tracker/internal/service"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
	"github.com/carson-networks/finance-tracker/internal/zakat"
)

func main() {
	app := &cli.App{
		Name:  "finance-tracker",
		Usage: "household accounts, balance history and zakat",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and the scheduled jobs",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending postgres migrations",
				Action: migrate,
			},
			historyCommand,
		},
		DefaultCommand: "serve",
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		logrus.WithError(err).Fatal("finance-tracker")
	}
}

// deps bundles what every command needs.
type deps struct {
	env     *config.Config
	logger  *logrus.Logger
	storage *storage.Storage
	op      *operator.OperatorDelegator
	prices  *market.PriceCache
}

func setup(ctx context.Context) (*deps, error) {
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return nil, fmt.Errorf("config.ProcessEnvironmentVariables: %w", err)
	}
	logger := logging.SetupLogging(env.LogLevel)

	store, err := storage.Open(ctx, env)
	if err != nil {
		return nil, err
	}
	op := operator.NewOperatorDelegator(store, env.OperatorWorkers, logger)
	op.Start()

	fetcher := market.NewGoldClient(env.GoldPriceURL, env.GoldPriceAPIKey, env.GoldPriceField)
	return &deps{
		env:     env,
		logger:  logger,
		storage: store,
		op:      op,
		prices:  market.NewPriceCache(fetcher, env.GoldFallback(), logger),
	}, nil
}

func (a *deps) close() {
	a.op.Stop()
	if err := a.storage.Close(); err != nil {
		a.logger.WithError(err).Warn("Storage.Close.Error")
	}
}

func (a *deps) services(notifier zakat.Notifier) (*service.Service, error) {
	return service.NewService(a.storage, a.op, service.Options{
		Location:         a.env.Location(),
		HistoryCacheSize: a.env.HistoryCacheSize,
		Prices:           a.prices,
		Notifier:         notifier,
		Logger:           a.logger,
	})
}

type closingNotifier interface {
	zakat.Notifier
	Close() error
}

func newNotifier(env *config.Config, logger logrus.FieldLogger) closingNotifier {
	if env.AMQPURL == "" {
		return notify.NewLogNotifier(logger)
	}
	n, err := notify.DialAMQP(env.AMQPURL, env.AMQPExchange, logger)
	if err != nil {
		logger.WithError(err).Warn("Notify.DialAMQP.FallingBackToLog")
		return notify.NewLogNotifier(logger)
	}
	return n
}

func serve(c *cli.Context) error {
	a, err := setup(c.Context)
	if err != nil {
		return err
	}
	defer a.close()
	a.logger.Info("finance-tracker starting")

	notifier := newNotifier(a.env, a.logger)
	defer notifier.Close()

	svc, err := a.services(notifier)
	if err != nil {
		return err
	}

	jobs := scheduler.New(a.logger, a.env.Location())
	if err := jobs.Add("gold-refresh", a.env.GoldRefreshSchedule, svc.Market.Refresh); err != nil {
		return err
	}
	if err := jobs.Add("zakat-reminders", a.env.ZakatCheckSchedule, svc.Zakat.SendReminders); err != nil {
		return err
	}
	if err := svc.Market.Refresh(c.Context); err != nil {
		a.logger.WithError(err).Warn("Market.Refresh.Startup")
	}
	jobs.Start()
	defer jobs.Stop()

	sessions := identity.NewSessions(a.env.JWTSecret)
	if !sessions.Enabled() {
		a.logger.Warn("Identity.Sessions.Disabled: JWT_SECRET is empty, bearer tokens will be refused")
	}

	rest := api.Rest{
		Logger:         a.logger,
		Port:           a.env.Port,
		Service:        svc,
		Storage:        a.storage,
		Sessions:       sessions,
		AllowedOrigins: a.env.AllowedOrigins(),
	}
	return rest.Serve(c.Context)
}

func migrate(c *cli.Context) error {
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return fmt.Errorf("config.ProcessEnvironmentVariables: %w", err)
	}
	logger := logging.SetupLogging(env.LogLevel)

	db, err := sqlconfig.Open(c.Context, env.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := sqlconfig.RunMigrations(db.SQL())
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"preMigrationVersion":  result.PreVersion,
		"postMigrationVersion": result.PostVersion,
	}).Info("Migration status")
	return nil
}
