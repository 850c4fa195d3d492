package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/table"
	"github.com/carson-networks/finance-tracker/internal/zakat"
)

// ZakatService evaluates zakat obligations against live balances and the cached gold price.
type ZakatService struct {
	storage   *storage.Storage
	operator  Processor
	market    *MarketService
	reminders zakat.Reminders
	notifier  zakat.Notifier
	loc       *time.Location
	now       func() time.Time
	logger    logrus.FieldLogger
}

func NewZakatService(
	store *storage.Storage,
	op Processor,
	market *MarketService,
	reminders zakat.Reminders,
	notifier zakat.Notifier,
	loc *time.Location,
	now func() time.Time,
	logger logrus.FieldLogger,
) *ZakatService {
	return &ZakatService{
		storage:   store,
		operator:  op,
		market:    market,
		reminders: reminders,
		notifier:  notifier,
		loc:       loc,
		now:       now,
		logger:    logger,
	}
}

// Assess evaluates the owner's obligation now.
func (s *ZakatService) Assess(ctx context.Context, owner ledger.Owner) (zakat.Assessment, error) {
	if owner == ledger.OwnerNone {
		return zakat.Assessment{}, &ledger.ValidationError{Field: "owner", Reason: "must be husband or wife"}
	}
	quote, err := s.market.GoldPrice(ctx)
	if err != nil {
		return zakat.Assessment{}, err
	}
	snap, err := s.storage.Load(ctx)
	if err != nil {
		return zakat.Assessment{}, err
	}
	return zakat.Evaluate(owner, snap.Accounts, snap.Transactions, quote.PricePerGram, s.now(), s.loc)
}

// RecordPayment pays the amount due from the funding account and returns the recorded expense.
func (s *ZakatService) RecordPayment(ctx context.Context, owner ledger.Owner, fundingAccountID string) (ledger.Transaction, error) {
	a, err := s.Assess(ctx, owner)
	if err != nil {
		return ledger.Transaction{}, err
	}

	var funding *ledger.Account
	if fundingAccountID != "" {
		funding, err = s.storage.Accounts.FindByID(ctx, fundingAccountID)
		if errors.Is(err, table.ErrNotFound) {
			return ledger.Transaction{}, &ledger.ValidationError{Field: "accountID", Reason: fmt.Sprintf("account %s does not exist", fundingAccountID)}
		}
		if err != nil {
			return ledger.Transaction{}, err
		}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("failed to generate transaction id: %w", err)
	}
	payment, err := zakat.NewPayment(a, id.String(), funding, s.now(), s.loc)
	if err != nil {
		return ledger.Transaction{}, err
	}
	if err := s.operator.Process(ctx, &actions.RecordZakatPayment{Payment: payment, Location: s.loc}); err != nil {
		return ledger.Transaction{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"owner":  owner,
		"amount": payment.Amount.String(),
	}).Info("ZakatService.RecordPayment.Recorded")
	return payment, nil
}

// SendReminders evaluates every owner and notifies each newly obligated one once per year.
// Failures for one owner do not stop the others.
func (s *ZakatService) SendReminders(ctx context.Context) error {
	if s.notifier == nil {
		return nil
	}
	year := s.now().In(s.loc).Year()

	var errs []error
	for _, owner := range ledger.Owners {
		a, err := s.Assess(ctx, owner)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to assess %s: %w", owner, err))
			continue
		}
		sent, err := zakat.NotifyOnce(ctx, a, year, s.reminders, s.notifier)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"owner": owner,
			"state": a.State,
			"sent":  sent,
		}).Info("ZakatService.SendReminders.Evaluated")
	}
	return errors.Join(errs...)
}
