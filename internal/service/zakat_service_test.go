package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/zakat"
)

func seedHousehold(t *testing.T, env *testEnv) {
	t.Helper()
	env.addAccount(t, ledger.Account{ID: "h-bank", Name: "His bank", Group: ledger.GroupBankAccounts, Balance: decimal.NewFromInt(20000), IncludeInTotals: true, Owner: ledger.OwnerHusband})
	env.addAccount(t, ledger.Account{ID: "w-cash", Name: "Her cash", Group: ledger.GroupCash, Balance: decimal.NewFromInt(100), IncludeInTotals: true, Owner: ledger.OwnerWife})
}

func TestZakatService_AssessAndPay(t *testing.T) {
	env := newTestEnv(t, decimal.NewFromInt(100), nil)
	seedHousehold(t, env)
	ctx := context.Background()

	a, err := env.svc.Zakat.Assess(ctx, ledger.OwnerHusband)
	require.NoError(t, err)
	assert.Equal(t, zakat.Obligated, a.State)
	assert.True(t, a.Due.Equal(decimal.NewFromInt(500)))

	_, err = env.svc.Zakat.RecordPayment(ctx, ledger.OwnerHusband, "w-cash")
	assert.True(t, ledger.IsValidation(err))
	_, err = env.svc.Zakat.RecordPayment(ctx, ledger.OwnerHusband, "")
	assert.True(t, ledger.IsValidation(err))
	_, err = env.svc.Zakat.RecordPayment(ctx, ledger.OwnerHusband, "ghost")
	assert.True(t, ledger.IsValidation(err))

	payment, err := env.svc.Zakat.RecordPayment(ctx, ledger.OwnerHusband, "h-bank")
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(500)))

	acc, err := env.svc.Account.GetAccount(ctx, "h-bank")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(19500)))

	a, err = env.svc.Zakat.Assess(ctx, ledger.OwnerHusband)
	require.NoError(t, err)
	assert.Equal(t, zakat.Paid, a.State)
	require.NotNil(t, a.NextHaulDate)
	assert.Equal(t, testToday.AddDate(0, 0, zakat.HaulDays), *a.NextHaulDate)

	_, err = env.svc.Zakat.RecordPayment(ctx, ledger.OwnerHusband, "h-bank")
	assert.True(t, ledger.IsValidation(err))
}

// barrierProcessor holds every Process call until n have arrived, so each caller has
// finished its assessment before any write is applied.
type barrierProcessor struct {
	next    Processor
	arrived sync.WaitGroup
}

func newBarrierProcessor(next Processor, n int) *barrierProcessor {
	b := &barrierProcessor{next: next}
	b.arrived.Add(n)
	return b
}

func (b *barrierProcessor) Process(ctx context.Context, action actions.IAction) error {
	b.arrived.Done()
	b.arrived.Wait()
	return b.next.Process(ctx, action)
}

func TestZakatService_ConcurrentPaymentsRecordOnce(t *testing.T) {
	env := newTestEnvWith(t, decimal.NewFromInt(100), nil, func(p Processor) Processor {
		return newBarrierProcessor(p, 2)
	})
	seedHousehold(t, env)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.Zakat.RecordPayment(ctx, ledger.OwnerHusband, "h-bank")
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case ledger.IsValidation(err):
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	txs, err := env.storage.Transactions.List(ctx, nil)
	require.NoError(t, err)
	var payments int
	for _, tx := range txs {
		if zakat.IsZakatPayment(tx) {
			payments++
		}
	}
	assert.Equal(t, 1, payments)

	acc, err := env.svc.Account.GetAccount(ctx, "h-bank")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(19500)), acc.Balance.String())
}

func TestZakatService_NoGoldPrice(t *testing.T) {
	env := newTestEnv(t, decimal.Zero, nil)
	seedHousehold(t, env)
	_, err := env.svc.Zakat.Assess(context.Background(), ledger.OwnerWife)
	assert.ErrorIs(t, err, zakat.ErrNoGoldPrice)
}

func TestZakatService_SendRemindersOncePerYear(t *testing.T) {
	notifier := new(mockNotifier)
	notifier.On("NotifyObligated", mock.Anything, mock.MatchedBy(func(a zakat.Assessment) bool {
		return a.Owner == ledger.OwnerHusband && a.State == zakat.Obligated
	})).Return(nil).Once()

	env := newTestEnv(t, decimal.NewFromInt(100), notifier)
	seedHousehold(t, env)

	require.NoError(t, env.svc.Zakat.SendReminders(context.Background()))
	require.NoError(t, env.svc.Zakat.SendReminders(context.Background()))
	notifier.AssertExpectations(t)
	notifier.AssertNumberOfCalls(t, "NotifyObligated", 1)
}

func TestZakatService_SendRemindersReportsFailures(t *testing.T) {
	notifier := new(mockNotifier)
	notifier.On("NotifyObligated", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	env := newTestEnv(t, decimal.NewFromInt(100), notifier)
	seedHousehold(t, env)

	err := env.svc.Zakat.SendReminders(context.Background())
	assert.ErrorContains(t, err, "broker down")
}
