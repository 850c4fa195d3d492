package zakat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/ledger"
)

var (
	now   = time.Date(2025, 7, 16, 9, 0, 0, 0, time.UTC)
	today = time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)
	gold  = decimal.NewFromInt(100)
)

func accountsWith(balance decimal.Decimal) []ledger.Account {
	return []ledger.Account{
		{ID: "h-bank", Balance: balance, IncludeInTotals: true, Owner: ledger.OwnerHusband},
		{ID: "h-hidden", Balance: decimal.NewFromInt(1000000), IncludeInTotals: false, Owner: ledger.OwnerHusband},
		{ID: "w-bank", Balance: decimal.NewFromInt(999999), IncludeInTotals: true, Owner: ledger.OwnerWife},
	}
}

func TestEvaluate_ThresholdIsInclusive(t *testing.T) {
	a, err := Evaluate(ledger.OwnerHusband, accountsWith(decimal.NewFromInt(8500)), nil, gold, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, Obligated, a.State)
	assert.True(t, a.Nisab.Equal(decimal.NewFromInt(8500)))
	assert.True(t, a.Due.Equal(decimal.RequireFromString("212.5")))

	a, err = Evaluate(ledger.OwnerHusband, accountsWith(decimal.NewFromInt(8499)), nil, gold, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, NotObligated, a.State)
	assert.True(t, a.Due.IsZero())
}

func TestEvaluate_RequiresGoldPrice(t *testing.T) {
	_, err := Evaluate(ledger.OwnerHusband, accountsWith(decimal.NewFromInt(1)), nil, decimal.Zero, now, time.UTC)
	assert.ErrorIs(t, err, ErrNoGoldPrice)

	_, err = Evaluate(ledger.OwnerNone, nil, nil, gold, now, time.UTC)
	assert.True(t, ledger.IsValidation(err))
}

func TestEvaluate_PaymentTodayIsPaid(t *testing.T) {
	accounts := accountsWith(decimal.NewFromInt(20000))
	a, err := Evaluate(ledger.OwnerHusband, accounts, nil, gold, now, time.UTC)
	require.NoError(t, err)
	require.Equal(t, Obligated, a.State)

	tx, err := NewPayment(a, "pay-1", &accounts[0], now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, ledger.Expense, tx.Type)
	assert.Equal(t, ledger.CategoryZakat, tx.Category)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(500)))

	a, err = Evaluate(ledger.OwnerHusband, accounts, []ledger.Transaction{tx}, gold, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, Paid, a.State)
	require.NotNil(t, a.Payment)
	assert.True(t, a.Payment.Amount.Equal(tx.Amount))
	require.NotNil(t, a.NextHaulDate)
	assert.Equal(t, today.AddDate(0, 0, HaulDays), *a.NextHaulDate)
}

func TestEvaluate_PaymentWindow(t *testing.T) {
	accounts := accountsWith(decimal.NewFromInt(20000))
	payment := func(id, date, account string) ledger.Transaction {
		return ledger.Transaction{ID: id, Date: date, Type: ledger.Expense, Amount: decimal.NewFromInt(10), AccountID: account, Category: "zakat mal"}
	}

	tests := []struct {
		name  string
		tx    ledger.Transaction
		state State
	}{
		{"on haul start", payment("p", today.AddDate(0, 0, -HaulDays).Format(time.DateOnly), "h-bank"), Paid},
		{"before haul start", payment("p", today.AddDate(0, 0, -HaulDays-1).Format(time.DateOnly), "h-bank"), Obligated},
		{"other owner", payment("p", today.Format(time.DateOnly), "w-bank"), Obligated},
		{"excluded account of owner", payment("p", today.Format(time.DateOnly), "h-hidden"), Paid},
		{"future", payment("p", today.AddDate(0, 0, 1).Format(time.DateOnly), "h-bank"), Obligated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Evaluate(ledger.OwnerHusband, accounts, []ledger.Transaction{tt.tx}, gold, now, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.state, a.State)
		})
	}
}

func TestEvaluate_MalformedPaymentDateIsSurfaced(t *testing.T) {
	txs := []ledger.Transaction{{ID: "p", Date: "soon", Type: ledger.Expense, Amount: decimal.NewFromInt(1), AccountID: "h-bank", Category: ledger.CategoryZakat}}
	a, err := Evaluate(ledger.OwnerHusband, accountsWith(decimal.NewFromInt(1)), txs, gold, now, time.UTC)
	require.NoError(t, err)
	assert.Len(t, a.Issues, 1)
	assert.Equal(t, NotObligated, a.State)
}

func TestNewPayment_Validation(t *testing.T) {
	accounts := accountsWith(decimal.NewFromInt(20000))
	obligated, err := Evaluate(ledger.OwnerHusband, accounts, nil, gold, now, time.UTC)
	require.NoError(t, err)

	_, err = NewPayment(obligated, "id", nil, now, time.UTC)
	assert.True(t, ledger.IsValidation(err))

	_, err = NewPayment(obligated, "id", &accounts[2], now, time.UTC)
	assert.True(t, ledger.IsValidation(err))

	notDue, err := Evaluate(ledger.OwnerHusband, accountsWith(decimal.NewFromInt(1)), nil, gold, now, time.UTC)
	require.NoError(t, err)
	_, err = NewPayment(notDue, "id", &accounts[0], now, time.UTC)
	assert.True(t, ledger.IsValidation(err))
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyObligated(ctx context.Context, a Assessment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func TestNotifyOnce_DeduplicatesPerYearAndOwner(t *testing.T) {
	ctx := context.Background()
	a := Assessment{Owner: ledger.OwnerWife, State: Obligated}
	notifier := new(mockNotifier)
	notifier.On("NotifyObligated", ctx, a).Return(nil).Once()
	reminders := NewMemoryReminders()

	sent, err := NotifyOnce(ctx, a, 2025, reminders, notifier)
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = NotifyOnce(ctx, a, 2025, reminders, notifier)
	require.NoError(t, err)
	assert.False(t, sent)

	notifier.On("NotifyObligated", ctx, a).Return(nil).Once()
	sent, err = NotifyOnce(ctx, a, 2026, reminders, notifier)
	require.NoError(t, err)
	assert.True(t, sent)

	notifier.AssertNumberOfCalls(t, "NotifyObligated", 2)
}

func TestNotifyOnce_SkipsWhenNotObligated(t *testing.T) {
	notifier := new(mockNotifier)
	sent, err := NotifyOnce(context.Background(), Assessment{State: Paid}, 2025, NewMemoryReminders(), notifier)
	require.NoError(t, err)
	assert.False(t, sent)
	notifier.AssertNotCalled(t, "NotifyObligated", mock.Anything, mock.Anything)
}

func TestNotifyOnce_ReleasesOnFailure(t *testing.T) {
	ctx := context.Background()
	a := Assessment{Owner: ledger.OwnerHusband, State: Obligated}
	notifier := new(mockNotifier)
	notifier.On("NotifyObligated", ctx, a).Return(errors.New("broker down")).Once()
	notifier.On("NotifyObligated", ctx, a).Return(nil).Once()
	reminders := NewMemoryReminders()

	_, err := NotifyOnce(ctx, a, 2025, reminders, notifier)
	assert.Error(t, err)

	sent, err := NotifyOnce(ctx, a, 2025, reminders, notifier)
	require.NoError(t, err)
	assert.True(t, sent)
}
