package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/market"
	"github.com/carson-networks/finance-tracker/internal/operator"
	"github.com/carson-networks/finance-tracker/internal/operator/actions"
	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/memory"
	"github.com/carson-networks/finance-tracker/internal/zakat"
)

var (
	testNow   = time.Date(2025, 7, 16, 9, 0, 0, 0, time.UTC)
	testToday = time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchGoldPricePerGram(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyObligated(ctx context.Context, a zakat.Assessment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

type testEnv struct {
	svc     *Service
	storage *storage.Storage
}

// newTestEnv wires every service against an in-memory store and a running operator. A zero
// goldPrice leaves the price cache empty.
func newTestEnv(t *testing.T, goldPrice decimal.Decimal, notifier zakat.Notifier) *testEnv {
	t.Helper()
	return newTestEnvWith(t, goldPrice, notifier, nil)
}

// newTestEnvWith is newTestEnv with the operator wrapped by wrap, when set.
func newTestEnvWith(t *testing.T, goldPrice decimal.Decimal, notifier zakat.Notifier, wrap func(Processor) Processor) *testEnv {
	t.Helper()
	store, err := memory.New("")
	require.NoError(t, err)
	s := storage.NewStorage(store)

	logger, _ := test.NewNullLogger()
	op := operator.NewOperatorDelegator(s, 1, logger)
	op.Start()
	t.Cleanup(op.Stop)

	fetcher := new(mockFetcher)
	fetcher.On("FetchGoldPricePerGram", mock.Anything).Return(decimal.Zero, &market.FetchError{URL: "test"}).Maybe()

	var processor Processor = op
	if wrap != nil {
		processor = wrap(op)
	}

	svc, err := NewService(s, processor, Options{
		Location:  time.UTC,
		Prices:    market.NewPriceCache(fetcher, goldPrice, logger),
		Notifier:  notifier,
		Logger:    logger,
		Now:       func() time.Time { return testNow },
		Reminders: zakat.NewMemoryReminders(),
	})
	require.NoError(t, err)
	return &testEnv{svc: svc, storage: s}
}

func (e *testEnv) addAccount(t *testing.T, acc ledger.Account) {
	t.Helper()
	_, err := e.svc.Account.CreateAccount(context.Background(), acc)
	require.NoError(t, err)
}

func (e *testEnv) addTransaction(t *testing.T, tx ledger.Transaction) {
	t.Helper()
	_, err := e.svc.Transaction.CreateTransaction(context.Background(), tx)
	require.NoError(t, err)
}

// writeRaw stores a transaction without validation or balance effects.
func (e *testEnv) writeRaw(t *testing.T, tx ledger.Transaction) {
	t.Helper()
	ctx := context.Background()
	w, err := e.storage.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.Transaction.Upsert(ctx, tx))
	require.NoError(t, w.Commit())
}

func day(n int) string {
	return testToday.AddDate(0, 0, -n).Add(12 * time.Hour).Format(time.RFC3339)
}
