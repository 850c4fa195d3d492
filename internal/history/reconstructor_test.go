package history

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/ledger"
	"github.com/carson-networks/finance-tracker/internal/period"
)

var (
	now   = time.Date(2025, 7, 16, 18, 30, 0, 0, time.UTC)
	today = time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func daysAgo(n int) string {
	return today.AddDate(0, 0, -n).Add(12 * time.Hour).Format(time.RFC3339)
}

func household() []ledger.Account {
	return []ledger.Account{
		{ID: "cash", Name: "Wallet", Group: ledger.GroupCash, Balance: dec(500), IncludeInTotals: true, Owner: ledger.OwnerHusband},
		{ID: "bank", Name: "Checking", Group: ledger.GroupBankAccounts, Balance: dec(10000), IncludeInTotals: true, Owner: ledger.OwnerWife},
		{ID: "hidden", Name: "Escrow", Group: ledger.GroupBankAccounts, Balance: dec(7000), IncludeInTotals: false, Owner: ledger.OwnerWife},
	}
}

func assertValue(t *testing.T, expected int64, p Point) {
	t.Helper()
	assert.True(t, p.Value.Equal(dec(expected)), "%s: expected %d, got %s", p.Date.Format(time.DateOnly), expected, p.Value)
}

func TestReconstruct_ConcreteScenario(t *testing.T) {
	accounts := []ledger.Account{{ID: "a", Balance: dec(1000000), IncludeInTotals: true}}
	txs := []ledger.Transaction{{ID: "t1", Date: daysAgo(10), Type: ledger.Expense, Amount: dec(200000), AccountID: "a"}}

	series, err := Reconstruct(ByAccount("a"), accounts, txs, period.LastDays(15, now, time.UTC), now, time.UTC)
	require.NoError(t, err)
	require.Len(t, series.Points, 16)

	for i := 0; i < 5; i++ {
		assertValue(t, 1200000, series.Points[i])
	}
	for i := 5; i < len(series.Points); i++ {
		assertValue(t, 1000000, series.Points[i])
	}
	assert.Equal(t, today.AddDate(0, 0, -10), series.Points[5].Date)
	assertValue(t, 1000000, series.Points[len(series.Points)-1])
	assert.True(t, series.CurrentTotal.Equal(dec(1000000)))
}

func TestReconstruct_TodayPointEqualsCurrentTotal(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "1", Date: daysAgo(3), Type: ledger.Income, Amount: dec(300), AccountID: "bank"},
		{ID: "2", Date: daysAgo(0), Type: ledger.Expense, Amount: dec(40), AccountID: "cash"},
		{ID: "3", Date: daysAgo(1), Type: ledger.Transfer, Amount: dec(100), Fee: dec(1), AccountID: "bank", ToAccountID: "hidden"},
		{ID: "4", Date: today.AddDate(0, 0, 3).Format(time.DateOnly), Type: ledger.Income, Amount: dec(5), AccountID: "cash"},
	}
	scopes := []Scope{Global(), ByOwner(ledger.OwnerHusband), ByOwner(ledger.OwnerWife), ByAccount("hidden"), ByAccount("cash")}
	for _, scope := range scopes {
		t.Run(scope.String(), func(t *testing.T) {
			series, err := Reconstruct(scope, household(), txs, period.LastDays(30, now, time.UTC), now, time.UTC)
			require.NoError(t, err)
			point, ok := series.At(today)
			require.True(t, ok)
			assert.True(t, point.Value.Equal(scope.Total(household())))
			assert.True(t, point.Value.Equal(series.CurrentTotal))
		})
	}
}

func TestReconstruct_InternalTransferIsNeutralInGlobalScope(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "x", Date: daysAgo(5), Type: ledger.Transfer, Amount: dec(250), AccountID: "bank", ToAccountID: "cash"},
	}
	series, err := Reconstruct(Global(), household(), txs, period.LastDays(10, now, time.UTC), now, time.UTC)
	require.NoError(t, err)
	for _, p := range series.Points {
		assertValue(t, 10500, p)
	}

	husband, err := Reconstruct(ByOwner(ledger.OwnerHusband), household(), txs, period.LastDays(10, now, time.UTC), now, time.UTC)
	require.NoError(t, err)
	assertValue(t, 250, husband.Points[0])
	assertValue(t, 500, husband.Points[len(husband.Points)-1])
}

func TestReconstruct_TransferFeeLeavesScope(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "x", Date: daysAgo(2), Type: ledger.Transfer, Amount: dec(100), Fee: dec(3), AccountID: "bank", ToAccountID: "cash"},
	}
	series, err := Reconstruct(Global(), household(), txs, period.LastDays(4, now, time.UTC), now, time.UTC)
	require.NoError(t, err)
	assertValue(t, 10503, series.Points[0])
	assertValue(t, 10500, series.Points[len(series.Points)-1])
}

func TestReconstruct_OnePointPerDay(t *testing.T) {
	r := period.Range{Start: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)}
	series, err := Reconstruct(Global(), household(), nil, r, now, time.UTC)
	require.NoError(t, err)
	require.Len(t, series.Points, 15)
	for i, p := range series.Points {
		assert.Equal(t, r.Start.AddDate(0, 0, i), p.Date)
	}
}

func TestReconstruct_ClampsLongRanges(t *testing.T) {
	r := period.Range{Start: today.AddDate(-20, 0, 0), End: today}
	series, err := Reconstruct(Global(), household(), nil, r, now, time.UTC)
	require.NoError(t, err)
	assert.True(t, series.Clamped)
	require.Len(t, series.Points, MaxDays)
	assert.Equal(t, today, series.Points[MaxDays-1].Date)
	assert.Equal(t, today.AddDate(0, 0, -(MaxDays-1)), series.Points[0].Date)
}

func TestReconstruct_FutureDaysReportCurrentTotal(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "1", Date: daysAgo(1), Type: ledger.Income, Amount: dec(1000), AccountID: "bank"},
	}
	r := period.Range{Start: today.AddDate(0, 0, -3), End: today.AddDate(0, 0, 5)}
	series, err := Reconstruct(Global(), household(), txs, r, now, time.UTC)
	require.NoError(t, err)
	require.Len(t, series.Points, 9)
	for _, p := range series.Points[3:] {
		assertValue(t, 10500, p)
	}
	assertValue(t, 9500, series.Points[0])
}

func TestReconstruct_FutureDatedTransactionCountsAsToday(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "1", Date: today.AddDate(0, 0, 2).Format(time.DateOnly), Type: ledger.Expense, Amount: dec(100), AccountID: "cash"},
	}
	series, err := Reconstruct(ByAccount("cash"), household(), txs, period.LastDays(2, now, time.UTC), now, time.UTC)
	require.NoError(t, err)
	assertValue(t, 600, series.Points[0])
	assertValue(t, 600, series.Points[1])
	assertValue(t, 500, series.Points[2])
}

func TestReconstruct_SurfacesIssues(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "bad-date", Date: "16/07/2025", Type: ledger.Income, Amount: dec(1), AccountID: "cash"},
		{ID: "ghost", Date: daysAgo(1), Type: ledger.Income, Amount: dec(1), AccountID: "nowhere"},
		{ID: "neg", Date: daysAgo(1), Type: ledger.Income, Amount: dec(-5), AccountID: "cash"},
		{ID: "ok", Date: daysAgo(1), Type: ledger.Income, Amount: dec(20), AccountID: "cash"},
	}
	series, err := Reconstruct(ByAccount("cash"), household(), txs, period.LastDays(2, now, time.UTC), now, time.UTC)
	require.NoError(t, err)
	require.Len(t, series.Issues, 3)

	var parseErr *ledger.ParseError
	var missingErr *ledger.MissingAccountError
	assert.True(t, errors.As(series.Issues[0], &parseErr))
	assert.True(t, errors.As(series.Issues[1], &missingErr))
	assert.Equal(t, "nowhere", missingErr.AccountID)
	assert.True(t, errors.As(series.Issues[2], &parseErr))

	assertValue(t, 480, series.Points[0])
	assertValue(t, 500, series.Points[2])
}

func TestReconstruct_TransferWithUnknownDestinationStillUndoesSource(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "1", Date: daysAgo(1), Type: ledger.Transfer, Amount: dec(50), AccountID: "cash", ToAccountID: "gone"},
	}
	series, err := Reconstruct(Global(), household(), txs, period.LastDays(2, now, time.UTC), now, time.UTC)
	require.NoError(t, err)
	assert.Len(t, series.Issues, 1)
	assertValue(t, 10550, series.Points[0])
}

func TestReconstruct_EmptyScopeIsZero(t *testing.T) {
	series, err := Reconstruct(ByAccount("missing"), household(), nil, period.LastDays(3, now, time.UTC), now, time.UTC)
	require.NoError(t, err)
	require.Len(t, series.Points, 4)
	for _, p := range series.Points {
		assert.True(t, p.Value.IsZero())
	}
}

func TestReconstruct_InvalidRange(t *testing.T) {
	_, err := Reconstruct(Global(), nil, nil, period.Range{Start: today, End: today.AddDate(0, 0, -1)}, now, time.UTC)
	assert.ErrorIs(t, err, period.ErrInvalidRange)
}

func TestReconstruct_SameTimestampOrderIsDeterministic(t *testing.T) {
	stamp := daysAgo(1)
	txs := []ledger.Transaction{
		{ID: "a", Date: stamp, Type: ledger.Income, Amount: dec(10), AccountID: "cash"},
		{ID: "b", Date: stamp, Type: ledger.Expense, Amount: dec(4), AccountID: "cash"},
	}
	first, err := Reconstruct(ByAccount("cash"), household(), txs, period.LastDays(2, now, time.UTC), now, time.UTC)
	require.NoError(t, err)
	second, err := Reconstruct(ByAccount("cash"), household(), txs, period.LastDays(2, now, time.UTC), now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, first.Points, second.Points)
	assertValue(t, 494, first.Points[0])
}

func TestReconstruct_DoesNotMutateInputs(t *testing.T) {
	accounts := household()
	txs := []ledger.Transaction{{ID: "1", Date: daysAgo(1), Type: ledger.Expense, Amount: dec(5), AccountID: "cash"}}
	_, err := Reconstruct(Global(), accounts, txs, period.LastDays(3, now, time.UTC), now, time.UTC)
	require.NoError(t, err)
	assert.True(t, accounts[0].Balance.Equal(dec(500)))
	assert.Equal(t, "1", txs[0].ID)
}
