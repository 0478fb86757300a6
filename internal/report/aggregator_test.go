package report

import (
	"testing"
	"time"

	"floatflow-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expenseOn(date string, category, location string, amount float64, status models.ExpenseStatus) models.Expense {
	d, _ := time.Parse("2006-01-02", date)
	return models.Expense{
		Date:         d,
		Category:     category,
		Location:     location,
		Amount:       amount,
		ExchangeRate: 1,
		Status:       status,
	}
}

func TestSummarize_EmptyInputs(t *testing.T) {
	stats := Summarize(nil, nil)

	assert.Equal(t, FloatTotals{}, stats.Floats)
	assert.Zero(t, stats.PendingApprovals)
	assert.Zero(t, stats.PolicyViolations)
	require.NotNil(t, stats.CategoryBreakdown)
	require.NotNil(t, stats.LocationBreakdown)
	require.NotNil(t, stats.MonthlyTrend)
	assert.Empty(t, stats.CategoryBreakdown)
	assert.Empty(t, stats.LocationBreakdown)
	assert.Empty(t, stats.MonthlyTrend)
}

func TestSummarize_FloatTotalsSkipInactive(t *testing.T) {
	fs := []models.Float{
		{InitialAmount: 50000, UsedAmount: 20000, Balance: 30000, IsActive: true},
		{InitialAmount: 30000, UsedAmount: 10000, Balance: 20000, IsActive: true},
		{InitialAmount: 99999, UsedAmount: 99999, Balance: 0, IsActive: false},
	}

	stats := Summarize(fs, nil)

	assert.Equal(t, 2, stats.Floats.TotalFloats)
	assert.Equal(t, 80000.0, stats.Floats.TotalValue)
	assert.Equal(t, 30000.0, stats.Floats.TotalUsed)
	assert.Equal(t, 50000.0, stats.Floats.TotalBalance)
	assert.InDelta(t, 37.5, stats.Floats.UtilizationRate, 0.001)
}

func TestSummarize_CountsPendingAndViolations(t *testing.T) {
	es := []models.Expense{
		expenseOn("2026-03-01", "Travel", "NAIROBI", 100, models.ExpensePending),
		expenseOn("2026-03-02", "Travel", "NAIROBI", 200, models.ExpensePending),
		expenseOn("2026-03-03", "Meals", "NAIROBI", 300, models.ExpenseApproved),
	}
	es[1].PolicyViolation = true
	es[2].PolicyViolation = true

	stats := Summarize(nil, es)

	assert.Equal(t, 2, stats.PendingApprovals)
	assert.Equal(t, 2, stats.PolicyViolations)
}

func TestSummarize_BreakdownsOnlyCommittedSpend(t *testing.T) {
	es := []models.Expense{
		expenseOn("2026-03-01", "Travel", "NAIROBI", 1000, models.ExpenseApproved),
		expenseOn("2026-03-05", "Travel", "MOMBASA", 500, models.ExpensePaid),
		expenseOn("2026-03-07", "Travel", "NAIROBI", 9999, models.ExpensePending),
		expenseOn("2026-03-08", "Travel", "NAIROBI", 9999, models.ExpenseRejected),
	}

	stats := Summarize(nil, es)

	require.Len(t, stats.CategoryBreakdown, 1)
	assert.Equal(t, 2, stats.CategoryBreakdown[0].Count)
	assert.Equal(t, 1500.0, stats.CategoryBreakdown[0].Total)
}

func TestSummarize_UsesBaseCurrencyAmounts(t *testing.T) {
	e := expenseOn("2026-03-01", "Travel", "NAIROBI", 100, models.ExpenseApproved)
	e.Currency = "USD"
	e.ExchangeRate = 150

	stats := Summarize(nil, []models.Expense{e})

	require.Len(t, stats.CategoryBreakdown, 1)
	assert.Equal(t, 15000.0, stats.CategoryBreakdown[0].Total)
}

func TestSummarize_GroupingIsCaseSensitive(t *testing.T) {
	es := []models.Expense{
		expenseOn("2026-03-01", "Travel", "NAIROBI", 100, models.ExpenseApproved),
		expenseOn("2026-03-02", "travel", "NAIROBI", 100, models.ExpenseApproved),
	}

	stats := Summarize(nil, es)

	require.Len(t, stats.CategoryBreakdown, 2)
	assert.Equal(t, "Travel", stats.CategoryBreakdown[0].Category)
	assert.Equal(t, "travel", stats.CategoryBreakdown[1].Category)
}

func TestSummarize_BreakdownsAreSorted(t *testing.T) {
	es := []models.Expense{
		expenseOn("2026-03-01", "Utilities", "MOMBASA", 10, models.ExpenseApproved),
		expenseOn("2026-03-02", "Fuel", "NAIROBI", 20, models.ExpenseApproved),
		expenseOn("2026-03-03", "Meals", "KISUMU", 30, models.ExpenseApproved),
	}

	stats := Summarize(nil, es)

	require.Len(t, stats.CategoryBreakdown, 3)
	assert.Equal(t, "Fuel", stats.CategoryBreakdown[0].Category)
	assert.Equal(t, "Meals", stats.CategoryBreakdown[1].Category)
	assert.Equal(t, "Utilities", stats.CategoryBreakdown[2].Category)

	require.Len(t, stats.LocationBreakdown, 3)
	assert.Equal(t, "KISUMU", stats.LocationBreakdown[0].Location)
}

func TestSummarize_MonthlyTrendOrderedByMonth(t *testing.T) {
	es := []models.Expense{
		expenseOn("2026-03-10", "Travel", "NAIROBI", 100, models.ExpensePaid),
		expenseOn("2026-01-15", "Travel", "NAIROBI", 200, models.ExpenseApproved),
		expenseOn("2026-03-20", "Meals", "NAIROBI", 50, models.ExpenseApproved),
		expenseOn("2025-12-31", "Travel", "NAIROBI", 75, models.ExpensePaid),
	}

	stats := Summarize(nil, es)

	require.Len(t, stats.MonthlyTrend, 3)
	assert.Equal(t, "2025-12", stats.MonthlyTrend[0].Month)
	assert.Equal(t, "2026-01", stats.MonthlyTrend[1].Month)
	assert.Equal(t, "2026-03", stats.MonthlyTrend[2].Month)
	assert.Equal(t, 2, stats.MonthlyTrend[2].Count)
	assert.Equal(t, 150.0, stats.MonthlyTrend[2].Total)
}

func TestUtilizationRate(t *testing.T) {
	assert.Equal(t, 0.0, UtilizationRate(500, 0))
	assert.Equal(t, 0.0, UtilizationRate(0, 1000))
	assert.Equal(t, 64.0, UtilizationRate(32000, 50000))
	assert.Equal(t, 100.0, UtilizationRate(50000, 50000))
}
