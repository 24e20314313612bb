package analytics_test

import (
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/currency"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newExpense(title, amount string, cat *expense.Category, date time.Time) *expense.Expense {
	e := &expense.Expense{
		ID:       uuid.New(),
		Title:    title,
		Amount:   decimal.RequireFromString(amount),
		Currency: currency.USD,
		Date:     date,
	}

	if cat != nil {
		id := cat.ID
		e.CategoryID = &id
	}

	return e
}

func newCategory(name, color string) *expense.Category {
	return &expense.Category{ID: uuid.New(), Name: name, Color: color}
}

func TestAggregate_Scenario(t *testing.T) {
	food := newCategory("Food", "#22C55E")
	transport := newCategory("Transport", "#F97316")

	expenses := []*expense.Expense{
		newExpense("Groceries", "50", food, day(2024, 1, 5)),
		newExpense("Restaurant", "30", food, day(2024, 2, 1)),
		newExpense("Taxi", "20", transport, day(2024, 1, 20)),
	}

	snap := analytics.Aggregate(expenses, []*expense.Category{food, transport}, analytics.Options{RecentLimit: 5})

	assert.Equal(t, "100", snap.TotalExpenses.String())
	assert.Equal(t, 3, snap.ExpenseCount)

	require.Len(t, snap.CategoryBreakdown, 2)
	assert.Equal(t, "Food", snap.CategoryBreakdown[0].Name)
	assert.Equal(t, "80", snap.CategoryBreakdown[0].Total.String())
	assert.Equal(t, 2, snap.CategoryBreakdown[0].Count)
	assert.Equal(t, "#22C55E", snap.CategoryBreakdown[0].Color)
	assert.Equal(t, food.ID, *snap.CategoryBreakdown[0].CategoryID)
	assert.Equal(t, "Transport", snap.CategoryBreakdown[1].Name)
	assert.Equal(t, "20", snap.CategoryBreakdown[1].Total.String())
	assert.Equal(t, 1, snap.CategoryBreakdown[1].Count)

	require.Len(t, snap.MonthlyTotals, 2)
	assert.Equal(t, "2024-01", snap.MonthlyTotals[0].Month)
	assert.Equal(t, "70", snap.MonthlyTotals[0].Total.String())
	assert.Equal(t, 2, snap.MonthlyTotals[0].Count)
	assert.Equal(t, "2024-02", snap.MonthlyTotals[1].Month)
	assert.Equal(t, "30", snap.MonthlyTotals[1].Total.String())

	require.Len(t, snap.RecentExpenses, 3)
	assert.Equal(t, "Restaurant", snap.RecentExpenses[0].Title)
	assert.Equal(t, "Taxi", snap.RecentExpenses[1].Title)
	assert.Equal(t, "Groceries", snap.RecentExpenses[2].Title)

	assert.Equal(t, []currency.Code{currency.USD}, snap.Currencies)
	assert.False(t, snap.MixedCurrencies())
	assert.Equal(t, "80", snap.Share(snap.CategoryBreakdown[0].Total).String())
}

func TestAggregate_Empty(t *testing.T) {
	for _, limit := range []int{-1, 0, 1, 5, 100} {
		snap := analytics.Aggregate(nil, nil, analytics.Options{RecentLimit: limit, PadMonths: true})

		assert.True(t, snap.TotalExpenses.IsZero())
		assert.Zero(t, snap.ExpenseCount)
		assert.NotNil(t, snap.CategoryBreakdown)
		assert.Empty(t, snap.CategoryBreakdown)
		assert.NotNil(t, snap.MonthlyTotals)
		assert.Empty(t, snap.MonthlyTotals)
		assert.NotNil(t, snap.RecentExpenses)
		assert.Empty(t, snap.RecentExpenses)
		assert.True(t, snap.Share(decimal.NewFromInt(10)).IsZero())
	}
}

func TestAggregate_Uncategorized(t *testing.T) {
	food := newCategory("Food", "#22C55E")
	deleted := newCategory("Gone", "#000000")

	expenses := []*expense.Expense{
		newExpense("Lunch", "12.50", food, day(2024, 3, 1)),
		newExpense("Misc", "7.25", nil, day(2024, 3, 2)),
		newExpense("Orphan", "2.25", deleted, day(2024, 3, 3)),
	}

	snap := analytics.Aggregate(expenses, []*expense.Category{food}, analytics.Options{})

	require.Len(t, snap.CategoryBreakdown, 2)
	assert.Equal(t, "Food", snap.CategoryBreakdown[0].Name)

	uncategorized := snap.CategoryBreakdown[1]
	assert.Equal(t, analytics.UncategorizedName, uncategorized.Name)
	assert.Equal(t, analytics.UncategorizedColor, uncategorized.Color)
	assert.Nil(t, uncategorized.CategoryID)
	assert.Equal(t, "9.5", uncategorized.Total.String())
	assert.Equal(t, 2, uncategorized.Count)
}

func TestAggregate_Invariants(t *testing.T) {
	cats := []*expense.Category{
		newCategory("Food", "#1"),
		newCategory("Rent", "#2"),
		newCategory("Fun", "#3"),
	}

	rng := rand.New(rand.NewSource(1))

	var expenses []*expense.Expense

	for i := 0; i < 60; i++ {
		var cat *expense.Category
		if n := rng.Intn(4); n < len(cats) {
			cat = cats[n]
		}

		amount := decimal.New(int64(rng.Intn(100000)+1), -2)
		date := day(2023, time.Month(rng.Intn(12)+1), rng.Intn(28)+1)

		e := newExpense("e", "1", cat, date)
		e.Amount = amount
		e.Title = string(rune('a' + i%26))
		expenses = append(expenses, e)
	}

	snap := analytics.Aggregate(expenses, cats, analytics.Options{RecentLimit: 5})

	breakdownSum := decimal.Zero
	breakdownCount := 0

	for i, b := range snap.CategoryBreakdown {
		breakdownSum = breakdownSum.Add(b.Total)
		breakdownCount += b.Count

		if i > 0 {
			assert.True(t, snap.CategoryBreakdown[i-1].Total.GreaterThanOrEqual(b.Total), "breakdown not sorted by total")
		}
	}

	assert.True(t, snap.TotalExpenses.Equal(breakdownSum))
	assert.Equal(t, snap.ExpenseCount, breakdownCount)

	monthlySum := decimal.Zero
	for i, m := range snap.MonthlyTotals {
		monthlySum = monthlySum.Add(m.Total)

		if i > 0 {
			assert.Less(t, snap.MonthlyTotals[i-1].Month, m.Month)
		}
	}

	assert.True(t, snap.TotalExpenses.Equal(monthlySum))

	require.Len(t, snap.RecentExpenses, 5)

	for i := 1; i < len(snap.RecentExpenses); i++ {
		assert.False(t, snap.RecentExpenses[i].Date.After(snap.RecentExpenses[i-1].Date))
	}

	shuffled := slices.Clone(expenses)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	again := analytics.Aggregate(shuffled, cats, analytics.Options{RecentLimit: 5})
	assert.True(t, snap.TotalExpenses.Equal(again.TotalExpenses))
	assert.Equal(t, len(snap.MonthlyTotals), len(again.MonthlyTotals))

	for i := range snap.MonthlyTotals {
		assert.Equal(t, snap.MonthlyTotals[i].Month, again.MonthlyTotals[i].Month)
		assert.True(t, snap.MonthlyTotals[i].Total.Equal(again.MonthlyTotals[i].Total))
	}
}

func TestAggregate_PadMonths(t *testing.T) {
	expenses := []*expense.Expense{
		newExpense("a", "10", nil, day(2023, 11, 3)),
		newExpense("b", "5", nil, day(2024, 2, 9)),
	}

	tests := []struct {
		name   string
		pad    bool
		months []string
	}{
		{name: "Sparse", pad: false, months: []string{"2023-11", "2024-02"}},
		{name: "Padded", pad: true, months: []string{"2023-11", "2023-12", "2024-01", "2024-02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := analytics.Aggregate(expenses, nil, analytics.Options{PadMonths: tt.pad})

			var got []string
			for _, m := range snap.MonthlyTotals {
				got = append(got, m.Month)
			}

			assert.Equal(t, tt.months, got)
		})
	}
}

func TestAggregate_RecentTiesKeepInputOrder(t *testing.T) {
	same := day(2024, 5, 1)
	expenses := []*expense.Expense{
		newExpense("first", "1", nil, same),
		newExpense("older", "1", nil, day(2024, 4, 1)),
		newExpense("second", "1", nil, same),
		newExpense("third", "1", nil, same),
	}

	snap := analytics.Aggregate(expenses, nil, analytics.Options{RecentLimit: 2})

	require.Len(t, snap.RecentExpenses, 2)
	assert.Equal(t, "first", snap.RecentExpenses[0].Title)
	assert.Equal(t, "second", snap.RecentExpenses[1].Title)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	expenses := []*expense.Expense{
		newExpense("old", "1", nil, day(2024, 1, 1)),
		newExpense("new", "2", nil, day(2024, 6, 1)),
	}
	before := slices.Clone(expenses)

	analytics.Aggregate(expenses, nil, analytics.Options{RecentLimit: 5})

	assert.Equal(t, before, expenses)
}

func TestAggregate_Currencies(t *testing.T) {
	usd := newExpense("a", "10", nil, day(2024, 1, 1))
	eur := newExpense("b", "10", nil, day(2024, 1, 2))
	eur.Currency = currency.EUR

	snap := analytics.Aggregate([]*expense.Expense{usd, eur}, nil, analytics.Options{})

	assert.Equal(t, []currency.Code{currency.EUR, currency.USD}, snap.Currencies)
	assert.True(t, snap.MixedCurrencies())
}
