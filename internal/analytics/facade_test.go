package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/converter"
	"github.com/MrJamesThe3rd/spendwise/internal/currency"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/rates"
)

func intPtr(n int) *int { return &n }

func TestFacade_GetStats(t *testing.T) {
	food := newCategory("Food", "#22C55E")
	expenses := []*expense.Expense{
		newExpense("a", "10", food, day(2024, 1, 1)),
		newExpense("b", "20", food, day(2024, 1, 2)),
		newExpense("c", "30", nil, day(2024, 1, 3)),
	}

	type testCase struct {
		name       string
		req        analytics.StatsRequest
		setupMock  func(src *analytics.MockExpenseSource)
		wantRecent int
		wantErr    bool
	}

	tests := []testCase{
		{
			name: "DefaultRecentLimit",
			req:  analytics.StatsRequest{},
			setupMock: func(src *analytics.MockExpenseSource) {
				src.EXPECT().List(gomock.Any(), expense.ListFilter{}).Return(expenses, nil)
				src.EXPECT().ListCategories(gomock.Any()).Return([]*expense.Category{food}, nil)
			},
			wantRecent: 3,
		},
		{
			name: "ExplicitRecentLimit",
			req:  analytics.StatsRequest{RecentLimit: intPtr(1)},
			setupMock: func(src *analytics.MockExpenseSource) {
				src.EXPECT().List(gomock.Any(), gomock.Any()).Return(expenses, nil)
				src.EXPECT().ListCategories(gomock.Any()).Return([]*expense.Category{food}, nil)
			},
			wantRecent: 1,
		},
		{
			name: "ListFails",
			req:  analytics.StatsRequest{},
			setupMock: func(src *analytics.MockExpenseSource) {
				src.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
				src.EXPECT().ListCategories(gomock.Any()).Return(nil, nil).AnyTimes()
			},
			wantErr: true,
		},
		{
			name: "CategoriesFail",
			req:  analytics.StatsRequest{},
			setupMock: func(src *analytics.MockExpenseSource) {
				src.EXPECT().List(gomock.Any(), gomock.Any()).Return(expenses, nil).AnyTimes()
				src.EXPECT().ListCategories(gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			src := analytics.NewMockExpenseSource(ctrl)
			tt.setupMock(src)

			f := analytics.NewFacade(src, analytics.NewMockCurrencyConverter(ctrl))
			snap, err := f.GetStats(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "60", snap.TotalExpenses.String())
			assert.Len(t, snap.RecentExpenses, tt.wantRecent)
			assert.Empty(t, snap.ReportingCurrency)
		})
	}
}

func TestFacade_GetStatsPassesFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	start := day(2024, 1, 1)
	filter := expense.ListFilter{StartDate: &start}

	src := analytics.NewMockExpenseSource(ctrl)
	src.EXPECT().List(gomock.Any(), filter).Return(nil, nil)
	src.EXPECT().ListCategories(gomock.Any()).Return(nil, nil)

	snap, err := analytics.NewFacade(src, nil).GetStats(context.Background(), analytics.StatsRequest{Filter: filter})
	require.NoError(t, err)
	assert.Zero(t, snap.ExpenseCount)
}

func TestFacade_GetStatsNormalizes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	usd := newExpense("usd", "10", nil, day(2024, 1, 1))
	eur := newExpense("eur", "9.20", nil, day(2024, 1, 2))
	eur.Currency = currency.EUR

	src := analytics.NewMockExpenseSource(ctrl)
	src.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*expense.Expense{usd, eur}, nil)
	src.EXPECT().ListCategories(gomock.Any()).Return(nil, nil)

	conv := analytics.NewMockCurrencyConverter(ctrl)
	conv.EXPECT().
		Convert(gomock.Any(), eur.Amount, currency.EUR, currency.USD).
		Return(&converter.Result{Converted: decimal.NewFromInt(10)}, nil)

	f := analytics.NewFacade(src, conv, analytics.WithReportingCurrency(currency.USD))
	snap, err := f.GetStats(context.Background(), analytics.StatsRequest{})
	require.NoError(t, err)

	assert.Equal(t, "20", snap.TotalExpenses.String())
	assert.Equal(t, currency.USD, snap.ReportingCurrency)
	assert.Equal(t, []currency.Code{currency.USD}, snap.Currencies)
	assert.Equal(t, "9.2", eur.Amount.String(), "source expense must not be modified")
	assert.Equal(t, currency.EUR, eur.Currency)
}

func TestFacade_GetStatsNormalizeFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	eur := newExpense("eur", "9.20", nil, day(2024, 1, 2))
	eur.Currency = currency.EUR

	src := analytics.NewMockExpenseSource(ctrl)
	src.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*expense.Expense{eur}, nil)
	src.EXPECT().ListCategories(gomock.Any()).Return(nil, nil)

	conv := analytics.NewMockCurrencyConverter(ctrl)
	conv.EXPECT().Convert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, rates.ErrRateUnavailable)

	f := analytics.NewFacade(src, conv, analytics.WithReportingCurrency(currency.USD))
	_, err := f.GetStats(context.Background(), analytics.StatsRequest{})
	assert.ErrorIs(t, err, rates.ErrRateUnavailable)
}

func TestFacade_DelegatesConversion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conv := analytics.NewMockCurrencyConverter(ctrl)
	want := &converter.Result{From: currency.USD, To: currency.EUR, Converted: decimal.RequireFromString("92")}
	set := &rates.Set{Base: currency.USD, AsOf: time.Now()}

	conv.EXPECT().Convert(gomock.Any(), decimal.NewFromInt(100), currency.USD, currency.EUR).Return(want, nil)
	conv.EXPECT().Rates(gomock.Any(), currency.USD).Return(set, nil)

	f := analytics.NewFacade(nil, conv)

	got, err := f.Convert(context.Background(), decimal.NewFromInt(100), currency.USD, currency.EUR)
	require.NoError(t, err)
	assert.Same(t, want, got)

	gotSet, err := f.Rates(context.Background(), currency.USD)
	require.NoError(t, err)
	assert.Same(t, set, gotSet)
}
