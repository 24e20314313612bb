package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/spendwise/internal/converter"
	"github.com/MrJamesThe3rd/spendwise/internal/currency"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/rates"
)

const DefaultRecentLimit = 5

//go:generate mockgen -source=facade.go -destination=facade_mock.go -package=analytics
type ExpenseSource interface {
	List(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error)
	ListCategories(ctx context.Context) ([]*expense.Category, error)
}

type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to currency.Code) (*converter.Result, error)
	Rates(ctx context.Context, base currency.Code) (*rates.Set, error)
}

// Facade is the request surface for statistics and conversions. It holds
// no state of its own.
type Facade struct {
	expenses    ExpenseSource
	converter   CurrencyConverter
	reporting   currency.Code
	recentLimit int
}

type FacadeOption func(*Facade)

// WithReportingCurrency makes GetStats convert every amount to c before
// aggregating.
func WithReportingCurrency(c currency.Code) FacadeOption {
	return func(f *Facade) { f.reporting = c }
}

func WithDefaultRecentLimit(n int) FacadeOption {
	return func(f *Facade) { f.recentLimit = n }
}

func NewFacade(expenses ExpenseSource, conv CurrencyConverter, opts ...FacadeOption) *Facade {
	f := &Facade{
		expenses:    expenses,
		converter:   conv,
		recentLimit: DefaultRecentLimit,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

type StatsRequest struct {
	Filter      expense.ListFilter
	RecentLimit *int // nil uses the facade default
	PadMonths   bool
}

// GetStats loads expenses and categories concurrently and aggregates them.
// It fails if either load fails.
func (f *Facade) GetStats(ctx context.Context, req StatsRequest) (Snapshot, error) {
	var (
		expenses   []*expense.Expense
		categories []*expense.Category
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		expenses, err = f.expenses.List(gctx, req.Filter)
		if err != nil {
			return fmt.Errorf("listing expenses: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		categories, err = f.expenses.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	if f.reporting != "" {
		normalized, err := f.normalize(ctx, expenses)
		if err != nil {
			return Snapshot{}, err
		}

		expenses = normalized
	}

	limit := f.recentLimit
	if req.RecentLimit != nil {
		limit = *req.RecentLimit
	}

	snap := Aggregate(expenses, categories, Options{RecentLimit: limit, PadMonths: req.PadMonths})
	snap.ReportingCurrency = f.reporting

	return snap, nil
}

// normalize returns copies of expenses with amounts expressed in the
// reporting currency.
func (f *Facade) normalize(ctx context.Context, expenses []*expense.Expense) ([]*expense.Expense, error) {
	out := make([]*expense.Expense, len(expenses))

	for i, e := range expenses {
		if e.Currency == f.reporting {
			out[i] = e
			continue
		}

		res, err := f.converter.Convert(ctx, e.Amount, e.Currency, f.reporting)
		if err != nil {
			return nil, fmt.Errorf("converting expense %s to %s: %w", e.ID, f.reporting, err)
		}

		cp := *e
		cp.Amount = res.Converted
		cp.Currency = f.reporting
		out[i] = &cp
	}

	return out, nil
}

func (f *Facade) Convert(ctx context.Context, amount decimal.Decimal, from, to currency.Code) (*converter.Result, error) {
	return f.converter.Convert(ctx, amount, from, to)
}

func (f *Facade) Rates(ctx context.Context, base currency.Code) (*rates.Set, error) {
	return f.converter.Rates(ctx, base)
}
