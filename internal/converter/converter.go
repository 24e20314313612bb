package converter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
	"github.com/MrJamesThe3rd/spendwise/internal/rates"
)

var ErrInvalidAmount = errors.New("invalid amount")

//go:generate mockgen -source=converter.go -destination=source_mock.go -package=converter
type RateSource interface {
	Get(ctx context.Context, base currency.Code) (*rates.Set, error)
}

// Result is a single conversion. Rate is the quote actually applied, at
// full precision; Converted is rounded to the minor units of To.
type Result struct {
	From      currency.Code
	To        currency.Code
	Amount    decimal.Decimal
	Converted decimal.Decimal
	Rate      decimal.Decimal
	AsOf      time.Time
	Source    string
	Note      string
}

type Converter struct {
	source RateSource
	scales map[currency.Code]int32
}

type Option func(*Converter)

// WithScale overrides the number of minor-unit digits used when rounding
// amounts in c.
func WithScale(c currency.Code, scale int32) Option {
	return func(cv *Converter) { cv.scales[c] = scale }
}

func New(source RateSource, opts ...Option) *Converter {
	c := &Converter{
		source: source,
		scales: make(map[currency.Code]int32),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Scale returns the minor-unit digits used for c.
func (c *Converter) Scale(code currency.Code) int32 {
	if s, ok := c.scales[code]; ok {
		return s
	}

	return currency.Scale(code)
}

func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to currency.Code) (*Result, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount)
	}

	if !from.IsSupported() {
		return nil, fmt.Errorf("%w: %q", currency.ErrUnsupported, from)
	}

	if !to.IsSupported() {
		return nil, fmt.Errorf("%w: %q", currency.ErrUnsupported, to)
	}

	if from == to {
		return &Result{
			From:      from,
			To:        to,
			Amount:    amount,
			Converted: amount,
			Rate:      decimal.NewFromInt(1),
		}, nil
	}

	set, err := c.source.Get(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("loading %s rates: %w", from, err)
	}

	rate, err := crossRate(set, from, to)
	if err != nil {
		return nil, err
	}

	return &Result{
		From:      from,
		To:        to,
		Amount:    amount,
		Converted: amount.Mul(rate).Round(c.Scale(to)),
		Rate:      rate,
		AsOf:      set.AsOf,
		Source:    set.Source,
		Note:      set.Note,
	}, nil
}

// Rates returns the snapshot for base, as served to callers that want the
// whole table.
func (c *Converter) Rates(ctx context.Context, base currency.Code) (*rates.Set, error) {
	if !base.IsSupported() {
		return nil, fmt.Errorf("%w: %q", currency.ErrUnsupported, base)
	}

	return c.source.Get(ctx, base)
}

// crossRate derives units of to per unit of from. The set may be based on
// from, on to, or on a third currency.
func crossRate(set *rates.Set, from, to currency.Code) (decimal.Decimal, error) {
	quote := func(c currency.Code) (decimal.Decimal, error) {
		r, ok := set.Rate(c)
		if !ok || !r.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: no %s quote in %s based rates", rates.ErrRateUnavailable, c, set.Base)
		}

		return r, nil
	}

	switch set.Base {
	case from:
		return quote(to)
	case to:
		r, err := quote(from)
		if err != nil {
			return decimal.Zero, err
		}

		return decimal.NewFromInt(1).Div(r), nil
	}

	rf, err := quote(from)
	if err != nil {
		return decimal.Zero, err
	}

	rt, err := quote(to)
	if err != nil {
		return decimal.Zero, err
	}

	return rt.Div(rf), nil
}
