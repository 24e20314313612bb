package rates

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
)

var (
	// ErrRateUnavailable means no snapshot could be produced for a base:
	// nothing is cached and the provider failed.
	ErrRateUnavailable = errors.New("exchange rates unavailable")

	// ErrProvider wraps transport and decoding failures of a rate provider.
	ErrProvider = errors.New("rate provider error")
)

// Set is an immutable snapshot of exchange rates relative to Base:
// one unit of Base buys Rates[q] units of q.
type Set struct {
	Base      currency.Code
	Rates     map[currency.Code]decimal.Decimal
	AsOf      time.Time
	FetchedAt time.Time
	Source    string
	Note      string
	Stale     bool
}

// Rate returns the quote for c, if present.
func (s *Set) Rate(c currency.Code) (decimal.Decimal, bool) {
	r, ok := s.Rates[c]
	return r, ok
}

// withNote returns a copy of s annotated as stale. The rates map is shared;
// sets are never mutated after construction.
func (s *Set) withNote(note string, stale bool) *Set {
	cp := *s
	cp.Note = note
	cp.Stale = stale

	return &cp
}

// Rebase returns a copy of s quoted per unit of base. It fails when s has
// no quote for base.
func (s *Set) Rebase(base currency.Code) (*Set, error) {
	if s.Base == base {
		return s, nil
	}

	pivot, ok := s.Rate(base)
	if !ok || !pivot.IsPositive() {
		return nil, fmt.Errorf("%w: no %s quote in %s based rates", ErrProvider, base, s.Base)
	}

	rebased := make(map[currency.Code]decimal.Decimal, len(s.Rates))
	for c, r := range s.Rates {
		rebased[c] = r.Div(pivot)
	}

	rebased[base] = decimal.NewFromInt(1)

	cp := *s
	cp.Base = base
	cp.Rates = rebased

	return &cp, nil
}

//go:generate mockgen -source=rates.go -destination=provider_mock.go -package=rates
type Provider interface {
	Fetch(ctx context.Context, base currency.Code) (*Set, error)
}

// newSet keeps only supported, positive quotes and pins the base at 1.
func newSet(base currency.Code, raw map[string]decimal.Decimal, asOf time.Time, source string) *Set {
	rates := make(map[currency.Code]decimal.Decimal, len(raw))

	for code, r := range raw {
		c := currency.Code(code)
		if !c.IsSupported() || !r.IsPositive() {
			continue
		}

		rates[c] = r
	}

	rates[base] = decimal.NewFromInt(1)

	return &Set{
		Base:   base,
		Rates:  rates,
		AsOf:   asOf,
		Source: source,
	}
}

// cloneRates is used by providers that hand out a shared table.
func cloneRates(m map[currency.Code]decimal.Decimal) map[currency.Code]decimal.Decimal {
	return maps.Clone(m)
}
