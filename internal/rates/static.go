package rates

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
)

// fallbackUSD are fixed USD based reference rates used when every live
// provider is down and the static fallback is enabled.
var fallbackUSD = map[currency.Code]decimal.Decimal{
	currency.USD: decimal.RequireFromString("1.0"),
	currency.EUR: decimal.RequireFromString("0.92"),
	currency.GBP: decimal.RequireFromString("0.79"),
	currency.JPY: decimal.RequireFromString("149.50"),
	currency.CAD: decimal.RequireFromString("1.36"),
	currency.AUD: decimal.RequireFromString("1.53"),
	currency.INR: decimal.RequireFromString("83.12"),
	currency.CNY: decimal.RequireFromString("7.24"),
}

// StaticProvider serves the built-in fallback table. It never fails for a
// supported base.
type StaticProvider struct{}

func (StaticProvider) Fetch(_ context.Context, base currency.Code) (*Set, error) {
	if base == currency.USD {
		return &Set{
			Base:   currency.USD,
			Rates:  cloneRates(fallbackUSD),
			Source: "static",
			Note:   "fallback rates, live providers unavailable",
		}, nil
	}

	baseRate, ok := fallbackUSD[base]
	if !ok {
		return nil, fmt.Errorf("%w: no fallback rate for %s", ErrProvider, base)
	}

	rates := make(map[currency.Code]decimal.Decimal, len(fallbackUSD))
	for c, r := range fallbackUSD {
		rates[c] = r.Div(baseRate)
	}

	rates[base] = decimal.NewFromInt(1)

	return &Set{
		Base:   base,
		Rates:  rates,
		Source: "static",
		Note:   "fallback rates, live providers unavailable",
	}, nil
}
