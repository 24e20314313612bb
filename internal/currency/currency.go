package currency

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"
)

// ErrUnsupported is returned when a currency code is outside the supported set.
var ErrUnsupported = errors.New("unsupported currency")

// Code is an ISO 4217 currency code.
type Code string

const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	JPY Code = "JPY"
	CAD Code = "CAD"
	AUD Code = "AUD"
	INR Code = "INR"
	CNY Code = "CNY"
)

var supported = []Code{USD, EUR, GBP, JPY, CAD, AUD, INR, CNY}

// Supported returns the supported currency codes in display order.
func Supported() []Code {
	return slices.Clone(supported)
}

// IsSupported reports whether c is one of the supported codes.
func (c Code) IsSupported() bool {
	return slices.Contains(supported, c)
}

func (c Code) String() string { return string(c) }

// Parse normalises s and checks it against the supported set.
func Parse(s string) (Code, error) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsSupported() {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
	}

	return c, nil
}

// Scale returns the number of minor-unit digits for c, as published in the
// CLDR tables shipped with x/text. Unknown codes fall back to 2.
func Scale(c Code) int32 {
	unit, err := xcurrency.ParseISO(string(c))
	if err != nil {
		return 2
	}

	scale, _ := xcurrency.Standard.Rounding(unit)

	return int32(scale)
}

// Round rounds d half-up to the minor units of c.
func Round(d decimal.Decimal, c Code) decimal.Decimal {
	return d.Round(Scale(c))
}
