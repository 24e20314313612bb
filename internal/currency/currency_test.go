package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    currency.Code
		wantErr bool
	}{
		{name: "Upper", in: "USD", want: currency.USD},
		{name: "LowerWithSpaces", in: " eur ", want: currency.EUR},
		{name: "Unsupported", in: "CHF", wantErr: true},
		{name: "Empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := currency.Parse(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, currency.ErrUnsupported)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScale(t *testing.T) {
	assert.Equal(t, int32(0), currency.Scale(currency.JPY))
	assert.Equal(t, int32(2), currency.Scale(currency.USD))
	assert.Equal(t, int32(2), currency.Scale(currency.EUR))
	assert.Equal(t, int32(2), currency.Scale("XXQ"))
}

func TestRound(t *testing.T) {
	assert.Equal(t, "1235", currency.Round(decimal.RequireFromString("1234.5"), currency.JPY).String())
	assert.Equal(t, "12.35", currency.Round(decimal.RequireFromString("12.345"), currency.USD).String())
}

func TestSupportedIsACopy(t *testing.T) {
	codes := currency.Supported()
	codes[0] = "XXX"

	assert.Equal(t, currency.USD, currency.Supported()[0])
	assert.Len(t, currency.Supported(), 8)
}
