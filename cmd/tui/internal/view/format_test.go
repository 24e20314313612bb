package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"12.5", "USD", "$12.50"},
		{"1200", "JPY", "¥1200"},
		{"0", "EUR", "€0.00"},
		{"3.456", "GBP", "£3.46"},
		{"10", "CHF", "10.00 CHF"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.amount), tt.code))
		})
	}
}

func TestAverage(t *testing.T) {
	assert.True(t, Average(decimal.RequireFromString("100"), 3).Equal(decimal.RequireFromString("33.33")))
	assert.True(t, Average(decimal.RequireFromString("100"), 0).IsZero())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Café…", truncate("Café crème", 5))
}

func TestPeriod_Range(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		period    Period
		wantStart string
		wantEnd   string
		wantOK    bool
	}{
		{PeriodAll, "", "", false},
		{PeriodThisMonth, "2024-03-01", "2024-03-15", true},
		{PeriodLastMonth, "2024-02-01", "2024-02-29", true},
		{PeriodLast6Months, "2023-10-01", "2024-03-15", true},
		{PeriodThisYear, "2024-01-01", "2024-03-15", true},
		{PeriodCustom, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.period.String(), func(t *testing.T) {
			start, end, ok := tt.period.Range(now)
			assert.Equal(t, tt.wantOK, ok)

			if !tt.wantOK {
				return
			}

			assert.Equal(t, tt.wantStart, start.Format(time.DateOnly))
			assert.Equal(t, tt.wantEnd, end.Format(time.DateOnly))
		})
	}
}
