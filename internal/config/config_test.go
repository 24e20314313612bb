package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Spendwise", cfg.App.Name)
	assert.Equal(t, 8000, cfg.App.Port)
	assert.Equal(t, time.Hour, cfg.Rates.TTL)
	assert.Equal(t, 5*time.Second, cfg.Rates.FetchTimeout)
	assert.Equal(t, []string{config.ProviderOpenER, config.ProviderFrankfurter}, cfg.Rates.Providers)
	assert.False(t, cfg.Rates.StaticFallback)
	assert.Equal(t, 5, cfg.Stats.RecentLimit)
	assert.Empty(t, cfg.Stats.ReportingCurrency)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "http://localhost:8000/api", cfg.Client.BaseURL)
	assert.Equal(t, "postgres://postgres:@localhost:5432/spendwise?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATES_TTL", "15m")
	t.Setenv("RATES_PROVIDERS", "ECB, Frankfurter")
	t.Setenv("STATS_REPORTING_CURRENCY", "eur")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 15*time.Minute, cfg.Rates.TTL)
	assert.Equal(t, []string{config.ProviderECB, config.ProviderFrankfurter}, cfg.Rates.Providers)
	assert.Equal(t, "eur", cfg.Stats.ReportingCurrency)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "UnknownProvider", env: map[string]string{"RATES_PROVIDERS": "yahoo"}},
		{name: "UnsupportedWarmBase", env: map[string]string{"RATES_WARM_BASES": "CHF"}},
		{name: "UnsupportedReportingCurrency", env: map[string]string{"STATS_REPORTING_CURRENCY": "XYZ"}},
		{name: "NegativeRecentLimit", env: map[string]string{"STATS_RECENT_LIMIT": "-1"}},
		{name: "BadDuration", env: map[string]string{"RATES_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
