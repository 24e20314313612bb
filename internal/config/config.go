package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
)

// Rate provider names accepted in RATES_PROVIDERS.
const (
	ProviderOpenER      = "opener"
	ProviderFrankfurter = "frankfurter"
	ProviderECB         = "ecb"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Spendwise"`
		Port int    `envconfig:"PORT" default:"8000"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"spendwise"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Rates struct {
		TTL            time.Duration `envconfig:"RATES_TTL" default:"1h"`
		FetchTimeout   time.Duration `envconfig:"RATES_FETCH_TIMEOUT" default:"5s"`
		Providers      []string      `envconfig:"RATES_PROVIDERS" default:"opener,frankfurter"`
		OpenERURL      string        `envconfig:"RATES_OPENER_URL" default:"https://open.er-api.com/v6"`
		FrankfurterURL string        `envconfig:"RATES_FRANKFURTER_URL" default:"https://api.frankfurter.app"`
		ECBURL         string        `envconfig:"RATES_ECB_URL" default:"https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"`
		StaticFallback bool          `envconfig:"RATES_STATIC_FALLBACK" default:"false"`
		// Cron expression; empty disables the warmer.
		WarmSchedule string   `envconfig:"RATES_WARM_SCHEDULE" default:""`
		WarmBases    []string `envconfig:"RATES_WARM_BASES" default:"USD"`
	}

	Stats struct {
		RecentLimit int `envconfig:"STATS_RECENT_LIMIT" default:"5"`
		// Empty sums amounts as stored.
		ReportingCurrency string `envconfig:"STATS_REPORTING_CURRENCY" default:""`
	}

	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Client struct {
		BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8000/api"`
		Token   string        `envconfig:"API_TOKEN"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	known := []string{ProviderOpenER, ProviderFrankfurter, ProviderECB}

	for i, p := range c.Rates.Providers {
		p = strings.ToLower(strings.TrimSpace(p))
		if !slices.Contains(known, p) {
			return fmt.Errorf("unknown rate provider %q", p)
		}

		c.Rates.Providers[i] = p
	}

	if len(c.Rates.Providers) == 0 && !c.Rates.StaticFallback {
		return fmt.Errorf("no rate providers configured")
	}

	for _, b := range c.Rates.WarmBases {
		if _, err := currency.Parse(b); err != nil {
			return fmt.Errorf("warm base: %w", err)
		}
	}

	if c.Stats.ReportingCurrency != "" {
		if _, err := currency.Parse(c.Stats.ReportingCurrency); err != nil {
			return fmt.Errorf("reporting currency: %w", err)
		}
	}

	if c.Stats.RecentLimit < 0 {
		return fmt.Errorf("recent limit must not be negative")
	}

	return nil
}
