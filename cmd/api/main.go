package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
	"github.com/MrJamesThe3rd/spendwise/internal/converter"
	"github.com/MrJamesThe3rd/spendwise/internal/currency"
	"github.com/MrJamesThe3rd/spendwise/internal/database"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/spendwise/internal/expense/store"
	"github.com/MrJamesThe3rd/spendwise/internal/export"
	spendHttp "github.com/MrJamesThe3rd/spendwise/internal/http"
	categoryHandler "github.com/MrJamesThe3rd/spendwise/internal/http/category"
	currencyHandler "github.com/MrJamesThe3rd/spendwise/internal/http/currency"
	expenseHandler "github.com/MrJamesThe3rd/spendwise/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/spendwise/internal/http/export"
	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/rates"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DB.Migrate {
		if err := database.Migrate(cfg.ConnectionString()); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
	}

	db, err := database.Open(ctx, cfg.ConnectionString(), database.DefaultPool)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	cache := rates.NewCache(
		buildProvider(cfg),
		rates.WithTTL(cfg.Rates.TTL),
		rates.WithFetchTimeout(cfg.Rates.FetchTimeout),
	)

	var (
		expenseService = expense.NewService(expenseStore.New(db))
		importService  = importer.NewService(expenseService)
		facade         = analytics.NewFacade(
			expenseService,
			converter.New(cache),
			facadeOptions(cfg)...,
		)
	)

	var (
		expenseH  = expenseHandler.NewHandler(expenseService, facade, importService)
		categoryH = categoryHandler.NewHandler(expenseService)
		currencyH = currencyHandler.NewHandler(facade)
		exportH   = exportHandler.NewHandler(export.NewService(expenseService))
	)

	router := spendHttp.New(expenseH, categoryH, currencyH, exportH, spendHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
		Timeout:        cfg.Server.Timeout,
	})

	if cfg.Rates.WarmSchedule != "" {
		warmer := rates.NewWarmer(cache, warmBases(cfg))
		if err := warmer.Start(cfg.Rates.WarmSchedule); err != nil {
			return err
		}
		defer warmer.Stop()

		go warmer.Warm(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func buildProvider(cfg *config.Config) rates.Provider {
	client := &http.Client{Timeout: cfg.Rates.FetchTimeout}

	var chain rates.Chain

	for _, name := range cfg.Rates.Providers {
		switch name {
		case config.ProviderOpenER:
			chain = append(chain, rates.NewOpenERProvider(cfg.Rates.OpenERURL, client))
		case config.ProviderFrankfurter:
			chain = append(chain, rates.NewFrankfurterProvider(cfg.Rates.FrankfurterURL, client))
		case config.ProviderECB:
			chain = append(chain, rates.NewECBProvider(cfg.Rates.ECBURL, client))
		}
	}

	if cfg.Rates.StaticFallback {
		chain = append(chain, rates.StaticProvider{})
	}

	return chain
}

func facadeOptions(cfg *config.Config) []analytics.FacadeOption {
	opts := []analytics.FacadeOption{analytics.WithDefaultRecentLimit(cfg.Stats.RecentLimit)}

	if cfg.Stats.ReportingCurrency != "" {
		// Validated by config.Load.
		code, _ := currency.Parse(cfg.Stats.ReportingCurrency)
		opts = append(opts, analytics.WithReportingCurrency(code))
	}

	return opts
}

func warmBases(cfg *config.Config) []currency.Code {
	bases := make([]currency.Code, 0, len(cfg.Rates.WarmBases))

	for _, b := range cfg.Rates.WarmBases {
		code, _ := currency.Parse(b)
		bases = append(bases, code)
	}

	return bases
}
