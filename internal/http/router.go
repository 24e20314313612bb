package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/spendwise/internal/http/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/http/category"
	"github.com/MrJamesThe3rd/spendwise/internal/http/currency"
	"github.com/MrJamesThe3rd/spendwise/internal/http/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/http/export"
)

type Options struct {
	AllowedOrigins []string
	// JWTSecret enables bearer authentication on /api when set.
	JWTSecret string
	Timeout   time.Duration
}

func New(
	expenses *expense.Handler,
	categories *category.Handler,
	currencies *currency.Handler,
	exports *export.Handler,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(auth.Middleware([]byte(opts.JWTSecret)))
		}

		r.Route("/expenses", expenses.Routes)
		r.Route("/categories", categories.Routes)
		r.Route("/export", exports.Routes)
		r.Group(currencies.Routes)
	})

	return router
}
