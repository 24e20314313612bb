package currency

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/currency"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/http/render"
)

// Applied rates are presented with six fractional digits.
const rateDigits = 6

type Handler struct {
	facade *analytics.Facade
}

func NewHandler(facade *analytics.Facade) *Handler {
	return &Handler{facade: facade}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/exchange-rates", h.rates)
	r.Post("/convert-currency", h.convert)
}

type ratesResponse struct {
	Base   currency.Code                     `json:"base"`
	Rates  map[currency.Code]decimal.Decimal `json:"rates"`
	Date   string                            `json:"date"`
	Source string                            `json:"source"`
	Note   string                            `json:"note,omitempty"`
	Stale  bool                              `json:"stale"`
}

func (h *Handler) rates(w http.ResponseWriter, r *http.Request) {
	base := currency.USD

	if s := r.URL.Query().Get("base"); s != "" {
		c, err := currency.Parse(s)
		if err != nil {
			render.Error(w, r, err)
			return
		}

		base = c
	}

	set, err := h.facade.Rates(r.Context(), base)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, ratesResponse{
		Base:   set.Base,
		Rates:  set.Rates,
		Date:   set.AsOf.UTC().Format(time.DateOnly),
		Source: set.Source,
		Note:   set.Note,
		Stale:  set.Stale,
	})
}

type convertRequest struct {
	Amount       *decimal.Decimal `json:"amount"`
	FromCurrency string           `json:"from_currency"`
	ToCurrency   string           `json:"to_currency"`
}

type convertResponse struct {
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	FromCurrency    currency.Code   `json:"from_currency"`
	ToCurrency      currency.Code   `json:"to_currency"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	Rate            decimal.Decimal `json:"rate"`
	Date            string          `json:"date"`
	Source          string          `json:"source,omitempty"`
	Note            string          `json:"note,omitempty"`
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, r, &expense.ValidationError{Field: "body", Msg: err.Error()})
		return
	}

	if req.Amount == nil {
		http.Error(w, "amount is required", http.StatusBadRequest)
		return
	}

	from, err := parseOrDefault(req.FromCurrency)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	to, err := parseOrDefault(req.ToCurrency)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	res, err := h.facade.Convert(r.Context(), *req.Amount, from, to)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	asOf := res.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	render.JSON(w, http.StatusOK, convertResponse{
		OriginalAmount:  res.Amount,
		FromCurrency:    res.From,
		ToCurrency:      res.To,
		ConvertedAmount: res.Converted,
		Rate:            res.Rate.Round(rateDigits),
		Date:            asOf.UTC().Format(time.DateOnly),
		Source:          res.Source,
		Note:            res.Note,
	})
}

// parseOrDefault reads a currency code, treating an empty value as USD.
func parseOrDefault(s string) (currency.Code, error) {
	if s == "" {
		return currency.USD, nil
	}

	return currency.Parse(s)
}
