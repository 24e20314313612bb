package expense

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/http/render"
	"github.com/MrJamesThe3rd/spendwise/internal/importer"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc       *expense.Service
	analytics *analytics.Facade
	importer  *importer.Service
}

func NewHandler(svc *expense.Service, facade *analytics.Facade, importSvc *importer.Service) *Handler {
	return &Handler{
		svc:       svc,
		analytics: facade,
		importer:  importSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/stats", h.stats)
	r.Post("/import", h.importCSV)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type expenseRequest struct {
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    *uuid.UUID      `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

func (req expenseRequest) params() (expense.Params, error) {
	p := expense.Params{
		Title:       req.Title,
		Amount:      req.Amount,
		Currency:    req.Currency,
		CategoryID:  req.Category,
		Description: req.Description,
	}

	if req.Date != "" {
		d, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			return expense.Params{}, &expense.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
		}

		p.Date = d
	}

	return p, nil
}

func decodeParams(r *http.Request) (expense.Params, error) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return expense.Params{}, &expense.ValidationError{Field: "body", Msg: err.Error()}
	}

	return req.params()
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	params, err := decodeParams(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	e, err := h.svc.Create(r.Context(), params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	es, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(es))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	params, err := decodeParams(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	e, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	req := analytics.StatsRequest{Filter: filter}
	q := r.URL.Query()

	if s := q.Get("recent"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "recent must be a non-negative integer", http.StatusBadRequest)
			return
		}

		req.RecentLimit = &n
	}

	if s := q.Get("pad_months"); s != "" {
		pad, err := strconv.ParseBool(s)
		if err != nil {
			http.Error(w, "pad_months must be a boolean", http.StatusBadRequest)
			return
		}

		req.PadMonths = pad
	}

	snap, err := h.analytics.GetStats(r.Context(), req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toStatsResponse(snap))
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	created, err := h.importer.Import(r.Context(), file)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, importResponse{
		Imported: len(created),
		Expenses: toResponseList(created),
	})
}

// ParseFilter reads the category, start_date and end_date query parameters.
func ParseFilter(r *http.Request) (expense.ListFilter, error) {
	var filter expense.ListFilter

	q := r.URL.Query()

	if s := q.Get("category"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return filter, &expense.ValidationError{Field: "category", Msg: "invalid id"}
		}

		filter.CategoryID = &id
	}

	for _, p := range []struct {
		key string
		dst **time.Time
	}{
		{"start_date", &filter.StartDate},
		{"end_date", &filter.EndDate},
	} {
		s := q.Get(p.key)
		if s == "" {
			continue
		}

		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, &expense.ValidationError{Field: p.key, Msg: fmt.Sprintf("invalid date %q", s)}
		}

		*p.dst = &t
	}

	return filter, nil
}
