package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/export"
	httpexpense "github.com/MrJamesThe3rd/spendwise/internal/http/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/http/render"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download streams the filtered expenses as CSV, or as a zip bundle with a
// summary when format=zip.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := httpexpense.ParseFilter(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	stamp := h.now().Format("20060102")

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses_%s.csv\"", stamp))

		n, err := h.svc.WriteCSV(r.Context(), w, filter)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		slog.Info("exported expenses", "format", "csv", "count", n)
	case "zip":
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"export_%s.zip\"", stamp))

		n, err := h.svc.WriteZip(r.Context(), w, filter)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		slog.Info("exported expenses", "format", "zip", "count", n)
	default:
		http.Error(w, fmt.Sprintf("unsupported format %q", format), http.StatusBadRequest)
	}
}

// fail reports err unless the body has already started; the listing
// happens before any byte is written, so that is the common case.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Del("Content-Disposition")
	w.Header().Del("Content-Type")
	render.Error(w, r, err)
}
