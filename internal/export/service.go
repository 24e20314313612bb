package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=export

const (
	CSVName     = "expenses.csv"
	SummaryName = "summary.txt"
)

// Header matches the column names the importer recognises, so an export can
// be imported again unchanged.
var Header = []string{"date", "title", "amount", "currency", "category", "description"}

type ExpenseLister interface {
	List(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error)
}

// Service writes expenses out as CSV or as a zip bundle with a summary.
type Service struct {
	expenses ExpenseLister
}

func NewService(expenses ExpenseLister) *Service {
	return &Service{expenses: expenses}
}

// WriteCSV writes every expense matching the filter to w and returns how
// many rows were written.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, filter expense.ListFilter) (int, error) {
	es, err := s.expenses.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing expenses: %w", err)
	}

	if err := writeCSV(w, es); err != nil {
		return 0, err
	}

	return len(es), nil
}

// WriteZip writes a zip archive holding the CSV export and a plain text
// summary of the same expenses.
func (s *Service) WriteZip(ctx context.Context, w io.Writer, filter expense.ListFilter) (int, error) {
	es, err := s.expenses.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing expenses: %w", err)
	}

	zw := zip.NewWriter(w)

	f, err := zw.Create(CSVName)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", CSVName, err)
	}

	if err := writeCSV(f, es); err != nil {
		return 0, err
	}

	f, err = zw.Create(SummaryName)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", SummaryName, err)
	}

	if _, err := io.WriteString(f, Summary(es)); err != nil {
		return 0, fmt.Errorf("writing %s: %w", SummaryName, err)
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("closing archive: %w", err)
	}

	return len(es), nil
}

func writeCSV(w io.Writer, es []*expense.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range es {
		if err := cw.Write(record(e)); err != nil {
			return fmt.Errorf("writing expense %s: %w", e.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

func record(e *expense.Expense) []string {
	category := ""
	if e.Category != nil {
		category = e.Category.Name
	}

	return []string{
		e.Date.Format(time.DateOnly),
		e.Title,
		e.Amount.StringFixed(currency.Scale(e.Currency)),
		string(e.Currency),
		category,
		e.Description,
	}
}

// Summary renders one line per expense followed by a total per currency.
func Summary(es []*expense.Expense) string {
	var sb strings.Builder

	totals := make(map[currency.Code]decimal.Decimal)

	for _, e := range es {
		category := "Uncategorized"
		if e.Category != nil {
			category = e.Category.Name
		}

		scale := currency.Scale(e.Currency)
		fmt.Fprintf(&sb, "* %s | %s | %s %s | %s\n",
			e.Date.Format(time.DateOnly), e.Title, e.Amount.StringFixed(scale), e.Currency, category)

		totals[e.Currency] = totals[e.Currency].Add(e.Amount)
	}

	codes := make([]currency.Code, 0, len(totals))
	for c := range totals {
		codes = append(codes, c)
	}

	slices.Sort(codes)

	if len(codes) > 0 {
		sb.WriteString("\n")
	}

	for _, c := range codes {
		fmt.Fprintf(&sb, "Total %s: %s\n", c, totals[c].StringFixed(currency.Scale(c)))
	}

	return sb.String()
}
