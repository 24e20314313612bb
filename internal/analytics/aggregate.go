package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

// Expenses without a category, or whose category no longer exists, are
// reported under this bucket so the breakdown always sums to the total.
const (
	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#9CA3AF"
)

type CategoryTotal struct {
	CategoryID *uuid.UUID // nil for the uncategorized bucket
	Name       string
	Color      string
	Total      decimal.Decimal
	Count      int
}

type MonthlyTotal struct {
	Month string // YYYY-MM
	Total decimal.Decimal
	Count int
}

// Snapshot is derived on demand from an expense list and never stored.
type Snapshot struct {
	TotalExpenses     decimal.Decimal
	ExpenseCount      int
	CategoryBreakdown []CategoryTotal
	MonthlyTotals     []MonthlyTotal
	RecentExpenses    []*expense.Expense
	Currencies        []currency.Code
	ReportingCurrency currency.Code
}

// Share returns part as a percentage of the snapshot total, or zero when
// the total is zero.
func (s Snapshot) Share(part decimal.Decimal) decimal.Decimal {
	if s.TotalExpenses.IsZero() {
		return decimal.Zero
	}

	return part.Div(s.TotalExpenses).Mul(decimal.NewFromInt(100))
}

// MixedCurrencies reports whether TotalExpenses adds up amounts in more
// than one currency.
func (s Snapshot) MixedCurrencies() bool {
	return len(s.Currencies) > 1
}

type Options struct {
	RecentLimit int
	// PadMonths fills every month between the first and last one seen
	// with a zero entry.
	PadMonths bool
}

type month struct {
	year  int
	month time.Month
}

func (m month) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, int(m.month))
}

func (m month) next() month {
	if m.month == time.December {
		return month{year: m.year + 1, month: time.January}
	}

	return month{year: m.year, month: m.month + 1}
}

func compareMonths(a, b month) int {
	if c := cmp.Compare(a.year, b.year); c != 0 {
		return c
	}

	return cmp.Compare(a.month, b.month)
}

// Aggregate computes totals, a per-category breakdown, a monthly trend and
// the most recent expenses. Amounts are summed as given; callers wanting a
// single-currency total convert beforehand. Inputs are not modified.
func Aggregate(expenses []*expense.Expense, categories []*expense.Category, opts Options) Snapshot {
	snap := Snapshot{
		TotalExpenses:     decimal.Zero,
		CategoryBreakdown: []CategoryTotal{},
		MonthlyTotals:     []MonthlyTotal{},
		RecentExpenses:    []*expense.Expense{},
		Currencies:        []currency.Code{},
	}

	known := make(map[uuid.UUID]*expense.Category, len(categories))
	for _, c := range categories {
		known[c.ID] = c
	}

	buckets := make(map[uuid.UUID]*CategoryTotal)
	months := make(map[month]*MonthlyTotal)
	seenCurrencies := make(map[currency.Code]struct{})

	for _, e := range expenses {
		snap.TotalExpenses = snap.TotalExpenses.Add(e.Amount)
		snap.ExpenseCount++
		seenCurrencies[e.Currency] = struct{}{}

		key := uuid.Nil
		if e.CategoryID != nil {
			if _, ok := known[*e.CategoryID]; ok {
				key = *e.CategoryID
			}
		}

		b, ok := buckets[key]
		if !ok {
			b = newBucket(key, known)
			buckets[key] = b
		}

		b.Total = b.Total.Add(e.Amount)
		b.Count++

		m := month{year: e.Date.Year(), month: e.Date.Month()}

		mt, ok := months[m]
		if !ok {
			mt = &MonthlyTotal{Month: m.String(), Total: decimal.Zero}
			months[m] = mt
		}

		mt.Total = mt.Total.Add(e.Amount)
		mt.Count++
	}

	for _, b := range buckets {
		snap.CategoryBreakdown = append(snap.CategoryBreakdown, *b)
	}

	slices.SortFunc(snap.CategoryBreakdown, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}

		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}

		return cmp.Compare(idString(a.CategoryID), idString(b.CategoryID))
	})

	snap.MonthlyTotals = monthlyTotals(months, opts.PadMonths)
	snap.RecentExpenses = recent(expenses, opts.RecentLimit)

	for c := range seenCurrencies {
		snap.Currencies = append(snap.Currencies, c)
	}

	slices.Sort(snap.Currencies)

	return snap
}

func newBucket(key uuid.UUID, known map[uuid.UUID]*expense.Category) *CategoryTotal {
	if key == uuid.Nil {
		return &CategoryTotal{Name: UncategorizedName, Color: UncategorizedColor, Total: decimal.Zero}
	}

	c := known[key]
	id := c.ID

	return &CategoryTotal{CategoryID: &id, Name: c.Name, Color: c.Color, Total: decimal.Zero}
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}

	return id.String()
}

func monthlyTotals(months map[month]*MonthlyTotal, pad bool) []MonthlyTotal {
	keys := make([]month, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}

	slices.SortFunc(keys, compareMonths)

	out := []MonthlyTotal{}

	if !pad || len(keys) == 0 {
		for _, m := range keys {
			out = append(out, *months[m])
		}

		return out
	}

	last := keys[len(keys)-1]

	for m := keys[0]; compareMonths(m, last) <= 0; m = m.next() {
		if mt, ok := months[m]; ok {
			out = append(out, *mt)
			continue
		}

		out = append(out, MonthlyTotal{Month: m.String(), Total: decimal.Zero})
	}

	return out
}

// recent returns up to limit expenses, newest date first; expenses on the
// same date keep their input order.
func recent(expenses []*expense.Expense, limit int) []*expense.Expense {
	if limit <= 0 || len(expenses) == 0 {
		return []*expense.Expense{}
	}

	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(a, b *expense.Expense) int {
		return b.Date.Compare(a.Date)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted
}
