package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/currency"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

type expenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      currency.Code   `json:"currency"`
	Category      *uuid.UUID      `json:"category"`
	CategoryName  string          `json:"category_name,omitempty"`
	CategoryColor string          `json:"category_color,omitempty"`
	Description   string          `json:"description"`
	Date          string          `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(e *expense.Expense) expenseResponse {
	resp := expenseResponse{
		ID:          e.ID,
		Title:       e.Title,
		Amount:      e.Amount.Round(2),
		Currency:    e.Currency,
		Category:    e.CategoryID,
		Description: e.Description,
		Date:        e.Date.Format(time.DateOnly),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}

	if e.Category != nil {
		resp.CategoryName = e.Category.Name
		resp.CategoryColor = e.Category.Color
	}

	return resp
}

func toResponseList(es []*expense.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(es))
	for i, e := range es {
		resp[i] = toResponse(e)
	}

	return resp
}

type categoryTotalResponse struct {
	ID         *uuid.UUID      `json:"id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

type monthlyTotalResponse struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type statsResponse struct {
	TotalExpenses     decimal.Decimal         `json:"total_expenses"`
	ExpenseCount      int                     `json:"expense_count"`
	CategoryBreakdown []categoryTotalResponse `json:"category_breakdown"`
	MonthlyTotals     []monthlyTotalResponse  `json:"monthly_totals"`
	RecentExpenses    []expenseResponse       `json:"recent_expenses"`
	Currencies        []currency.Code         `json:"currencies"`
	ReportingCurrency currency.Code           `json:"reporting_currency,omitempty"`
	MixedCurrencies   bool                    `json:"mixed_currencies"`
}

func toStatsResponse(s analytics.Snapshot) statsResponse {
	resp := statsResponse{
		TotalExpenses:     s.TotalExpenses.Round(2),
		ExpenseCount:      s.ExpenseCount,
		CategoryBreakdown: make([]categoryTotalResponse, len(s.CategoryBreakdown)),
		MonthlyTotals:     make([]monthlyTotalResponse, len(s.MonthlyTotals)),
		RecentExpenses:    toResponseList(s.RecentExpenses),
		Currencies:        s.Currencies,
		ReportingCurrency: s.ReportingCurrency,
		MixedCurrencies:   s.MixedCurrencies(),
	}

	for i, c := range s.CategoryBreakdown {
		resp.CategoryBreakdown[i] = categoryTotalResponse{
			ID:         c.CategoryID,
			Name:       c.Name,
			Color:      c.Color,
			Total:      c.Total.Round(2),
			Count:      c.Count,
			Percentage: s.Share(c.Total).Round(1),
		}
	}

	for i, m := range s.MonthlyTotals {
		resp.MonthlyTotals[i] = monthlyTotalResponse{
			Month: m.Month,
			Total: m.Total.Round(2),
			Count: m.Count,
		}
	}

	return resp
}

type importResponse struct {
	Imported int               `json:"imported"`
	Expenses []expenseResponse `json:"expenses"`
}
