package client

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Category      *uuid.UUID      `json:"category"`
	CategoryName  string          `json:"category_name"`
	CategoryColor string          `json:"category_color"`
	Description   string          `json:"description"`
	Date          string          `json:"date"`
}

type NewExpense struct {
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Category    *uuid.UUID      `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Date        string          `json:"date"`
}

type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Icon         string    `json:"icon"`
	ExpenseCount int       `json:"expense_count"`
}

type CategoryTotal struct {
	ID         *uuid.UUID      `json:"id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

type MonthlyTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type Stats struct {
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	ExpenseCount      int             `json:"expense_count"`
	CategoryBreakdown []CategoryTotal `json:"category_breakdown"`
	MonthlyTotals     []MonthlyTotal  `json:"monthly_totals"`
	RecentExpenses    []Expense       `json:"recent_expenses"`
	Currencies        []string        `json:"currencies"`
	ReportingCurrency string          `json:"reporting_currency"`
	MixedCurrencies   bool            `json:"mixed_currencies"`
}

type Rates struct {
	Base   string                     `json:"base"`
	Rates  map[string]decimal.Decimal `json:"rates"`
	Date   string                     `json:"date"`
	Source string                     `json:"source"`
	Note   string                     `json:"note"`
	Stale  bool                       `json:"stale"`
}

type Conversion struct {
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	FromCurrency    string          `json:"from_currency"`
	ToCurrency      string          `json:"to_currency"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	Rate            decimal.Decimal `json:"rate"`
	Date            string          `json:"date"`
	Note            string          `json:"note"`
}

// Filter narrows expense lists and stats. Zero fields are omitted.
type Filter struct {
	Category  *uuid.UUID
	StartDate string
	EndDate   string
}
