package expense

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes a rejected field. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

const (
	DefaultCategoryColor = "#3B82F6"
	DefaultCategoryIcon  = "receipt"
)

// Expense is a single spend. Amount is always positive; Date carries no
// time of day.
type Expense struct {
	ID          uuid.UUID
	Title       string
	Amount      decimal.Decimal
	Currency    currency.Code
	CategoryID  *uuid.UUID
	Category    *CategoryRef // Loaded via JOIN
	Description string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// CategoryRef is the display part of a category attached to an expense.
type CategoryRef struct {
	Name  string
	Color string
}

// Category groups expenses.
type Category struct {
	ID           uuid.UUID
	Name         string
	Color        string
	Icon         string
	ExpenseCount int
	CreatedAt    time.Time
}
