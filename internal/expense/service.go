package expense

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	CreateExpenses(ctx context.Context, es []*Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	DeleteExpense(ctx context.Context, id uuid.UUID) error
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)

	CreateCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context) ([]*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

type Params struct {
	Title       string
	Amount      decimal.Decimal
	Currency    string
	CategoryID  *uuid.UUID
	Description string
	Date        time.Time
}

type CategoryParams struct {
	Name  string
	Color string
	Icon  string
}

const (
	maxTitleLen        = 200
	maxCategoryNameLen = 100
)

// validate checks p and returns the normalised expense fields.
func (p Params) validate() (*Expense, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Msg: "is required"}
	}

	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, &ValidationError{Field: "title", Msg: fmt.Sprintf("must be at most %d characters", maxTitleLen)}
	}

	amount := p.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Msg: "must be at least 0.01"}
	}

	code := currency.USD
	if p.Currency != "" {
		c, err := currency.Parse(p.Currency)
		if err != nil {
			return nil, &ValidationError{Field: "currency", Msg: err.Error()}
		}

		code = c
	}

	if p.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Msg: "is required"}
	}

	return &Expense{
		Title:       title,
		Amount:      amount,
		Currency:    code,
		CategoryID:  p.CategoryID,
		Description: p.Description,
		Date:        DateOnly(p.Date),
	}, nil
}

// DateOnly truncates t to its calendar date at UTC midnight.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) Create(ctx context.Context, params Params) (*Expense, error) {
	e, err := params.validate()
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// CreateBatch validates every entry before storing any; the batch is
// stored atomically.
func (s *Service) CreateBatch(ctx context.Context, params []Params) ([]*Expense, error) {
	if len(params) == 0 {
		return nil, nil
	}

	es := make([]*Expense, len(params))

	for i, p := range params {
		e, err := p.validate()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		es[i] = e
	}

	if err := s.repo.CreateExpenses(ctx, es); err != nil {
		return nil, fmt.Errorf("create expenses: %w", err)
	}

	return es, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

// Update replaces every editable field of the expense with id.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params Params) (*Expense, error) {
	e, err := params.validate()
	if err != nil {
		return nil, err
	}

	e.ID = id

	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return nil, err
	}

	return s.repo.GetExpense(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteExpense(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, filter)
}

func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, params CategoryParams) (*Category, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Msg: "is required"}
	}

	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return nil, &ValidationError{Field: "name", Msg: fmt.Sprintf("must be at most %d characters", maxCategoryNameLen)}
	}

	c := &Category{
		Name:  name,
		Color: params.Color,
		Icon:  params.Icon,
	}

	if c.Color == "" {
		c.Color = DefaultCategoryColor
	}

	if c.Icon == "" {
		c.Icon = DefaultCategoryIcon
	}

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// DeleteCategory removes a category. Its expenses become uncategorized.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}
