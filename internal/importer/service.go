package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type ExpenseStore interface {
	CreateBatch(ctx context.Context, params []expense.Params) ([]*expense.Expense, error)
	ListCategories(ctx context.Context) ([]*expense.Category, error)
}

type Service struct {
	store  ExpenseStore
	parser *Parser
}

func NewService(store ExpenseStore) *Service {
	return &Service{
		store:  store,
		parser: NewParser(),
	}
}

// Import parses r and stores every row in one batch. Category names are
// matched case-insensitively; an unknown name rejects the whole file.
func (s *Service) Import(ctx context.Context, r io.Reader) ([]*expense.Expense, error) {
	rows, err := s.parser.Parse(r)
	if err != nil {
		return nil, &expense.ValidationError{Field: "file", Msg: err.Error()}
	}

	if len(rows) == 0 {
		return []*expense.Expense{}, nil
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	byName := make(map[string]uuid.UUID, len(categories))
	for _, c := range categories {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	params := make([]expense.Params, len(rows))

	for i, row := range rows {
		p := expense.Params{
			Title:       row.Title,
			Amount:      row.Amount,
			Currency:    row.Currency,
			Description: row.Description,
			Date:        row.Date,
		}

		if row.Category != "" {
			id, ok := byName[strings.ToLower(row.Category)]
			if !ok {
				return nil, &expense.ValidationError{
					Field: "category",
					Msg:   fmt.Sprintf("line %d: unknown category %q", row.Line, row.Category),
				}
			}

			p.CategoryID = &id
		}

		params[i] = p
	}

	created, err := s.store.CreateBatch(ctx, params)
	if err != nil {
		return nil, err
	}

	slog.Info("imported expenses", "count", len(created))

	return created, nil
}
