package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanExpense reads an expense row joined with its category.
// Expected column order: id, title, amount, currency, category_id, description, date,
// created_at, updated_at, category_name, category_color
func scanExpense(s scanner) (*expense.Expense, error) {
	var e expense.Expense

	var code string

	var catName, catColor sql.NullString

	if err := s.Scan(
		&e.ID, &e.Title, &e.Amount, &code, &e.CategoryID, &e.Description, &e.Date,
		&e.CreatedAt, &e.UpdatedAt,
		&catName, &catColor,
	); err != nil {
		return nil, err
	}

	e.Currency = currency.Code(code)
	e.Date = expense.DateOnly(e.Date)

	if e.CategoryID != nil && catName.Valid {
		e.Category = &expense.CategoryRef{Name: catName.String, Color: catColor.String}
	}

	return &e, nil
}

const selectExpenseColumns = `
	e.id, e.title, e.amount, e.currency, e.category_id, e.description, e.date,
	e.created_at, e.updated_at, c.name AS category_name, c.color AS category_color
`

// translate maps constraint violations to domain errors.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return &expense.ValidationError{Field: "name", Msg: "already exists"}
	case pgForeignKeyViolation:
		return &expense.ValidationError{Field: "category", Msg: "does not exist"}
	}

	return err
}

const insertExpense = `
	INSERT INTO expenses (title, amount, currency, category_id, description, date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	err := s.db.QueryRowContext(ctx, insertExpense,
		e.Title,
		e.Amount,
		e.Currency,
		e.CategoryID,
		e.Description,
		e.Date,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", translate(err))
	}

	return nil
}

// CreateExpenses inserts all expenses in one database transaction.
func (s *Store) CreateExpenses(ctx context.Context, es []*expense.Expense) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, insertExpense)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range es {
		err := stmt.QueryRowContext(ctx,
			e.Title,
			e.Amount,
			e.Currency,
			e.CategoryID,
			e.Description,
			e.Date,
		).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating expense: %w", translate(err))
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses e
		LEFT JOIN categories c ON e.category_id = c.id
		WHERE e.id = $1`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses e
		LEFT JOIN categories c ON e.category_id = c.id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND e.category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND e.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND e.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY e.date DESC, e.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var es []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		es = append(es, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	return es, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	query := `
		UPDATE expenses
		SET title = $1, amount = $2, currency = $3, category_id = $4, description = $5, date = $6, updated_at = NOW()
		WHERE id = $7
	`

	res, err := s.db.ExecContext(ctx, query,
		e.Title,
		e.Amount,
		e.Currency,
		e.CategoryID,
		e.Description,
		e.Date,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating expense: %w", translate(err))
	}

	return expectAffected(res)
}

func (s *Store) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	return expectAffected(res)
}

func (s *Store) CreateCategory(ctx context.Context, c *expense.Category) error {
	query := `
		INSERT INTO categories (name, color, icon, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, c.Name, c.Color, c.Icon).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("creating category: %w", translate(err))
	}

	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*expense.Category, error) {
	query := `
		SELECT c.id, c.name, c.color, c.icon, c.created_at, COUNT(e.id)
		FROM categories c
		LEFT JOIN expenses e ON e.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cs []*expense.Category

	for rows.Next() {
		var c expense.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.CreatedAt, &c.ExpenseCount); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cs = append(cs, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return cs, nil
}

// DeleteCategory relies on ON DELETE SET NULL to uncategorize its expenses.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return expense.ErrNotFound
	}

	return nil
}
