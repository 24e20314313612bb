package expense_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params expense.Params
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *expense.MockRepository)
		wantField string
		wantErr   bool
	}

	valid := expense.Params{
		Title:    "  Groceries ",
		Amount:   decimal.RequireFromString("42.499"),
		Currency: "eur",
		Date:     time.Date(2024, 1, 5, 18, 30, 0, 0, time.FixedZone("CET", 3600)),
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{params: valid},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *expense.Expense) error {
						assert.Equal(t, "Groceries", e.Title)
						assert.Equal(t, "42.5", e.Amount.String())
						assert.Equal(t, currency.EUR, e.Currency)
						assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), e.Date)

						e.ID = uuid.New()

						return nil
					})
			},
		},
		{
			name:      "EmptyTitle",
			args:      args{params: expense.Params{Title: " ", Amount: decimal.NewFromInt(1), Date: time.Now()}},
			wantField: "title",
			wantErr:   true,
		},
		{
			name:      "ZeroAmount",
			args:      args{params: expense.Params{Title: "x", Amount: decimal.RequireFromString("0.001"), Date: time.Now()}},
			wantField: "amount",
			wantErr:   true,
		},
		{
			name:      "NegativeAmount",
			args:      args{params: expense.Params{Title: "x", Amount: decimal.NewFromInt(-5), Date: time.Now()}},
			wantField: "amount",
			wantErr:   true,
		},
		{
			name:      "UnsupportedCurrency",
			args:      args{params: expense.Params{Title: "x", Amount: decimal.NewFromInt(5), Currency: "CHF", Date: time.Now()}},
			wantField: "currency",
			wantErr:   true,
		},
		{
			name:      "MissingDate",
			args:      args{params: expense.Params{Title: "x", Amount: decimal.NewFromInt(5)}},
			wantField: "date",
			wantErr:   true,
		},
		{
			name: "RepoError",
			args: args{params: valid},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := expense.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				if tt.wantField != "" {
					var verr *expense.ValidationError
					require.ErrorAs(t, err, &verr)
					assert.Equal(t, tt.wantField, verr.Field)
					assert.ErrorIs(t, err, expense.ErrValidation)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_CreateDefaultsCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)

	got, err := expense.NewService(repo).Create(context.Background(), expense.Params{
		Title:  "Coffee",
		Amount: decimal.NewFromInt(3),
		Date:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, currency.USD, got.Currency)
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := expense.NewMockRepository(ctrl)
	svc := expense.NewService(repo)

	params := expense.Params{
		Title:  "Taxi",
		Amount: decimal.NewFromInt(20),
		Date:   time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	}

	gomock.InOrder(
		repo.EXPECT().
			UpdateExpense(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *expense.Expense) error {
				assert.Equal(t, id, e.ID)
				return nil
			}),
		repo.EXPECT().GetExpense(gomock.Any(), id).Return(&expense.Expense{ID: id, Title: "Taxi"}, nil),
	)

	got, err := svc.Update(context.Background(), id, params)
	require.NoError(t, err)
	assert.Equal(t, "Taxi", got.Title)
}

func TestService_UpdateNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().UpdateExpense(gomock.Any(), gomock.Any()).Return(expense.ErrNotFound)

	_, err := expense.NewService(repo).Update(context.Background(), uuid.New(), expense.Params{
		Title:  "Taxi",
		Amount: decimal.NewFromInt(20),
		Date:   time.Now(),
	})
	assert.ErrorIs(t, err, expense.ErrNotFound)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	svc := expense.NewService(repo)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().
		CreateExpenses(gomock.Any(), gomock.Len(2)).
		Return(nil)

	got, err := svc.CreateBatch(context.Background(), []expense.Params{
		{Title: "Coffee", Amount: decimal.NewFromInt(3), Date: date},
		{Title: "Lunch", Amount: decimal.NewFromInt(12), Currency: "GBP", Date: date},
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, currency.GBP, got[1].Currency)
}

func TestService_CreateBatchRejectsWholeBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	svc := expense.NewService(repo)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateBatch(context.Background(), []expense.Params{
		{Title: "Coffee", Amount: decimal.NewFromInt(3), Date: date},
		{Title: "", Amount: decimal.NewFromInt(12), Date: date},
	})
	assert.ErrorIs(t, err, expense.ErrValidation)
	assert.Contains(t, err.Error(), "row 2")

	got, err := svc.CreateBatch(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_CreateCategory(t *testing.T) {
	type testCase struct {
		name      string
		params    expense.CategoryParams
		setupMock func(m *expense.MockRepository)
		wantColor string
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Defaults",
			params: expense.CategoryParams{Name: "Food"},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantColor: expense.DefaultCategoryColor,
		},
		{
			name:   "CustomColor",
			params: expense.CategoryParams{Name: "Travel", Color: "#06B6D4", Icon: "plane"},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantColor: "#06B6D4",
		},
		{
			name:    "MissingName",
			params:  expense.CategoryParams{Name: "   "},
			wantErr: expense.ErrValidation,
		},
		{
			name:   "Duplicate",
			params: expense.CategoryParams{Name: "Food"},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateCategory(gomock.Any(), gomock.Any()).
					Return(&expense.ValidationError{Field: "name", Msg: "already exists"})
			},
			wantErr: expense.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := expense.NewService(repo).CreateCategory(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantColor, got.Color)
			assert.NotEmpty(t, got.Icon)
		})
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	catID := uuid.New()
	filter := expense.ListFilter{CategoryID: &catID}

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().
		ListExpenses(gomock.Any(), filter).
		Return([]*expense.Expense{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	got, err := expense.NewService(repo).List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
