package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/client"
)

func TestClient_ListExpensesShapes(t *testing.T) {
	const item = `{"id":"7f1c2a7e-3b0d-4b8a-9a55-1c4f5e6d7a8b","title":"Lunch","amount":"12.50","currency":"USD","date":"2024-01-05"}`

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "BareArray", body: "[" + item + "]", want: 1},
		{name: "Paginated", body: `{"count":2,"next":null,"results":[` + item + "," + item + "]}", want: 2},
		{name: "EmptyArray", body: "[]", want: 0},
		{name: "EmptyPage", body: `{"results":[]}`, want: 0},
		{name: "Null", body: "null", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/expenses/", r.URL.Path)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			got, err := client.New(srv.URL+"/api/").ListExpenses(context.Background(), client.Filter{})
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)

			if tt.want > 0 {
				assert.Equal(t, "Lunch", got[0].Title)
				assert.True(t, decimal.RequireFromString("12.5").Equal(got[0].Amount))
			}
		})
	}
}

func TestClient_ListUnexpectedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `"nope"`)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).ListCategories(context.Background())
	assert.Error(t, err)
}

func TestClient_FilterAndToken(t *testing.T) {
	cat := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		assert.Equal(t, "/expenses/stats/", r.URL.Path)
		assert.Equal(t, cat.String(), r.URL.Query().Get("category"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "3", r.URL.Query().Get("recent"))

		_, _ = io.WriteString(w, `{"total_expenses":"100","expense_count":3,"category_breakdown":[],"monthly_totals":[],"recent_expenses":[]}`)
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithToken("tkn"))

	got, err := c.Stats(context.Background(), client.Filter{Category: &cat, StartDate: "2024-01-01"}, 3)
	require.NoError(t, err)
	assert.Equal(t, "100", got.TotalExpenses.String())
	assert.Equal(t, 3, got.ExpenseCount)
}

func TestClient_Convert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "100", body["amount"])
		assert.Equal(t, "USD", body["from_currency"])

		_, _ = io.WriteString(w, `{"original_amount":"100","from_currency":"USD","to_currency":"EUR","converted_amount":"90","rate":"0.9","date":"2024-03-01"}`)
	}))
	defer srv.Close()

	got, err := client.New(srv.URL).Convert(context.Background(), decimal.NewFromInt(100), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "90", got.ConvertedAmount.String())
	assert.Equal(t, "0.9", got.Rate.String())
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rates unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).ExchangeRates(context.Background(), "USD")

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "rates unavailable", apiErr.Message)
}

func TestClient_DeleteNoContent(t *testing.T) {
	id := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/expenses/"+id.String()+"/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, client.New(srv.URL).DeleteExpense(context.Background(), id))
}
