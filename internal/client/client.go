// Package client talks to the spendwise REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// list fetches a collection. Servers may answer with a bare array or a
// paginated {"results": [...]} envelope; both become a slice.
func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return nil, err
	}

	return decodeList[T](raw)
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	var items []T

	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decoding list: %w", err)
		}
	case '{':
		var page struct {
			Results []T `json:"results"`
		}

		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("decoding page: %w", err)
		}

		items = page.Results
	default:
		return nil, errors.New("decoding list: unexpected json shape")
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

func (f Filter) values() url.Values {
	q := url.Values{}

	if f.Category != nil {
		q.Set("category", f.Category.String())
	}

	if f.StartDate != "" {
		q.Set("start_date", f.StartDate)
	}

	if f.EndDate != "" {
		q.Set("end_date", f.EndDate)
	}

	return q
}

func (c *Client) ListExpenses(ctx context.Context, f Filter) ([]Expense, error) {
	return list[Expense](ctx, c, "/expenses/", f.values())
}

func (c *Client) CreateExpense(ctx context.Context, e NewExpense) (*Expense, error) {
	var out Expense
	if err := c.do(ctx, http.MethodPost, "/expenses/", nil, e, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/expenses/"+id.String()+"/", nil, nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	return list[Category](ctx, c, "/categories/", nil)
}

// Stats fetches the dashboard snapshot. recent < 0 leaves the server
// default in place.
func (c *Client) Stats(ctx context.Context, f Filter, recent int) (*Stats, error) {
	q := f.values()
	if recent >= 0 {
		q.Set("recent", strconv.Itoa(recent))
	}

	var out Stats
	if err := c.do(ctx, http.MethodGet, "/expenses/stats/", q, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ExchangeRates(ctx context.Context, base string) (*Rates, error) {
	q := url.Values{}
	if base != "" {
		q.Set("base", base)
	}

	var out Rates
	if err := c.do(ctx, http.MethodGet, "/exchange-rates/", q, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*Conversion, error) {
	body := map[string]any{
		"amount":        amount,
		"from_currency": from,
		"to_currency":   to,
	}

	var out Conversion
	if err := c.do(ctx, http.MethodPost, "/convert-currency/", nil, body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
