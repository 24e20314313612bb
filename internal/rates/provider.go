package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
)

const (
	DefaultOpenERURL      = "https://open.er-api.com/v6"
	DefaultFrankfurterURL = "https://api.frankfurter.app"
	DefaultECBURL         = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"
)

func fetchBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrProvider, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing request: %w", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d for url %s", ErrProvider, resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrProvider, err)
	}

	return body, nil
}

// OpenERProvider reads https://open.er-api.com/v6/latest/{base}.
type OpenERProvider struct {
	baseURL string
	client  *http.Client
}

func NewOpenERProvider(baseURL string, client *http.Client) *OpenERProvider {
	return &OpenERProvider{baseURL: baseURL, client: client}
}

type openERResponse struct {
	Result             string                     `json:"result"`
	BaseCode           string                     `json:"base_code"`
	TimeLastUpdateUnix int64                      `json:"time_last_update_unix"`
	Rates              map[string]decimal.Decimal `json:"rates"`
	ErrorType          string                     `json:"error-type"`
}

func (p *OpenERProvider) Fetch(ctx context.Context, base currency.Code) (*Set, error) {
	body, err := fetchBody(ctx, p.client, fmt.Sprintf("%s/latest/%s", p.baseURL, base))
	if err != nil {
		return nil, err
	}

	var resp openERResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding open.er-api response: %w", ErrProvider, err)
	}

	if resp.Result != "success" {
		return nil, fmt.Errorf("%w: open.er-api result %q (%s)", ErrProvider, resp.Result, resp.ErrorType)
	}

	if len(resp.Rates) == 0 {
		return nil, fmt.Errorf("%w: open.er-api returned no rates", ErrProvider)
	}

	var asOf time.Time
	if resp.TimeLastUpdateUnix > 0 {
		asOf = time.Unix(resp.TimeLastUpdateUnix, 0).UTC()
	}

	return newSet(base, resp.Rates, asOf, "open.er-api.com"), nil
}

// FrankfurterProvider reads https://api.frankfurter.app/latest?from={base}.
type FrankfurterProvider struct {
	baseURL string
	client  *http.Client
}

func NewFrankfurterProvider(baseURL string, client *http.Client) *FrankfurterProvider {
	return &FrankfurterProvider{baseURL: baseURL, client: client}
}

type frankfurterResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (p *FrankfurterProvider) Fetch(ctx context.Context, base currency.Code) (*Set, error) {
	body, err := fetchBody(ctx, p.client, fmt.Sprintf("%s/latest?from=%s", p.baseURL, base))
	if err != nil {
		return nil, err
	}

	var resp frankfurterResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding frankfurter response: %w", ErrProvider, err)
	}

	if len(resp.Rates) == 0 {
		return nil, fmt.Errorf("%w: frankfurter returned no rates", ErrProvider)
	}

	asOf, _ := time.Parse(time.DateOnly, resp.Date)

	return newSet(base, resp.Rates, asOf, "frankfurter.app"), nil
}

// Chain asks each provider in turn and returns the first success.
type Chain []Provider

func (c Chain) Fetch(ctx context.Context, base currency.Code) (*Set, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("%w: no providers configured", ErrProvider)
	}

	var errs []error

	for _, p := range c {
		set, err := p.Fetch(ctx, base)
		if err == nil {
			return set, nil
		}

		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, errors.Join(errs...)
}
