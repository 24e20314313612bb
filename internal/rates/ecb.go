package rates

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
)

// ECBProvider reads the European Central Bank daily reference rates. The
// feed is always EUR based, whatever base is requested; callers derive
// cross rates from it.
type ECBProvider struct {
	url    string
	client *http.Client
}

func NewECBProvider(url string, client *http.Client) *ECBProvider {
	return &ECBProvider{url: url, client: client}
}

func (p *ECBProvider) Fetch(ctx context.Context, _ currency.Code) (*Set, error) {
	body, err := fetchBody(ctx, p.client, p.url)
	if err != nil {
		return nil, err
	}

	return parseECB(body)
}

func parseECB(body []byte) (*Set, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("%w: parsing ECB XML: %w", ErrProvider, err)
	}

	day := doc.FindElement("//Cube[@time]")
	if day == nil {
		return nil, fmt.Errorf("%w: no dated Cube element in ECB feed", ErrProvider)
	}

	raw := make(map[string]decimal.Decimal)

	for _, el := range day.SelectElements("Cube") {
		code := el.SelectAttrValue("currency", "")
		rate, err := decimal.NewFromString(el.SelectAttrValue("rate", ""))
		if code == "" || err != nil {
			continue
		}

		raw[code] = rate
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: ECB feed contained no rates", ErrProvider)
	}

	asOf, _ := time.Parse(time.DateOnly, day.SelectAttrValue("time", ""))

	return newSet(currency.EUR, raw, asOf, "ecb.europa.eu"), nil
}
