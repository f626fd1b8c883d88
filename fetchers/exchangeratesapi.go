package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/malusev998/currency-calc"
)

type (
	ExchangeRatesAPIFetcher struct {
		URL string

		client *http.Client
	}
)

func NewExchangeRatesAPIFetcher(url string, timeout time.Duration) *ExchangeRatesAPIFetcher {
	if url == "" {
		url = ExchangeRatesAPIURL
	}

	return &ExchangeRatesAPIFetcher{
		URL:    url,
		client: newHTTPClient(timeout),
	}
}

func (e *ExchangeRatesAPIFetcher) LookupRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	req, err := getData(ctx, e.URL)

	if err != nil {
		return decimal.Zero, err
	}

	q := req.URL.Query()
	q.Add("symbols", to)
	q.Add("base", from)

	req.URL.RawQuery = q.Encode()

	res, body, err := do(clientOrDefault(e.client), req)

	if err != nil {
		return decimal.Zero, err
	}

	if err := handleHTTPStatusCodeError(res); err != nil {
		return decimal.Zero, err
	}

	var data exchangeRateAPIResponse

	if err := decode(body, &data); err != nil {
		return decimal.Zero, err
	}

	rate, ok := data.Rates[to]

	if !ok || (data.Base != "" && data.Base != from) {
		return decimal.Zero, fmt.Errorf("%s: %w", currency.FormatPair(from, to), currency.ErrUnsupportedCurrencyPair)
	}

	return rate, nil
}
