package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/malusev998/currency-calc"
)

type (
	FreeCurrConvFetcher struct {
		URL        string
		APIKey     string
		MaxPerHour int

		client *http.Client
		budget *hourlyBudget
	}

	hourlyBudget struct {
		mu          sync.Mutex
		max         int
		used        int
		windowStart time.Time
		now         func() time.Time
	}
)

func NewFreeCurrConvFetcher(url, apiKey string, maxPerHour int, timeout time.Duration) *FreeCurrConvFetcher {
	if url == "" {
		url = FreeConvFetchURL
	}

	return &FreeCurrConvFetcher{
		URL:        url,
		APIKey:     apiKey,
		MaxPerHour: maxPerHour,
		client:     newHTTPClient(timeout),
		budget:     &hourlyBudget{max: maxPerHour, now: time.Now},
	}
}

// take reserves one request in the current hour window.
// A non-positive max disables the budget.
func (b *hourlyBudget) take() error {
	if b == nil || b.max <= 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()

	if now.Sub(b.windowStart) >= time.Hour {
		b.windowStart = now
		b.used = 0
	}

	if b.used >= b.max {
		return ErrNotEnoughRequests
	}

	b.used++

	return nil
}

func (f *FreeCurrConvFetcher) handleBadRequest(body []byte) error {
	errorRes := errorFreeConvResponse{}
	_ = decode(body, &errorRes)

	if strings.Contains(errorRes.Error, "required") {
		return ErrUnAuthorized
	}

	if strings.Contains(errorRes.Error, "API limit reached") {
		return ErrAPILimitReached
	}

	return ErrClient
}

func (f *FreeCurrConvFetcher) LookupRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if err := f.budget.take(); err != nil {
		return decimal.Zero, err
	}

	pair := currency.FormatPair(from, to)

	req, err := getData(ctx, f.URL)

	if err != nil {
		return decimal.Zero, err
	}

	q := req.URL.Query()
	q.Add("q", pair)
	q.Add("compact", "ultra")
	q.Add("apiKey", f.APIKey)

	req.URL.RawQuery = q.Encode()

	res, body, err := do(clientOrDefault(f.client), req)

	if err != nil {
		return decimal.Zero, err
	}

	if res.StatusCode == http.StatusBadRequest {
		return decimal.Zero, f.handleBadRequest(body)
	}

	if err := handleHTTPStatusCodeError(res); err != nil {
		return decimal.Zero, err
	}

	data := map[string]decimal.Decimal{}

	if err := decode(body, &data); err != nil {
		return decimal.Zero, err
	}

	rate, ok := data[pair]

	if !ok {
		return decimal.Zero, fmt.Errorf("%s: %w", pair, currency.ErrUnsupportedCurrencyPair)
	}

	return rate, nil
}
