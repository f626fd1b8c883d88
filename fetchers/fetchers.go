package fetchers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const (
	FreeConvFetchURL    = "https://free.currconv.com/api/v7/convert"
	ExchangeRatesAPIURL = "https://api.exchangeratesapi.io/latest"

	DefaultTimeout = 10 * time.Second
)

type (
	errorFreeConvResponse struct {
		Status int    `json:"status"`
		Error  string `json:"error"`
	}

	exchangeRateAPIResponse struct {
		Base  string                     `json:"base,omitempty"`
		Rates map[string]decimal.Decimal `json:"rates,omitempty"`
		Date  string                     `json:"date,omitempty"`
	}
)

var (
	ErrUnAuthorized      = errors.New("unauthorized, API key is not provided")
	ErrNotEnoughRequests = errors.New("not enough requests per hour")
	ErrClient            = errors.New("client error")
	ErrServer            = errors.New("server error")
	ErrUnknown           = errors.New("unknown error")
	ErrAPILimitReached   = errors.New("API limit reached")
	ErrFetcherNotFound   = errors.New("fetcher is not found")
)

var defaultClient = newHTTPClient(DefaultTimeout)

func clientOrDefault(client *http.Client) *http.Client {
	if client == nil {
		return defaultClient
	}

	return client
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{Timeout: timeout}
}

func getData(ctx context.Context, url string) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "application/json")

	return req, nil
}

func handleHTTPStatusCodeError(res *http.Response) error {
	switch {
	case res.StatusCode == http.StatusOK:
		return nil
	case res.StatusCode >= http.StatusBadRequest && res.StatusCode < http.StatusInternalServerError:
		return ErrClient
	case res.StatusCode >= http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrUnknown
	}
}

// do never returns the request URL in errors, the query may carry API keys.
func do(client *http.Client, req *http.Request) (*http.Response, []byte, error) {
	res, err := client.Do(req)

	if err != nil {
		var uErr *url.Error

		if errors.As(err, &uErr) {
			return nil, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Host, uErr.Err)
		}

		return nil, nil, err
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)

	if err != nil {
		return nil, nil, err
	}

	return res, body, nil
}

func decode(body []byte, v interface{}) error {
	return json.Unmarshal(body, v)
}
