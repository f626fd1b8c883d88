package fetchers

import (
	"time"

	"github.com/malusev998/currency-calc"
)

type (
	BaseConfig struct {
		URL     string
		Timeout time.Duration
	}
	FreeConvServiceConfig struct {
		BaseConfig
		APIKey             string
		MaxPerHourRequests int
	}
	ExchangeRatesAPIConfig struct {
		BaseConfig
	}
	StaticConfig struct {
		Rates map[string]float64
	}
)

func NewRateLookup(provider currency.Provider, config interface{}) (currency.RateLookup, error) {
	switch provider {
	case currency.FreeConvProvider:
		c := config.(FreeConvServiceConfig)

		return NewFreeCurrConvFetcher(c.URL, c.APIKey, c.MaxPerHourRequests, c.Timeout), nil
	case currency.ExchangeRatesAPIProvider:
		c := config.(ExchangeRatesAPIConfig)

		return NewExchangeRatesAPIFetcher(c.URL, c.Timeout), nil
	case currency.StaticProvider:
		c := config.(StaticConfig)

		return NewStaticFetcher(c.Rates)
	}

	return nil, ErrFetcherNotFound
}
