package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/malusev998/currency-calc"
	"github.com/malusev998/currency-calc/metrics"
)

const DefaultPrecision int32 = 2

var (
	ErrNoFetcherProvided = errors.New("no rate fetcher provided")
)

type (
	ConversionService struct {
		Fetcher    currency.RateLookup
		Currencies []string
		Precision  int32
		Logger     zerolog.Logger
		Metrics    metrics.Provider
	}
)

func NewConversionService(fetcher currency.RateLookup, logger zerolog.Logger, m metrics.Provider) *ConversionService {
	return &ConversionService{
		Fetcher:    fetcher,
		Currencies: currency.SupportedCurrencies,
		Precision:  DefaultPrecision,
		Logger:     logger.With().Str("component", "conversion").Logger(),
		Metrics:    m,
	}
}

// Convert multiplies amount by the current from/to rate.
// Failures never escape as errors or panics, they are reported in the result.
func (c *ConversionService) Convert(ctx context.Context, from, to, amount string) (result currency.ConversionResult) {
	m := orNoop(c.Metrics)

	defer func() {
		if r := recover(); r != nil {
			result = c.fail(m, from, to, fmt.Errorf("unable to convert %s to %s: %v", from, to, r))
		}
	}()

	value, err := currency.ParseAmount(amount)

	if err != nil {
		return c.fail(m, from, to, err)
	}

	if c.Fetcher == nil {
		return c.fail(m, from, to, ErrNoFetcherProvided)
	}

	start := time.Now()
	rate, err := c.Fetcher.LookupRate(ctx, from, to)
	m.ObserveLookupDuration(time.Since(start))

	if err != nil {
		return c.fail(m, from, to, fmt.Errorf("unable to convert %s to %s: %w", from, to, err))
	}

	converted := value.Mul(rate).StringFixed(c.Precision)

	m.IncConversions(metrics.StatusSuccess)
	c.Logger.Debug().
		Str("from", from).
		Str("to", to).
		Str("amount", amount).
		Str("rate", rate.String()).
		Str("result", converted).
		Msg("converted")

	return currency.Succeeded(converted)
}

func (c *ConversionService) fail(m metrics.Provider, from, to string, err error) currency.ConversionResult {
	m.IncConversions(metrics.StatusFailure)
	c.Logger.Warn().Err(err).Str("from", from).Str("to", to).Msg("conversion failed")

	return currency.Failed(err)
}

func (c *ConversionService) ListSupportedCurrencies() []string {
	codes := c.Currencies

	if codes == nil {
		codes = currency.SupportedCurrencies
	}

	out := make([]string, len(codes))
	copy(out, codes)

	return out
}

func orNoop(m metrics.Provider) metrics.Provider {
	if m == nil {
		return metrics.Noop()
	}

	return m
}
