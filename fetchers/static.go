package fetchers

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/malusev998/currency-calc"
)

// StaticFetcher serves rates from a fixed FROM_TO table.
// Inverse pairs are derived, and a currency always converts to itself at 1.
type StaticFetcher struct {
	Rates map[string]decimal.Decimal
}

func NewStaticFetcher(rates map[string]float64) (*StaticFetcher, error) {
	table := make(map[string]decimal.Decimal, len(rates))

	for pair, rate := range rates {
		from, to, err := currency.SplitPair(pair)

		if err != nil {
			return nil, err
		}

		if rate <= 0 {
			return nil, fmt.Errorf("rate for %s must be positive", pair)
		}

		table[currency.FormatPair(from, to)] = decimal.NewFromFloat(rate)
	}

	return &StaticFetcher{Rates: table}, nil
}

func (s *StaticFetcher) LookupRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	if from == to {
		return decimal.NewFromInt(1), nil
	}

	if rate, ok := s.Rates[currency.FormatPair(from, to)]; ok {
		return rate, nil
	}

	if rate, ok := s.Rates[currency.FormatPair(to, from)]; ok && !rate.IsZero() {
		return decimal.NewFromInt(1).DivRound(rate, 16), nil
	}

	return decimal.Zero, fmt.Errorf("%s: %w", currency.FormatPair(from, to), currency.ErrUnsupportedCurrencyPair)
}
