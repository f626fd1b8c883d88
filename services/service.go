package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/malusev998/currency-calc"
)

const DefaultMaxConcurrency = 4

type (
	RateService struct {
		Fetcher        currency.RateLookup
		MaxConcurrency int
	}

	indexedRate struct {
		index int
		rate  currency.Rate
	}
)

// Rates looks up base against every target with at most MaxConcurrency
// lookups in flight. The result is ordered like targets; the first failure
// cancels the remaining lookups.
func (r RateService) Rates(ctx context.Context, base string, targets []string) ([]currency.Rate, error) {
	if r.Fetcher == nil {
		return nil, ErrNoFetcherProvided
	}

	if err := currency.ValidateCode(base); err != nil {
		return nil, err
	}

	for _, target := range targets {
		if err := currency.ValidateCode(target); err != nil {
			return nil, err
		}
	}

	if len(targets) == 0 {
		return []currency.Rate{}, nil
	}

	maxGoroutines := r.MaxConcurrency

	if maxGoroutines <= 0 {
		maxGoroutines = DefaultMaxConcurrency
	}

	p := pool.NewWithResults[indexedRate]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(maxGoroutines)

	for i, target := range targets {
		i, target := i, target
		p.Go(func(ctx context.Context) (indexedRate, error) {
			rate, err := r.Fetcher.LookupRate(ctx, base, target)

			if err != nil {
				return indexedRate{}, fmt.Errorf("%s: %w", currency.FormatPair(base, target), err)
			}

			return indexedRate{
				index: i,
				rate:  currency.Rate{From: base, To: target, Rate: rate},
			}, nil
		})
	}

	results, err := p.Wait()

	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})

	rates := make([]currency.Rate, 0, len(results))

	for _, result := range results {
		rates = append(rates, result.rate)
	}

	return rates, nil
}
