package currency

import (
	"context"

	"github.com/shopspring/decimal"
)

type (
	// RateLookup resolves the current exchange rate between two currencies.
	RateLookup interface {
		LookupRate(ctx context.Context, from, to string) (decimal.Decimal, error)
	}
)
