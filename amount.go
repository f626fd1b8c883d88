package currency

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MaxAmountLength = 64

	minAmountExponent = -MaxAmountLength
	maxAmountExponent = 308
)

// ParseAmount accepts any decimal, optionally in exponent form, that fits the
// finite float64 range. Surrounding whitespace is ignored.
func ParseAmount(amount string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(amount)

	if trimmed == "" || len(trimmed) > MaxAmountLength {
		return decimal.Zero, ErrInvalidAmount
	}

	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	// Exponent is checked first: converting 1e2000000000 to float64 would
	// materialize every digit.
	if exp := value.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		return decimal.Zero, ErrInvalidAmount
	}

	if math.IsInf(value.InexactFloat64(), 0) {
		return decimal.Zero, ErrInvalidAmount
	}

	return value, nil
}

func ValidateCode(code string) error {
	if len(code) < 3 || len(code) > 4 {
		return fmt.Errorf("%q: %w", code, ErrInvalidCurrencyCode)
	}

	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%q: %w", code, ErrInvalidCurrencyCode)
		}
	}

	return nil
}

// FormatPair joins two codes the way rate providers key them, e.g. EUR_USD.
func FormatPair(from, to string) string {
	return from + "_" + to
}

// SplitPair is the inverse of FormatPair.
func SplitPair(pair string) (string, string, error) {
	parts := strings.Split(pair, "_")

	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("value %s is not a valid currency pair", pair)
	}

	return parts[0], parts[1], nil
}
