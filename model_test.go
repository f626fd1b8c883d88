package currency_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/malusev998/currency-calc"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	valid := map[string]string{
		"100":     "100",
		" 12.5 ":  "12.5",
		"-3":      "-3",
		"1e3":     "1000",
		"0.00001": "0.00001",
		"1e300":   "1" + strings.Repeat("0", 300),
	}

	for input, expected := range valid {
		value, err := currency.ParseAmount(input)
		asserts.NoError(err, input)
		asserts.Equal(expected, value.String(), input)
	}

	invalid := []string{
		"", "   ", "abc", "12abc", "NaN", "Infinity", "1,5",
		"1e400", "1e2000000000", "1e-2000000000", "-1e309",
		strings.Repeat("9", currency.MaxAmountLength+1),
	}

	for _, input := range invalid {
		_, err := currency.ParseAmount(input)
		asserts.True(errors.Is(err, currency.ErrInvalidAmount), input)
	}

	asserts.Equal("Please enter a valid amount.", currency.ErrInvalidAmount.Error())
}

func TestValidateCode(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	for _, code := range []string{"USD", "EUR", "USDT"} {
		asserts.NoError(currency.ValidateCode(code))
	}

	for _, code := range []string{"", "US", "usd", "EURO1", "U5D", "DOLLAR"} {
		asserts.True(errors.Is(currency.ValidateCode(code), currency.ErrInvalidCurrencyCode), code)
	}
}

func TestSplitPair(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	from, to, err := currency.SplitPair(currency.FormatPair("EUR", "USD"))
	asserts.NoError(err)
	asserts.Equal("EUR", from)
	asserts.Equal("USD", to)

	_, _, err = currency.SplitPair("EURUSD")
	asserts.Error(err)
}

func TestNewHistoryEntry(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	now := time.Date(2024, time.March, 1, 10, 30, 15, 123_000_000, time.FixedZone("CET", 3600))

	entry := currency.NewHistoryEntry(currency.NewConversionRequest("100", "USD", "EUR"), "92.50", now)

	asserts.Equal(currency.HistoryEntry{
		Amount: "100",
		From:   "USD",
		To:     "EUR",
		Result: "92.50",
		Date:   "2024-03-01T09:30:15.123Z",
	}, entry)

	parsed, err := entry.Time()
	asserts.NoError(err)
	asserts.True(parsed.Equal(now))
}

func TestConversionResult_Succeeded(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	asserts.True(currency.Succeeded("1.00").Succeeded())
	asserts.False(currency.Failed(errors.New("boom")).Succeeded())
	asserts.False(currency.ConversionResult{}.Succeeded())
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	summary := currency.Summarize([]currency.HistoryEntry{
		{From: "USD", To: "EUR"},
		{From: "USD", To: "GBP"},
		{From: "EUR", To: "USD"},
	})

	asserts.Equal(currency.Summary{Total: 3, DistinctSourceCurrencies: 2}, summary)
	asserts.Equal(currency.Summary{}, currency.Summarize(nil))
}

func TestSearchCurrencies(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	asserts.Equal([]string{"USD", "CAD", "AUD", "SGD", "HKD", "NZD", "BND", "TWD", "GYD", "SRD", "FJD"},
		currency.SearchCurrencies(currency.SupportedCurrencies, "dollar"))
	asserts.Equal([]string{"EUR"}, currency.SearchCurrencies(currency.SupportedCurrencies, "eur"))
	asserts.Len(currency.SearchCurrencies(currency.SupportedCurrencies, ""), len(currency.SupportedCurrencies))
	asserts.Equal("Swiss Franc", currency.CurrencyName("CHF"))
	asserts.Empty(currency.CurrencyName("XXX"))
}
