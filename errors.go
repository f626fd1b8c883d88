package currency

import "errors"

var (
	ErrInvalidAmount           = errors.New("Please enter a valid amount.")
	ErrInvalidCurrencyCode     = errors.New("currency code must be 3 or 4 uppercase letters")
	ErrUnsupportedCurrencyPair = errors.New("unsupported currency pair")
)
