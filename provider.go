package currency

import (
	"fmt"
	"strings"
)

// Provider names a rate source. Config values are matched case-insensitively.
type Provider string

const (
	FreeConvProvider         Provider = "FreeCurrConversion"
	ExchangeRatesAPIProvider Provider = "ExchangeRatesAPI"
	StaticProvider           Provider = "Static"
	EmptyProvider            Provider = ""
)

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "freecurrconversion", "freecurrconv":
		return FreeConvProvider, nil
	case "exchangeratesapi":
		return ExchangeRatesAPIProvider, nil
	case "static":
		return StaticProvider, nil
	}

	return EmptyProvider, fmt.Errorf("value %s is not valid Provider", str)
}

// UnmarshalText lets config decoders reject unknown providers up front.
func (p *Provider) UnmarshalText(text []byte) error {
	provider, err := ConvertToProviderFromString(string(text))

	if err != nil {
		return err
	}

	*p = provider

	return nil
}
