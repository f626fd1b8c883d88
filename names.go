package currency

import "strings"

var (
	SupportedCurrencies = []string{
		"USD", "EUR", "GBP", "JPY", "INR", "CAD", "AUD", "CHF", "CNY", "BRL",
		"KRW", "MXN", "SGD", "HKD", "NOK", "SEK", "DKK", "PLN", "CZK", "HUF",
		"RUB", "TRY", "ZAR", "THB", "MYR", "IDR", "PHP", "VND", "NZD", "ILS",
		"AED", "SAR", "EGP", "QAR", "KWD", "BHD", "OMR", "JOD", "LBP", "PKR",
		"BDT", "LKR", "NPR", "MMK", "KHR", "LAK", "BND", "TWD", "CLP", "PEN",
		"COP", "ARS", "UYU", "VES", "BOB", "PYG", "GYD", "SRD", "FJD", "TOP",
	}

	PopularCurrencies = []string{"USD", "EUR", "GBP", "JPY", "INR", "CAD", "AUD", "CHF"}

	names = map[string]string{
		"USD": "US Dollar",
		"EUR": "Euro",
		"GBP": "British Pound",
		"JPY": "Japanese Yen",
		"INR": "Indian Rupee",
		"CAD": "Canadian Dollar",
		"AUD": "Australian Dollar",
		"CHF": "Swiss Franc",
		"CNY": "Chinese Yuan",
		"BRL": "Brazilian Real",
		"KRW": "South Korean Won",
		"MXN": "Mexican Peso",
		"SGD": "Singapore Dollar",
		"HKD": "Hong Kong Dollar",
		"NOK": "Norwegian Krone",
		"SEK": "Swedish Krona",
		"DKK": "Danish Krone",
		"PLN": "Polish Złoty",
		"CZK": "Czech Koruna",
		"HUF": "Hungarian Forint",
		"RUB": "Russian Ruble",
		"TRY": "Turkish Lira",
		"ZAR": "South African Rand",
		"THB": "Thai Baht",
		"MYR": "Malaysian Ringgit",
		"IDR": "Indonesian Rupiah",
		"PHP": "Philippine Peso",
		"VND": "Vietnamese Dong",
		"NZD": "New Zealand Dollar",
		"ILS": "Israeli Shekel",
		"AED": "UAE Dirham",
		"SAR": "Saudi Riyal",
		"EGP": "Egyptian Pound",
		"QAR": "Qatari Riyal",
		"KWD": "Kuwaiti Dinar",
		"BHD": "Bahraini Dinar",
		"OMR": "Omani Rial",
		"JOD": "Jordanian Dinar",
		"LBP": "Lebanese Pound",
		"PKR": "Pakistani Rupee",
		"BDT": "Bangladeshi Taka",
		"LKR": "Sri Lankan Rupee",
		"NPR": "Nepalese Rupee",
		"MMK": "Myanmar Kyat",
		"KHR": "Cambodian Riel",
		"LAK": "Lao Kip",
		"BND": "Brunei Dollar",
		"TWD": "Taiwan Dollar",
		"CLP": "Chilean Peso",
		"PEN": "Peruvian Sol",
		"COP": "Colombian Peso",
		"ARS": "Argentine Peso",
		"UYU": "Uruguayan Peso",
		"VES": "Venezuelan Bolívar",
		"BOB": "Bolivian Boliviano",
		"PYG": "Paraguayan Guaraní",
		"GYD": "Guyanese Dollar",
		"SRD": "Surinamese Dollar",
		"FJD": "Fijian Dollar",
		"TOP": "Tongan Paʻanga",
	}
)

// CurrencyName returns the display name, or an empty string for unknown codes.
func CurrencyName(code string) string {
	return names[code]
}

func SearchCurrencies(codes []string, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	result := make([]string, 0, len(codes))

	for _, code := range codes {
		if q == "" ||
			strings.Contains(strings.ToLower(code), q) ||
			strings.Contains(strings.ToLower(names[code]), q) {
			result = append(result, code)
		}
	}

	return result
}
