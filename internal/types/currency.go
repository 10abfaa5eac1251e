package types

import "strings"

// CURRENCY_CODES_SYMBOLS is a map of 3 digit ISO currency codes to their symbols
var CURRENCY_CODES_SYMBOLS = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"aud": "AU$",
	"cad": "CA$",
	"chf": "CHF",
	"sek": "kr",
	"nzd": "NZ$",
	"jpy": "¥",
	"inr": "₹",
	"brl": "R$",
	"mxn": "MX$",
	"zar": "R",
}

// GetCurrencySymbol returns the symbol for a given currency code.
// If the code is not found, it returns the code itself.
func GetCurrencySymbol(code string) string {
	if symbol, ok := CURRENCY_CODES_SYMBOLS[strings.ToLower(code)]; ok {
		return symbol
	}
	return code
}
