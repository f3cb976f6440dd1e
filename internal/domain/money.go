package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a caller does not name one.
const DefaultCurrency = "NIS"

// currencyPrecision maps ISO-4217-like codes to their minor-unit digits.
var currencyPrecision = map[string]int32{
	"NIS": 2,
	"ILS": 2,
	"USD": 2,
	"EUR": 2,
	"GBP": 2,
	"JPY": 0,
	"KRW": 0,
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CurrencyPrecision returns the number of minor-unit digits for code.
// Unknown codes use two digits.
func CurrencyPrecision(code string) int32 {
	if p, ok := currencyPrecision[NormalizeCurrency(code)]; ok {
		return p
	}
	return 2
}

// RoundMoney rounds an amount half away from zero to the currency's minor unit.
func RoundMoney(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(CurrencyPrecision(currency))
}

// FormatMoney renders an amount with exactly the currency's minor-unit digits.
func FormatMoney(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(CurrencyPrecision(currency))
}
