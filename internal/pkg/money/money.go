// Package money formats decimal amounts for display using ISO 4217 currency rules.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = "SAR"

// Format renders amount in the given currency, e.g. "$1,250.50".
// Amounts are rounded half-away-from-zero to the currency's minor unit.
func Format(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	cur := gomoney.GetCurrency(currency)
	if cur == nil {
		cur = gomoney.GetCurrency(DefaultCurrency)
		currency = DefaultCurrency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return gomoney.New(minor, currency).Display()
}

// Round rounds amount to the minor unit of currency.
func Round(amount decimal.Decimal, currency string) decimal.Decimal {
	cur := gomoney.GetCurrency(currency)
	if cur == nil {
		return amount.Round(2)
	}
	return amount.Round(int32(cur.Fraction))
}

// IsKnownCurrency reports whether code is a currency known to go-money.
func IsKnownCurrency(code string) bool {
	return gomoney.GetCurrency(code) != nil
}
