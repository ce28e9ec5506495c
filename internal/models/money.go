package models

import "github.com/shopspring/decimal"

// Money columns hold at most 7 significant digits with 2 decimal places.
const (
	MoneyPrecision = 7
	MoneyScale     = 2
)

// MaxMoney is the largest value a money column can hold.
var MaxMoney = decimal.New(1, MoneyPrecision-MoneyScale).Sub(decimal.New(1, -MoneyScale))

// validateMoney returns a field message for an invalid positive money value,
// or "" when the value is acceptable.
func validateMoney(v decimal.Decimal) string {
	switch {
	case !v.IsPositive():
		return "amount must be greater than zero"
	case !v.Equal(v.Round(MoneyScale)):
		return "amount cannot have more than 2 decimal places"
	case v.GreaterThan(MaxMoney):
		return "amount cannot have more than 7 digits"
	}
	return ""
}
