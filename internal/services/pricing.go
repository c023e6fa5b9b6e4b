// internal/services/pricing.go
package services

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// OrderTotal is sum(prices) - discount, never below zero.
func OrderTotal(prices []decimal.Decimal, discount decimal.Decimal) decimal.Decimal {
	total := decimal.Sum(decimal.Zero, prices...)
	total = total.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// ToMinorUnits converts to paise/cents as round(total * 100).
func ToMinorUnits(total decimal.Decimal) int64 {
	return total.Mul(hundred).Round(0).IntPart()
}

// SplitFee returns the platform fee rounded to two places and what remains
// for the creator.
func SplitFee(amount decimal.Decimal, feePercent float64) (fee, earnings decimal.Decimal) {
	fee = amount.Mul(decimal.NewFromFloat(feePercent)).Div(hundred).Round(2)
	return fee, amount.Sub(fee)
}
