package booking

import (
	"fmt"
	"math"
)

// Money is an amount in pence.
type Money int64

// MaxMoney is the largest amount MoneyFromPounds returns (£1,000,000,000).
const MaxMoney Money = 100_000_000_000

// MoneyFromPounds converts a pound amount to pence, rounding half away from
// zero. NaN, -Inf and negative amounts become zero; amounts above MaxMoney
// are clamped to it.
func MoneyFromPounds(pounds float64) Money {
	if math.IsNaN(pounds) || pounds <= 0 {
		return 0
	}
	if pounds >= MaxMoney.Pounds() {
		return MaxMoney
	}
	return Money(math.Round(pounds * 100))
}

// Pounds returns the amount as a float in pounds.
func (m Money) Pounds() float64 {
	return float64(m) / 100
}

// NonNegative clamps negative amounts to zero.
func (m Money) NonNegative() Money {
	if m < 0 {
		return 0
	}
	return m
}

// String formats the amount as "£12.50".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s£%d.%02d", sign, v/100, v%100)
}
