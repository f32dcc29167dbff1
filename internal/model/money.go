package model

import "math"

// Round2 rounds a monetary amount to two decimal places, half up. A
// negative half-cent rounds toward zero: -361.125 becomes -361.12. All
// statutory outputs are rounded this way, per entry, which can accumulate
// sub-cent drift across a schedule; the depreciation engine compensates
// by forcing the final entry.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

func round2(v float64) float64 {
	return Round2(v)
}
