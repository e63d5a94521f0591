package model

import "math"

// Round rounds to the nearest whole number with halves rounded up
// (2.5 → 3, -2.5 → -2). NaN and ±Inf are returned unchanged.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}
