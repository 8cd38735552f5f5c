// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/AskerNC/projects-2021-concatenaters/pkg/constants"
)

// Round rounds a value to four decimals for display and logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// WithinRelativeTolerance checks closeness scaled by the magnitude of the
// reference value; falls back to absolute comparison near zero.
func WithinRelativeTolerance(val, reference, tolerance float64) bool {
	scale := math.Abs(reference)
	if scale < 1 {
		scale = 1
	}
	return math.Abs(val-reference) <= tolerance*scale
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
