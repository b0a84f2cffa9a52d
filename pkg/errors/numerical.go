package errors

import (
	"math"
)

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CheckScalar returns a ValueError naming op if value is NaN or Inf.
func CheckScalar(op string, value float64) error {
	if !IsFinite(value) {
		return NewValueError(op, "non-finite value "+formatFloat(value))
	}
	return nil
}

// SafeLogRatio computes ln(numerator/denominator).
// ok is false when the ratio is 0/0, x/0 or the logarithm is not finite.
func SafeLogRatio(numerator, denominator float64) (value float64, ok bool) {
	if denominator == 0 || math.IsNaN(numerator) || math.IsNaN(denominator) {
		return 0, false
	}
	v := math.Log(numerator / denominator)
	if !IsFinite(v) {
		return 0, false
	}
	return v, true
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return "finite"
}
