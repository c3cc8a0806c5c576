package utils

import "math"

// DefaultAssumeZero is the magnitude below which floating point results of
// volume arithmetic are treated as exactly zero.
const DefaultAssumeZero = 1e-10

// IsZero reports whether x is zero within the given epsilon.
func IsZero(x float64, eps float64) bool {
	return math.Abs(x) <= eps
}

// IsEqual reports whether a and b are equal within the given epsilon.
func IsEqual(a, b float64, eps float64) bool {
	return IsZero(a-b, eps)
}

// Divide returns num/den with sentinel handling for zero denominators:
// 0/0 yields 1.0 and x/0 yields +Inf or -Inf depending on the sign of x.
// The sentinels keep metric comparisons monotonic instead of raising.
func Divide(num, den, eps float64) float64 {
	if IsZero(den, eps) {
		if IsZero(num, eps) {
			return 1.0
		}

		return math.Inf(sign(num))
	}

	return num / den
}

// MultiplyDiff scales the difference of absChange from 1 by multiplier.
// MultiplyDiff(1.05, -1) == 0.95, i.e. the relative change is inverted.
func MultiplyDiff(absChange, multiplier float64) float64 {
	return 1 + (absChange-1)*multiplier
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}

	return 1
}
