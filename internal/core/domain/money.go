package domain

import "math"

// Cents is a monetary amount in integer minor-currency units. All money
// arithmetic happens on this type; floating point only appears at the
// percent-to-basis-points boundary.
type Cents int64

// bps converts a human percent value (10 == 10%) to basis points
func bps(percent float64) int64 {
	return int64(math.Round(percent * 100))
}

// PercentHalfUp applies percent to amount, rounding half-up exactly once.
// Negative percents are treated as zero; amounts are expected non-negative.
func PercentHalfUp(amount Cents, percent float64) Cents {
	b := bps(percent)
	if b <= 0 || amount <= 0 {
		return 0
	}
	return Cents((int64(amount)*b + 5000) / 10000)
}

// ClampCents bounds v to [lo, hi]
func ClampCents(v, lo, hi Cents) Cents {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
