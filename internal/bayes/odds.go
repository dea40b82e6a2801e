package bayes

import "math"

// ToOdds converts a probability into odds. ToOdds(1) is +Inf.
func ToOdds(p float64) float64 {
	if p >= 1 {
		return math.Inf(1)
	}
	return p / (1 - p)
}

// FromOdds converts odds back into a probability. FromOdds(+Inf) is 1.
func FromOdds(o float64) float64 {
	if math.IsInf(o, 1) {
		return 1
	}
	return o / (1 + o)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
