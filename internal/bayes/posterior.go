package bayes

import "math"

// PosteriorProbability applies one likelihood ratio to one prior.
//
// Priors of exactly 0 or 1 are absorbing and returned unchanged, since the
// odds transform is undefined there. Unbounded odds map to probability 1 and
// the result is always clamped to [0, 1].
func PosteriorProbability(prior float64, lr LR) (float64, error) {
	if err := ValidateProbability("prior probability", prior); err != nil {
		return 0, err
	}
	if err := validateLR(lr); err != nil {
		return 0, err
	}
	return posterior(prior, lr), nil
}

// posterior assumes validated inputs.
func posterior(prior float64, lr LR) float64 {
	if prior == 0 || prior == 1 {
		return prior
	}
	postOdds := ToOdds(prior) * float64(lr)
	if math.IsInf(postOdds, 1) {
		return 1
	}
	return clamp(FromOdds(postOdds), 0, 1)
}
