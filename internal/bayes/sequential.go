package bayes

import "fmt"

// AnalyzeSequentialTests folds observations, in the order given, through
// the Bayesian updater. Each step's prior is the previous step's posterior.
//
// The final probability does not depend on the order of observations since
// each step only multiplies the running odds; the per-step deltas do.
func AnalyzeSequentialTests(initial float64, observations []TestObservation) (SequentialAnalysis, error) {
	if err := ValidateProbability("initial probability", initial); err != nil {
		return SequentialAnalysis{}, err
	}

	steps := make([]UpdateStep, 0, len(observations))
	final := initial
	for i, obs := range observations {
		step, err := updateStep(final, obs)
		if err != nil {
			return SequentialAnalysis{}, fmt.Errorf("observation %d (%s): %w", i, obs.Test.Name, err)
		}
		steps = append(steps, step)
		final = step.PostProbability
	}

	return SequentialAnalysis{
		InitialProbability: initial,
		FinalProbability:   final,
		TotalChange:        final - initial,
		Steps:              steps,
		Confidence:         ClassifyConfidence(final),
	}, nil
}

func updateStep(prior float64, obs TestObservation) (UpdateStep, error) {
	lr, err := LikelihoodRatio(obs.Test.Sensitivity, obs.Test.Specificity, obs.IsPositive)
	if err != nil {
		return UpdateStep{}, err
	}
	post := posterior(prior, lr)
	delta := post - prior
	return UpdateStep{
		Test:             obs.Test,
		IsPositive:       obs.IsPositive,
		PriorProbability: prior,
		LikelihoodRatio:  lr,
		PostProbability:  post,
		Delta:            delta,
		Interpretation:   InterpretDelta(delta),
	}, nil
}
