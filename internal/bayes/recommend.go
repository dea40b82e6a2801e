package bayes

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// TerminalHigh and TerminalLow bound the range in which further testing
	// is still worth simulating (exclusive on both ends).
	TerminalHigh = 0.90
	TerminalLow  = 0.10
)

const (
	rationaleHigh = "Probability is above 90%: the diagnosis is established with high confidence, so no further testing is needed."
	rationaleLow  = "Probability is below 10%: the diagnosis is effectively excluded with low residual likelihood, so no further testing is needed."
	rationaleNone = "No candidate test would shift the probability; clinical judgment is needed."
)

// RecommendNextTest picks the candidate whose positive or negative result
// would move currentProbability the furthest.
//
// Probabilities above TerminalHigh or below TerminalLow need no further
// testing and candidates are not evaluated. Among candidates with equal
// utility the first one supplied wins. If no candidate has positive
// utility, no test is recommended.
func RecommendNextTest(currentProbability float64, candidates []DiagnosticTest) (Recommendation, error) {
	if err := ValidateProbability("current probability", currentProbability); err != nil {
		return Recommendation{}, err
	}

	rec := Recommendation{ProbabilityRange: ClassifyConfidence(currentProbability)}
	switch {
	case currentProbability > TerminalHigh:
		rec.Verdict, rec.Rationale = VerdictNoFurtherTesting, rationaleHigh
		return rec, nil
	case currentProbability < TerminalLow:
		rec.Verdict, rec.Rationale = VerdictNoFurtherTesting, rationaleLow
		return rec, nil
	}

	scores := make([]CandidateScore, 0, len(candidates))
	utilities := make([]float64, 0, len(candidates))
	for i, c := range candidates {
		score, err := scoreCandidate(currentProbability, c)
		if err != nil {
			return Recommendation{}, fmt.Errorf("candidate %d (%s): %w", i, c.Name, err)
		}
		scores = append(scores, score)
		utilities = append(utilities, score.Utility)
	}
	rec.Candidates = scores

	// MaxIdx returns the first index of the maximum, which is the tie-break.
	if len(utilities) == 0 || floats.Max(utilities) <= 0 {
		rec.Verdict, rec.Rationale = VerdictClinicalJudgement, rationaleNone
		return rec, nil
	}
	best := scores[floats.MaxIdx(utilities)]

	test := best.Test
	rec.Test = &test
	rec.ExpectedUtility = best.Utility
	rec.LRPositive = best.LRPositive
	rec.LRNegative = best.LRNegative
	rec.Verdict = VerdictOrderTest
	rec.Rationale = fmt.Sprintf("%s could shift the probability by up to %.1f percentage points (positive: %.1f%%, negative: %.1f%%).",
		test.Name, best.Utility*100, best.PosteriorIfPositive*100, best.PosteriorIfNegative*100)
	return rec, nil
}

func scoreCandidate(current float64, t DiagnosticTest) (CandidateScore, error) {
	pos, neg, err := TestLikelihoodRatios(t)
	if err != nil {
		return CandidateScore{}, err
	}
	ifPos := posterior(current, pos)
	ifNeg := posterior(current, neg)
	return CandidateScore{
		Test:                t,
		LRPositive:          pos,
		LRNegative:          neg,
		PosteriorIfPositive: ifPos,
		PosteriorIfNegative: ifNeg,
		Utility:             math.Max(math.Abs(ifPos-current), math.Abs(ifNeg-current)),
	}, nil
}
