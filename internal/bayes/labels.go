package bayes

// Interpretation describes how much a single result moved the probability.
type Interpretation string

const (
	InterpretationSignificantlyMore Interpretation = "significantly more likely"
	InterpretationModeratelyMore    Interpretation = "moderately more likely"
	InterpretationSlightlyMore      Interpretation = "slightly more likely"
	InterpretationUnchanged         Interpretation = "essentially unchanged"
	InterpretationSlightlyLess      Interpretation = "slightly less likely"
	InterpretationModeratelyLess    Interpretation = "moderately less likely"
	InterpretationSignificantlyLess Interpretation = "significantly less likely (likely ruled out)"
)

// Confidence classifies a probability into a qualitative range.
type Confidence string

const (
	ConfidenceVeryHigh   Confidence = "very high (diagnosis confirmed)"
	ConfidenceHigh       Confidence = "high (likely diagnosis)"
	ConfidenceModerate   Confidence = "moderate (probable)"
	ConfidenceLow        Confidence = "low (possible)"
	ConfidenceVeryLow    Confidence = "very low (unlikely)"
	ConfidenceNegligible Confidence = "negligible (effectively ruled out)"
)

// band matches values strictly greater than above.
type band[L ~string] struct {
	above float64
	label L
}

// bandTable is evaluated top to bottom; the first matching band wins and
// fallback applies when none match.
type bandTable[L ~string] struct {
	bands    []band[L]
	fallback L
}

func (t bandTable[L]) lookup(v float64) L {
	for _, b := range t.bands {
		if v > b.above {
			return b.label
		}
	}
	return t.fallback
}

var deltaBands = bandTable[Interpretation]{
	bands: []band[Interpretation]{
		{0.30, InterpretationSignificantlyMore},
		{0.10, InterpretationModeratelyMore},
		{0.02, InterpretationSlightlyMore},
		{-0.02, InterpretationUnchanged},
		{-0.10, InterpretationSlightlyLess},
		{-0.30, InterpretationModeratelyLess},
	},
	fallback: InterpretationSignificantlyLess,
}

var confidenceBands = bandTable[Confidence]{
	bands: []band[Confidence]{
		{0.90, ConfidenceVeryHigh},
		{0.75, ConfidenceHigh},
		{0.50, ConfidenceModerate},
		{0.25, ConfidenceLow},
		{0.10, ConfidenceVeryLow},
	},
	fallback: ConfidenceNegligible,
}

// InterpretDelta labels a signed change in probability.
func InterpretDelta(delta float64) Interpretation {
	return deltaBands.lookup(delta)
}

// ClassifyConfidence labels a probability.
func ClassifyConfidence(p float64) Confidence {
	return confidenceBands.lookup(p)
}
