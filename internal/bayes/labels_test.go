package bayes

import "testing"

func TestInterpretDelta_Boundaries(t *testing.T) {
	tests := []struct {
		delta float64
		want  Interpretation
	}{
		{0.50, InterpretationSignificantlyMore},
		{0.3000001, InterpretationSignificantlyMore},
		{0.30, InterpretationModeratelyMore},
		{0.11, InterpretationModeratelyMore},
		{0.10, InterpretationSlightlyMore},
		{0.03, InterpretationSlightlyMore},
		{0.02, InterpretationUnchanged},
		{0, InterpretationUnchanged},
		{-0.0199, InterpretationUnchanged},
		{-0.02, InterpretationSlightlyLess},
		{-0.0999, InterpretationSlightlyLess},
		{-0.10, InterpretationModeratelyLess},
		{-0.2999, InterpretationModeratelyLess},
		{-0.30, InterpretationSignificantlyLess},
		{-1, InterpretationSignificantlyLess},
	}
	for _, tt := range tests {
		if got := InterpretDelta(tt.delta); got != tt.want {
			t.Errorf("InterpretDelta(%v) = %q, want %q", tt.delta, got, tt.want)
		}
	}
}

func TestClassifyConfidence_Boundaries(t *testing.T) {
	tests := []struct {
		p    float64
		want Confidence
	}{
		{1, ConfidenceVeryHigh},
		{0.9001, ConfidenceVeryHigh},
		{0.90, ConfidenceHigh},
		{0.76, ConfidenceHigh},
		{0.75, ConfidenceModerate},
		{0.51, ConfidenceModerate},
		{0.50, ConfidenceLow},
		{0.4, ConfidenceLow},
		{0.25, ConfidenceVeryLow},
		{0.11, ConfidenceVeryLow},
		{0.10, ConfidenceNegligible},
		{0, ConfidenceNegligible},
	}
	for _, tt := range tests {
		if got := ClassifyConfidence(tt.p); got != tt.want {
			t.Errorf("ClassifyConfidence(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}
