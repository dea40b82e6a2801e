package bayes

import (
	"errors"
	"testing"
)

func TestRecommendNextTest_TerminalStates(t *testing.T) {
	// Candidates are not evaluated in terminal states, so even an invalid
	// one must not produce an error.
	candidates := []DiagnosticTest{
		{Name: "troponin", Sensitivity: 0.9, Specificity: 0.95},
		{Name: "broken", Sensitivity: 3, Specificity: 0.5},
	}

	high, err := RecommendNextTest(0.95, candidates)
	if err != nil {
		t.Fatalf("0.95: unexpected error: %v", err)
	}
	low, err := RecommendNextTest(0.05, candidates)
	if err != nil {
		t.Fatalf("0.05: unexpected error: %v", err)
	}

	for name, rec := range map[string]Recommendation{"high": high, "low": low} {
		if rec.Test != nil {
			t.Errorf("%s: got test %q, want none", name, rec.Test.Name)
		}
		if rec.Verdict != VerdictNoFurtherTesting {
			t.Errorf("%s: verdict = %q, want %q", name, rec.Verdict, VerdictNoFurtherTesting)
		}
		if len(rec.Candidates) != 0 {
			t.Errorf("%s: %d candidates scored, want 0", name, len(rec.Candidates))
		}
	}
	if high.Rationale != rationaleHigh {
		t.Errorf("high rationale = %q", high.Rationale)
	}
	if low.Rationale != rationaleLow {
		t.Errorf("low rationale = %q", low.Rationale)
	}
	if high.ProbabilityRange != ConfidenceVeryHigh {
		t.Errorf("high range = %q", high.ProbabilityRange)
	}
}

func TestRecommendNextTest_BoundaryIsEvaluated(t *testing.T) {
	rec, err := RecommendNextTest(0.90, []DiagnosticTest{testA})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Test == nil || rec.Test.Name != "A" {
		t.Errorf("at 0.90 expected test A to be evaluated and chosen, got %+v", rec)
	}
}

func TestRecommendNextTest_PicksLargestShift(t *testing.T) {
	weak := DiagnosticTest{Name: "weak", Sensitivity: 0.6, Specificity: 0.6}
	strong := DiagnosticTest{Name: "strong", Sensitivity: 0.9, Specificity: 0.95}

	rec, err := RecommendNextTest(0.5, []DiagnosticTest{weak, strong})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Test == nil || rec.Test.Name != "strong" {
		t.Fatalf("got %+v, want strong", rec.Test)
	}
	if rec.Verdict != VerdictOrderTest {
		t.Errorf("verdict = %q", rec.Verdict)
	}
	// odds 1 * 18 -> 18/19
	if !almostEqual(rec.ExpectedUtility, 18.0/19.0-0.5) {
		t.Errorf("utility = %v, want %v", rec.ExpectedUtility, 18.0/19.0-0.5)
	}
	if !almostEqual(float64(rec.LRPositive), 0.9/(1-0.95)) {
		t.Errorf("LR+ = %v", rec.LRPositive)
	}
	if !almostEqual(float64(rec.LRNegative), 0.1/0.95) {
		t.Errorf("LR- = %v", rec.LRNegative)
	}
	if rec.ProbabilityRange != ConfidenceLow {
		t.Errorf("range = %q, want %q", rec.ProbabilityRange, ConfidenceLow)
	}
	if len(rec.Candidates) != 2 || rec.Candidates[0].Test.Name != "weak" {
		t.Errorf("candidates not reported in input order: %+v", rec.Candidates)
	}
}

func TestRecommendNextTest_TieKeepsFirst(t *testing.T) {
	first := DiagnosticTest{Name: "first", Sensitivity: 0.8, Specificity: 0.9}
	second := DiagnosticTest{Name: "second", Sensitivity: 0.8, Specificity: 0.9}

	rec, err := RecommendNextTest(0.4, []DiagnosticTest{first, second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Test == nil || rec.Test.Name != "first" {
		t.Errorf("got %+v, want first", rec.Test)
	}
}

func TestRecommendNextTest_NoInformativeCandidate(t *testing.T) {
	coin := DiagnosticTest{Name: "coin flip", Sensitivity: 0.5, Specificity: 0.5}

	for name, candidates := range map[string][]DiagnosticTest{
		"uninformative": {coin},
		"empty":         nil,
	} {
		rec, err := RecommendNextTest(0.5, candidates)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if rec.Test != nil {
			t.Errorf("%s: got test %q, want none", name, rec.Test.Name)
		}
		if rec.Verdict != VerdictClinicalJudgement {
			t.Errorf("%s: verdict = %q, want %q", name, rec.Verdict, VerdictClinicalJudgement)
		}
		if rec.Rationale != rationaleNone {
			t.Errorf("%s: rationale = %q", name, rec.Rationale)
		}
	}
}

func TestRecommendNextTest_Validation(t *testing.T) {
	if _, err := RecommendNextTest(1.1, nil); !errors.Is(err, ErrValidation) {
		t.Errorf("1.1: got %v, want validation error", err)
	}
	bad := DiagnosticTest{Name: "bad", Sensitivity: 0.5, Specificity: -1}
	if _, err := RecommendNextTest(0.5, []DiagnosticTest{testA, bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad candidate: got %v, want validation error", err)
	}
}
