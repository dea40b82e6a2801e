package bayes

import (
	"encoding/json"
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestAnalyzeTestPerformance_Reference(t *testing.T) {
	got, err := AnalyzeTestPerformance(0.9, 0.9, 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0.09 / (0.09 + 0.09)
	if !almostEqual(got.PPV, 0.5) {
		t.Errorf("PPV = %v, want 0.5", got.PPV)
	}
	// 0.81 / (0.81 + 0.01)
	if !almostEqual(got.NPV, 0.81/0.82) {
		t.Errorf("NPV = %v, want %v", got.NPV, 0.81/0.82)
	}
	if got.NumberNeededToDiagnose != 2 {
		t.Errorf("NND = %v, want 2", got.NumberNeededToDiagnose)
	}
	if !scalar.EqualWithinAbs(float64(got.PositiveLR), 9, 1e-9) {
		t.Errorf("LR+ = %v, want 9", got.PositiveLR)
	}
	if !almostEqual(got.YoudenIndex, 0.8) {
		t.Errorf("Youden = %v, want 0.8", got.YoudenIndex)
	}
}

func TestAnalyzeTestPerformance_NumberNeeded(t *testing.T) {
	tests := []struct {
		name             string
		sens, spec, prev float64
		want             NumberNeeded
	}{
		{"perfect test", 1, 1, 0.2, 1},
		{"ppv one quarter", 0.5, 0.5, 0.25, 4}, // 0.125 / 0.5
		{"zero sensitivity", 0, 0.9, 0.3, NumberNeededUnbounded},
		{"zero prevalence", 0.9, 0.9, 0, NumberNeededUnbounded},
		{"no positives possible", 0.9, 1, 0, NumberNeededUnbounded},
		{"ppv below integer range saturates", 1e-12, 0.5, 1e-12, NumberNeededMax},
		{"reference scenario", 0.9, 0.9, 0.1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AnalyzeTestPerformance(tt.sens, tt.spec, tt.prev)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.NumberNeededToDiagnose != tt.want {
				t.Errorf("NND = %v, want %v (ppv %v)", got.NumberNeededToDiagnose, tt.want, got.PPV)
			}
		})
	}
}

func TestAnalyzeTestPerformance_ZeroDenominators(t *testing.T) {
	// Prevalence 1 with perfect sensitivity: a negative result never occurs.
	got, err := AnalyzeTestPerformance(1, 0.8, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.NPV != 0 {
		t.Errorf("NPV = %v, want 0", got.NPV)
	}
	if got.PPV != 1 {
		t.Errorf("PPV = %v, want 1", got.PPV)
	}
}

func TestAnalyzeTestPerformance_Validation(t *testing.T) {
	if _, err := AnalyzeTestPerformance(0.9, 0.9, 1.5); !errors.Is(err, ErrValidation) {
		t.Errorf("prevalence 1.5: got %v, want validation error", err)
	}
	if _, err := AnalyzeTestPerformance(0.9, -0.2, 0.5); !errors.Is(err, ErrValidation) {
		t.Errorf("specificity -0.2: got %v, want validation error", err)
	}
}

func TestNumberNeeded_JSON(t *testing.T) {
	b, err := json.Marshal(NumberNeededUnbounded)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"unbounded"` {
		t.Errorf("got %s, want \"unbounded\"", b)
	}

	var n NumberNeeded
	if err := json.Unmarshal([]byte(`7`), &n); err != nil || n != 7 {
		t.Errorf("unmarshal 7 = %v, %v", n, err)
	}
	if err := json.Unmarshal([]byte(`"unbounded"`), &n); err != nil || !n.IsUnbounded() {
		t.Errorf("unmarshal unbounded = %v, %v", n, err)
	}
	if err := json.Unmarshal([]byte(`"many"`), &n); err == nil {
		t.Error("expected error for unknown string")
	}
}
