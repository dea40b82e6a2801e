package bayes

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// LR is a likelihood ratio: the factor a test result multiplies the
// pre-test odds by. Unbounded represents a result that settles the question
// outright (specificity 1 on a positive, or 0 on a negative).
type LR float64

// Unbounded is the likelihood ratio of a result that rules the condition
// in with certainty.
var Unbounded = LR(math.Inf(1))

const unboundedText = "unbounded"

// IsUnbounded reports whether lr is the unbounded sentinel.
func (lr LR) IsUnbounded() bool { return math.IsInf(float64(lr), 1) }

func (lr LR) String() string {
	if lr.IsUnbounded() {
		return unboundedText
	}
	return strconv.FormatFloat(float64(lr), 'g', 6, 64)
}

// MarshalJSON encodes Unbounded as the string "unbounded" since JSON has no
// representation for infinity.
func (lr LR) MarshalJSON() ([]byte, error) {
	if lr.IsUnbounded() {
		return json.Marshal(unboundedText)
	}
	return json.Marshal(float64(lr))
}

func (lr *LR) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := ParseLR(s)
		if err != nil {
			return err
		}
		*lr = v
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("likelihood ratio must be a number or %q", unboundedText)
	}
	*lr = LR(f)
	return nil
}

// ParseLR parses a decimal likelihood ratio, or "unbounded"/"inf".
func ParseLR(s string) (LR, error) {
	switch s {
	case unboundedText, "inf", "+inf", "Inf", "+Inf":
		return Unbounded, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse likelihood ratio %q: %w", s, err)
	}
	return LR(f), nil
}

// LikelihoodRatio derives the likelihood ratio of a test result.
//
//	positive: sensitivity / (1 - specificity)
//	negative: (1 - sensitivity) / specificity
//
// A zero denominator yields Unbounded instead of an error. When numerator
// and denominator are both zero the result carries no information and the
// neutral ratio 1 is returned.
func LikelihoodRatio(sensitivity, specificity float64, isPositive bool) (LR, error) {
	if err := ValidateTest(DiagnosticTest{Sensitivity: sensitivity, Specificity: specificity}); err != nil {
		return 0, err
	}

	num, den := 1-sensitivity, specificity
	if isPositive {
		num, den = sensitivity, 1-specificity
	}

	switch {
	case den == 0 && num == 0:
		return 1, nil
	case den == 0:
		return Unbounded, nil
	}
	return LR(num / den), nil
}

// TestLikelihoodRatios returns LR+ and LR- for a test.
func TestLikelihoodRatios(t DiagnosticTest) (pos, neg LR, err error) {
	if pos, err = LikelihoodRatio(t.Sensitivity, t.Specificity, true); err != nil {
		return 0, 0, err
	}
	if neg, err = LikelihoodRatio(t.Sensitivity, t.Specificity, false); err != nil {
		return 0, 0, err
	}
	return pos, neg, nil
}
