package bayes

import (
	"errors"
	"fmt"
	"math"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation error")

// ValidationError reports an input outside its mathematical domain.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ValidateProbability checks that p is a finite value in [0, 1].
func ValidateProbability(field string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return &ValidationError{Field: field, Value: p, Reason: "must be between 0 and 1"}
	}
	return nil
}

// ValidateTest checks the operating characteristics of a diagnostic test.
// Zero is accepted for both sensitivity and specificity.
func ValidateTest(t DiagnosticTest) error {
	if err := ValidateProbability("sensitivity", t.Sensitivity); err != nil {
		return err
	}
	return ValidateProbability("specificity", t.Specificity)
}

func validateLR(lr LR) error {
	v := float64(lr)
	if math.IsNaN(v) || v < 0 {
		return &ValidationError{Field: "likelihood ratio", Value: v, Reason: "must be non-negative"}
	}
	return nil
}
