package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/bayesdx/internal/bayes"
)

// ParseObservation parses a compact observation string.
//
//	troponin-hs+              catalog test, positive result
//	d-dimer-                  catalog test, negative result
//	Lactate:0.7:0.8:+         inline test as name:sensitivity:specificity:result
func (c *Catalog) ParseObservation(s string) (bayes.TestObservation, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		return parseInline(s)
	}

	id, positive, err := splitPolarity(s)
	if err != nil {
		return bayes.TestObservation{}, err
	}
	e, err := c.Get(id)
	if err != nil {
		return bayes.TestObservation{}, err
	}
	return bayes.TestObservation{Test: e.DiagnosticTest(), IsPositive: positive}, nil
}

func parseInline(s string) (bayes.TestObservation, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return bayes.TestObservation{}, fmt.Errorf("observation %q: want name:sensitivity:specificity:+|-", s)
	}
	sens, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return bayes.TestObservation{}, fmt.Errorf("observation %q: sensitivity: %w", s, err)
	}
	spec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return bayes.TestObservation{}, fmt.Errorf("observation %q: specificity: %w", s, err)
	}
	positive, err := parsePolarity(parts[3])
	if err != nil {
		return bayes.TestObservation{}, fmt.Errorf("observation %q: %w", s, err)
	}
	return bayes.TestObservation{
		Test:       bayes.DiagnosticTest{Name: parts[0], Sensitivity: sens, Specificity: spec},
		IsPositive: positive,
	}, nil
}

func splitPolarity(s string) (string, bool, error) {
	if len(s) < 2 {
		return "", false, fmt.Errorf("observation %q: want <test-id>+ or <test-id>-", s)
	}
	positive, err := parsePolarity(s[len(s)-1:])
	if err != nil {
		return "", false, fmt.Errorf("observation %q: %w", s, err)
	}
	return s[:len(s)-1], positive, nil
}

func parsePolarity(s string) (bool, error) {
	switch s {
	case "+", "pos", "positive":
		return true, nil
	case "-", "neg", "negative":
		return false, nil
	}
	return false, fmt.Errorf("result must be + or -, got %q", s)
}
