package api

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/bayesdx/internal/bayes"
	"github.com/abhisek/bayesdx/internal/catalog"
	"github.com/abhisek/bayesdx/internal/service"
)

// observationRef is an observation naming its test inline or by catalog ID.
type observationRef struct {
	TestID     string                `json:"test_id,omitempty"`
	Test       *bayes.DiagnosticTest `json:"test,omitempty"`
	IsPositive bool                  `json:"is_positive"`
}

type sequentialRequest struct {
	InitialProbability float64          `json:"initial_probability"`
	Observations       []observationRef `json:"observations"`
}

// candidateRef is a candidate test given inline or as {"test_id": ...}.
type candidateRef struct {
	TestID string `json:"test_id,omitempty"`
	bayes.DiagnosticTest
}

type recommendRequest struct {
	CurrentProbability float64        `json:"current_probability"`
	Candidates         []candidateRef `json:"candidates"`
}

type likelihoodRatioResponse struct {
	LikelihoodRatio bayes.LR `json:"likelihood_ratio"`
}

type posteriorResponse struct {
	PosteriorProbability float64          `json:"posterior_probability"`
	Confidence           bayes.Confidence `json:"confidence"`
}

type testsResponse struct {
	Tests []catalog.Entry `json:"tests"`
}

func decode[T any](raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &requestError{Reason: fmt.Sprintf("decode request body: %v", err)}
	}
	return v, nil
}

// resolveSequential replaces catalog references with their tests.
func resolveSequential(cat *catalog.Catalog, req sequentialRequest) (service.SequentialInput, error) {
	in := service.SequentialInput{
		InitialProbability: req.InitialProbability,
		Observations:       make([]bayes.TestObservation, 0, len(req.Observations)),
	}
	for i, o := range req.Observations {
		var test bayes.DiagnosticTest
		switch {
		case o.TestID != "":
			e, err := cat.Get(o.TestID)
			if err != nil {
				return in, fmt.Errorf("observation %d: %w", i+1, err)
			}
			test = e.DiagnosticTest()
		case o.Test != nil:
			test = *o.Test
		default:
			return in, &requestError{Reason: fmt.Sprintf("observation %d: test or test_id is required", i+1)}
		}
		in.Observations = append(in.Observations, bayes.TestObservation{Test: test, IsPositive: o.IsPositive})
	}
	return in, nil
}

// resolveRecommend replaces catalog references with their tests. No
// candidates means the whole catalog.
func resolveRecommend(cat *catalog.Catalog, req recommendRequest) (service.RecommendInput, error) {
	in := service.RecommendInput{CurrentProbability: req.CurrentProbability}
	if len(req.Candidates) == 0 {
		tests, err := cat.Tests()
		if err != nil {
			return in, err
		}
		in.Candidates = tests
		return in, nil
	}
	in.Candidates = make([]bayes.DiagnosticTest, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		if c.TestID == "" {
			in.Candidates = append(in.Candidates, c.DiagnosticTest)
			continue
		}
		e, err := cat.Get(c.TestID)
		if err != nil {
			return in, err
		}
		in.Candidates = append(in.Candidates, e.DiagnosticTest())
	}
	return in, nil
}
