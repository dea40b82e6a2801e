// Package service exposes the diagnostic-reasoning engine to transports
// (HTTP, CLI) behind a context-aware interface that can be decorated.
package service

import (
	"context"

	"github.com/abhisek/bayesdx/internal/bayes"
)

// Operation names an engine entry point in logs, metrics and the usage log.
type Operation string

const (
	OpLikelihoodRatio Operation = "likelihood-ratio"
	OpPosterior       Operation = "posterior"
	OpSequential      Operation = "sequential"
	OpPerformance     Operation = "performance"
	OpRecommend       Operation = "recommend"
)

// Operations lists every operation in display order.
func Operations() []Operation {
	return []Operation{OpLikelihoodRatio, OpPosterior, OpSequential, OpPerformance, OpRecommend}
}

type LRInput struct {
	Sensitivity float64 `json:"sensitivity"`
	Specificity float64 `json:"specificity"`
	IsPositive  bool    `json:"is_positive"`
}

type PosteriorInput struct {
	PriorProbability float64  `json:"prior_probability"`
	LikelihoodRatio  bayes.LR `json:"likelihood_ratio"`
}

type SequentialInput struct {
	InitialProbability float64                 `json:"initial_probability"`
	Observations       []bayes.TestObservation `json:"observations"`
}

type PerformanceInput struct {
	Sensitivity float64 `json:"sensitivity"`
	Specificity float64 `json:"specificity"`
	Prevalence  float64 `json:"prevalence"`
}

type RecommendInput struct {
	CurrentProbability float64                `json:"current_probability"`
	Candidates         []bayes.DiagnosticTest `json:"candidates"`
}

// Engine is the boundary contract of the reasoning core. The context carries
// request metadata only; no operation blocks.
type Engine interface {
	LikelihoodRatio(ctx context.Context, in LRInput) (bayes.LR, error)
	Posterior(ctx context.Context, in PosteriorInput) (float64, error)
	Sequential(ctx context.Context, in SequentialInput) (bayes.SequentialAnalysis, error)
	Performance(ctx context.Context, in PerformanceInput) (bayes.TestPerformance, error)
	Recommend(ctx context.Context, in RecommendInput) (bayes.Recommendation, error)
}

// direct calls the bayes package with no side effects.
type direct struct{}

// New returns an Engine that calls the bayes package directly.
func New() Engine { return direct{} }

func (direct) LikelihoodRatio(_ context.Context, in LRInput) (bayes.LR, error) {
	return bayes.LikelihoodRatio(in.Sensitivity, in.Specificity, in.IsPositive)
}

func (direct) Posterior(_ context.Context, in PosteriorInput) (float64, error) {
	return bayes.PosteriorProbability(in.PriorProbability, in.LikelihoodRatio)
}

func (direct) Sequential(_ context.Context, in SequentialInput) (bayes.SequentialAnalysis, error) {
	return bayes.AnalyzeSequentialTests(in.InitialProbability, in.Observations)
}

func (direct) Performance(_ context.Context, in PerformanceInput) (bayes.TestPerformance, error) {
	return bayes.AnalyzeTestPerformance(in.Sensitivity, in.Specificity, in.Prevalence)
}

func (direct) Recommend(_ context.Context, in RecommendInput) (bayes.Recommendation, error) {
	return bayes.RecommendNextTest(in.CurrentProbability, in.Candidates)
}
