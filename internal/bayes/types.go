// Package bayes implements Bayesian diagnostic reasoning: likelihood ratios,
// post-test probabilities, sequential test chains, predictive values and
// next-test recommendation. Every function is pure and safe for concurrent use.
package bayes

// DiagnosticTest describes a test by its operating characteristics.
type DiagnosticTest struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Sensitivity float64 `json:"sensitivity"` // P(positive | condition present)
	Specificity float64 `json:"specificity"` // P(negative | condition absent)
}

// TestObservation is one observed result of a diagnostic test.
type TestObservation struct {
	Test       DiagnosticTest `json:"test"`
	IsPositive bool           `json:"is_positive"`
}

// UpdateStep records a single Bayesian update within a sequential analysis.
type UpdateStep struct {
	Test             DiagnosticTest `json:"test"`
	IsPositive       bool           `json:"is_positive"`
	PriorProbability float64        `json:"prior_probability"`
	LikelihoodRatio  LR             `json:"likelihood_ratio"`
	PostProbability  float64        `json:"post_probability"`
	Delta            float64        `json:"delta"` // PostProbability - PriorProbability
	Interpretation   Interpretation `json:"interpretation"`
}

// SequentialAnalysis is the result of folding observations through the updater.
type SequentialAnalysis struct {
	InitialProbability float64      `json:"initial_probability"`
	FinalProbability   float64      `json:"final_probability"`
	TotalChange        float64      `json:"total_change"`
	Steps              []UpdateStep `json:"steps"`
	Confidence         Confidence   `json:"confidence"`
}

// TestPerformance holds predictive statistics for a test at a prevalence.
type TestPerformance struct {
	PPV                    float64      `json:"ppv"`
	NPV                    float64      `json:"npv"`
	NumberNeededToDiagnose NumberNeeded `json:"number_needed_to_diagnose"`
	PositiveLR             LR           `json:"positive_lr"`
	NegativeLR             LR           `json:"negative_lr"`
	YoudenIndex            float64      `json:"youden_index"`
}

// Verdict summarises what a recommendation asks the clinician to do.
type Verdict string

const (
	VerdictOrderTest         Verdict = "order test"
	VerdictNoFurtherTesting  Verdict = "no further testing needed"
	VerdictClinicalJudgement Verdict = "clinical judgment needed"
)

// CandidateScore is the simulated outcome of one candidate test.
type CandidateScore struct {
	Test                DiagnosticTest `json:"test"`
	LRPositive          LR             `json:"lr_positive"`
	LRNegative          LR             `json:"lr_negative"`
	PosteriorIfPositive float64        `json:"posterior_if_positive"`
	PosteriorIfNegative float64        `json:"posterior_if_negative"`
	Utility             float64        `json:"utility"`
}

// Recommendation is the output of RecommendNextTest.
type Recommendation struct {
	Test             *DiagnosticTest  `json:"test,omitempty"` // nil when no test is recommended
	ExpectedUtility  float64          `json:"expected_utility"`
	LRPositive       LR               `json:"lr_positive"`
	LRNegative       LR               `json:"lr_negative"`
	ProbabilityRange Confidence       `json:"probability_range"`
	Verdict          Verdict          `json:"verdict"`
	Rationale        string           `json:"rationale"`
	Candidates       []CandidateScore `json:"candidates,omitempty"`
}
