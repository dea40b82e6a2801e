package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bayesdx/internal/bayes"
	"github.com/abhisek/bayesdx/internal/catalog"
	"github.com/abhisek/bayesdx/internal/usage"
)

const barWidth = 48

func rule(n int) string { return Label.Render(strings.Repeat("─", n)) }

func field(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s %s\n", Label.Render(fmt.Sprintf("%-22s", label+":")), Value.Render(value))
}

func pct(p float64) string { return fmt.Sprintf("%.1f%%", p*100) }

func polarity(positive bool) string {
	if positive {
		return "+"
	}
	return "-"
}

// shift styles a signed probability change in percentage points.
func shift(delta float64) string {
	s := fmt.Sprintf("%+.1f pp", delta*100)
	switch {
	case delta > 0:
		return Rising.Render(s)
	case delta < 0:
		return Falling.Render(s)
	default:
		return s
	}
}

// LikelihoodRatio renders a single likelihood ratio.
func LikelihoodRatio(sensitivity, specificity float64, isPositive bool, lr bayes.LR) string {
	var b strings.Builder
	b.WriteString(Title.Render("Likelihood ratio") + "\n")
	field(&b, "Sensitivity", pct(sensitivity))
	field(&b, "Specificity", pct(specificity))
	field(&b, "Result", polarity(isPositive))
	field(&b, "LR", lr.String())
	return b.String()
}

// Posterior renders one Bayesian update.
func Posterior(prior float64, lr bayes.LR, post float64) string {
	var b strings.Builder
	b.WriteString(Title.Render("Post-test probability") + "\n")
	b.WriteString(ProbabilityBar{Label: "pre ", Probability: prior, Width: barWidth}.View() + "\n")
	b.WriteString(ProbabilityBar{Label: "post", Probability: post, Width: barWidth}.View() + "\n")
	field(&b, "LR", lr.String())
	field(&b, "Change", shift(post-prior))
	field(&b, "Confidence", string(bayes.ClassifyConfidence(post)))
	return b.String()
}

// Sequential renders a chain of updates step by step.
func Sequential(a bayes.SequentialAnalysis) string {
	var b strings.Builder
	b.WriteString(Title.Render("Sequential analysis") + "\n")
	b.WriteString(ProbabilityBar{Label: "initial", Probability: a.InitialProbability, Width: barWidth}.View() + "\n")

	if len(a.Steps) > 0 {
		fmt.Fprintf(&b, "\n%-3s  %-24s  %-3s  %-9s  %-7s  %-7s  %-10s  %s\n",
			"#", "Test", "Res", "LR", "Pre", "Post", "Shift", "Interpretation")
		b.WriteString(rule(100) + "\n")
		for i, s := range a.Steps {
			fmt.Fprintf(&b, "%-3d  %-24s  %-3s  %-9s  %-7s  %-7s  %s  %s\n",
				i+1,
				truncate(s.Test.Name, 24),
				polarity(s.IsPositive),
				s.LikelihoodRatio.String(),
				pct(s.PriorProbability),
				pct(s.PostProbability),
				padRight(shift(s.Delta), 10),
				s.Interpretation,
			)
		}
		b.WriteString("\n")
	}

	b.WriteString(ProbabilityBar{Label: "final  ", Probability: a.FinalProbability, Width: barWidth}.View() + "\n")
	field(&b, "Total change", shift(a.TotalChange))
	field(&b, "Confidence", string(a.Confidence))
	return b.String()
}

// Performance renders predictive statistics of a test at a prevalence.
func Performance(sensitivity, specificity, prevalence float64, p bayes.TestPerformance) string {
	var b strings.Builder
	b.WriteString(Title.Render("Test performance") + "\n")
	field(&b, "Sensitivity", pct(sensitivity))
	field(&b, "Specificity", pct(specificity))
	field(&b, "Prevalence", pct(prevalence))
	b.WriteString(rule(40) + "\n")
	field(&b, "PPV", pct(p.PPV))
	field(&b, "NPV", pct(p.NPV))
	field(&b, "LR+", p.PositiveLR.String())
	field(&b, "LR-", p.NegativeLR.String())
	field(&b, "Youden index", fmt.Sprintf("%.3f", p.YoudenIndex))
	field(&b, "Number needed", p.NumberNeededToDiagnose.String())
	return b.String()
}

// Recommendation renders the recommended test and the ranked candidates.
func Recommendation(current float64, r bayes.Recommendation) string {
	var b strings.Builder
	b.WriteString(Title.Render("Next test") + "\n")
	b.WriteString(ProbabilityBar{Label: "current", Probability: current, Width: barWidth}.View() + "\n")
	field(&b, "Range", string(r.ProbabilityRange))

	verdict := string(r.Verdict)
	if r.Verdict == bayes.VerdictOrderTest {
		verdict = OK.Render(verdict)
	}
	field(&b, "Verdict", verdict)
	if r.Test != nil {
		field(&b, "Test", r.Test.Name)
		field(&b, "Expected utility", fmt.Sprintf("%.1f pp", r.ExpectedUtility*100))
		field(&b, "LR+ / LR-", r.LRPositive.String()+" / "+r.LRNegative.String())
	}
	b.WriteString(Hint.Render(r.Rationale) + "\n")

	if len(r.Candidates) > 0 {
		fmt.Fprintf(&b, "\n%-24s  %-9s  %-9s  %-7s  %-7s  %s\n",
			"Candidate", "LR+", "LR-", "If +", "If -", "Utility")
		b.WriteString(rule(72) + "\n")
		for _, c := range r.Candidates {
			fmt.Fprintf(&b, "%-24s  %-9s  %-9s  %-7s  %-7s  %.1f pp\n",
				truncate(c.Test.Name, 24),
				c.LRPositive.String(),
				c.LRNegative.String(),
				pct(c.PosteriorIfPositive),
				pct(c.PosteriorIfNegative),
				c.Utility*100,
			)
		}
	}
	return b.String()
}

// Catalog renders catalog entries as a table.
func Catalog(entries []catalog.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-18s  %-30s  %-9s  %-6s  %-6s  %s\n",
		"ID", "Name", "Category", "Sens", "Spec", "Condition")
	b.WriteString(rule(100) + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-18s  %-30s  %-9s  %-6s  %-6s  %s\n",
			e.ID, truncate(e.Name, 30), e.Category, pct(e.Sensitivity), pct(e.Specificity), e.Condition)
	}
	return b.String()
}

// Usage renders a usage summary.
func Usage(s usage.Summary) string {
	var b strings.Builder
	b.WriteString(Title.Render("Usage by operation") + "\n")
	fmt.Fprintf(&b, "%-18s  %6s  %6s  %8s  %10s  %10s  %10s\n",
		"Operation", "Calls", "Failed", "Success", "Mean µs", "p50 µs", "p95 µs")
	b.WriteString(rule(80) + "\n")
	for _, op := range s.Operations {
		fmt.Fprintf(&b, "%-18s  %6d  %6d  %8s  %10.0f  %10.0f  %10.0f\n",
			op.Operation, op.Count, op.Failures, pct(op.SuccessRate),
			op.LatencyMeanUs, op.LatencyP50Us, op.LatencyP95Us)
	}
	b.WriteString(rule(80) + "\n")
	fmt.Fprintf(&b, "%-18s  %6d\n", "TOTAL", s.Total)

	if s.MedianSteps > 0 || s.MeanAbsShift > 0 {
		b.WriteString("\n")
		field(&b, "Mean sequential shift", fmt.Sprintf("%.1f pp", s.MeanAbsShift*100))
		field(&b, "Median chain length", fmt.Sprintf("%.1f", s.MedianSteps))
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// padRight pads a possibly styled string to a visible width.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
