package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/bayesdx/internal/bayes"
	"github.com/abhisek/bayesdx/internal/report"
	"github.com/abhisek/bayesdx/internal/service"
)

var lrCmd = &cobra.Command{
	Use:   "lr",
	Short: "Compute the likelihood ratio of a test result",
	Example: `  bayesdx lr --sens 0.9 --spec 0.95
  bayesdx lr --test d-dimer --negative`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sens, spec, err := testCharacteristics(cmd)
		if err != nil {
			return err
		}
		negative, _ := cmd.Flags().GetBool("negative")
		in := service.LRInput{Sensitivity: sens, Specificity: spec, IsPositive: !negative}

		engine, ctx, done := cliEngine(cmd)
		defer done()
		lr, err := engine.LikelihoodRatio(ctx, in)
		if err != nil {
			return err
		}
		return printResult(cmd, map[string]bayes.LR{"likelihood_ratio": lr}, func() string {
			return report.LikelihoodRatio(sens, spec, in.IsPositive, lr)
		})
	},
}

var posteriorCmd = &cobra.Command{
	Use:     "posterior",
	Short:   "Apply one likelihood ratio to a pre-test probability",
	Example: `  bayesdx posterior --prior 0.3 --lr 18`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prior, _ := cmd.Flags().GetFloat64("prior")
		rawLR, _ := cmd.Flags().GetString("lr")
		lr, err := bayes.ParseLR(rawLR)
		if err != nil {
			return err
		}

		engine, ctx, done := cliEngine(cmd)
		defer done()
		post, err := engine.Posterior(ctx, service.PosteriorInput{PriorProbability: prior, LikelihoodRatio: lr})
		if err != nil {
			return err
		}
		return printResult(cmd, map[string]any{
			"posterior_probability": post,
			"confidence":            bayes.ClassifyConfidence(post),
		}, func() string {
			return report.Posterior(prior, lr, post)
		})
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fold a sequence of test results into a pre-test probability",
	Example: `  bayesdx analyze --prior 0.2 --test troponin-hs+ --test "ECG:0.7:0.9:-"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prior, _ := cmd.Flags().GetFloat64("prior")
		specs, _ := cmd.Flags().GetStringArray("test")

		cat, err := loadCatalog()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		in := service.SequentialInput{InitialProbability: prior}
		for _, s := range specs {
			obs, err := cat.ParseObservation(s)
			if err != nil {
				return err
			}
			in.Observations = append(in.Observations, obs)
		}

		engine, ctx, done := cliEngine(cmd)
		defer done()
		a, err := engine.Sequential(ctx, in)
		if err != nil {
			return err
		}
		return printResult(cmd, a, func() string { return report.Sequential(a) })
	},
}

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Compute predictive values of a test at a prevalence",
	Example: `  bayesdx performance --sens 0.9 --spec 0.9 --prevalence 0.1
  bayesdx performance --test ctpa --prevalence 0.15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sens, spec, err := testCharacteristics(cmd)
		if err != nil {
			return err
		}
		prevalence, _ := cmd.Flags().GetFloat64("prevalence")
		in := service.PerformanceInput{Sensitivity: sens, Specificity: spec, Prevalence: prevalence}

		engine, ctx, done := cliEngine(cmd)
		defer done()
		p, err := engine.Performance(ctx, in)
		if err != nil {
			return err
		}
		return printResult(cmd, p, func() string {
			return report.Performance(sens, spec, prevalence, p)
		})
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend the most informative next test",
	Long: `Recommend the candidate test whose result would move the probability the
most. Candidates are catalog IDs; without --test every catalog test is a
candidate.`,
	Example: `  bayesdx recommend --probability 0.4 --test d-dimer --test ctpa`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _ := cmd.Flags().GetFloat64("probability")
		ids, _ := cmd.Flags().GetStringSlice("test")

		cat, err := loadCatalog()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		candidates, err := cat.Tests(ids...)
		if err != nil {
			return err
		}

		engine, ctx, done := cliEngine(cmd)
		defer done()
		rec, err := engine.Recommend(ctx, service.RecommendInput{CurrentProbability: p, Candidates: candidates})
		if err != nil {
			return err
		}
		return printResult(cmd, rec, func() string { return report.Recommendation(p, rec) })
	},
}

// testCharacteristics reads --sens/--spec, or the catalog test named by --test.
func testCharacteristics(cmd *cobra.Command) (sens, spec float64, err error) {
	if id, _ := cmd.Flags().GetString("test"); id != "" {
		cat, err := loadCatalog()
		if err != nil {
			return 0, 0, fmt.Errorf("load catalog: %w", err)
		}
		e, err := cat.Get(id)
		if err != nil {
			return 0, 0, err
		}
		return e.Sensitivity, e.Specificity, nil
	}
	if !cmd.Flags().Changed("sens") || !cmd.Flags().Changed("spec") {
		return 0, 0, fmt.Errorf("either --test or both --sens and --spec are required")
	}
	sens, _ = cmd.Flags().GetFloat64("sens")
	spec, _ = cmd.Flags().GetFloat64("spec")
	return sens, spec, nil
}

func init() {
	for _, c := range []*cobra.Command{lrCmd, performanceCmd} {
		c.Flags().Float64("sens", 0, "Sensitivity in [0,1]")
		c.Flags().Float64("spec", 0, "Specificity in [0,1]")
		c.Flags().StringP("test", "t", "", "Catalog test ID (instead of --sens/--spec)")
	}
	lrCmd.Flags().Bool("negative", false, "Compute the ratio of a negative result")
	performanceCmd.Flags().Float64("prevalence", 0, "Prevalence (pre-test probability) in [0,1]")
	_ = performanceCmd.MarkFlagRequired("prevalence")

	posteriorCmd.Flags().Float64("prior", 0, "Pre-test probability in [0,1]")
	posteriorCmd.Flags().String("lr", "", `Likelihood ratio, or "unbounded"`)
	_ = posteriorCmd.MarkFlagRequired("prior")
	_ = posteriorCmd.MarkFlagRequired("lr")

	analyzeCmd.Flags().Float64("prior", 0, "Pre-test probability in [0,1]")
	analyzeCmd.Flags().StringArrayP("test", "t", nil, `Observed result: "<id>+", "<id>-" or "<name>:<sens>:<spec>:<+|->" (repeatable, applied in order)`)
	_ = analyzeCmd.MarkFlagRequired("prior")

	recommendCmd.Flags().Float64("probability", 0, "Current probability in [0,1]")
	recommendCmd.Flags().StringSliceP("test", "t", nil, "Candidate catalog test IDs (default: whole catalog)")
	_ = recommendCmd.MarkFlagRequired("probability")
}
