package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/bayesdx/internal/report"
	"github.com/abhisek/bayesdx/internal/store"
	"github.com/abhisek/bayesdx/internal/usage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		since, _ := cmd.Flags().GetDuration("since")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := s.EventRepo().QueryAnalyses(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		summary := usage.Summarize(events)
		if summary.Total == 0 {
			if asJSON, _ := cmd.Flags().GetBool("json"); !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), "No usage recorded yet.")
				return nil
			}
		}
		return printResult(cmd, summary, func() string { return report.Usage(summary) })
	},
}

func init() {
	statsCmd.Flags().Duration("since", 0, "Only include events newer than this (e.g. 24h)")
}
