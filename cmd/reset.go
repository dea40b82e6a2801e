package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete recorded usage events",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return fmt.Errorf("--keep must be >= 0, got %d", keep)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.EventRepo().Prune(cmd.Context(), keep)
		if err != nil {
			return fmt.Errorf("prune events: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d event(s), kept the newest %d.\n", n, keep)
		return nil
	},
}

func init() {
	resetCmd.Flags().Int("keep", 0, "Number of most recent events to keep")
}
