package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/bayesdx/internal/catalog"
	"github.com/abhisek/bayesdx/internal/report"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the diagnostic tests in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		entries := cat.All()
		if c, _ := cmd.Flags().GetString("category"); c != "" {
			category := catalog.Category(c)
			if !category.Valid() {
				return fmt.Errorf("unknown category %q", c)
			}
			entries = cat.ByCategory(category)
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tests found.")
			return nil
		}
		return printResult(cmd, entries, func() string { return report.Catalog(entries) })
	},
}

func init() {
	catalogCmd.Flags().StringP("category", "c", "", "Filter by category (lab, imaging, clinical, bedside)")
}
