package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/bayesdx/internal/catalog"
	"github.com/abhisek/bayesdx/internal/config"
	"github.com/abhisek/bayesdx/internal/logging"
	"github.com/abhisek/bayesdx/internal/service"
	"github.com/abhisek/bayesdx/internal/store"
)

var (
	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "bayesdx",
	Short: "Bayesian diagnostic reasoning for clinical cases",
	Long: `bayesdx computes likelihood ratios, post-test probabilities, sequential test
chains, predictive values and next-test recommendations, from the command line
or over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		var err error
		cfg, err = config.FromEnv()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if p, _ := cmd.Flags().GetString("catalog"); p != "" {
			cfg.CatalogPath = p
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		logger, err = logging.New(cfg.LogLevel, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite usage log (overrides BAYESDX_DB env var)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a YAML test catalog (overrides BAYESDX_CATALOG env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lrCmd)
	rootCmd.AddCommand(posteriorCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(performanceCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then BAYESDX_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the usage log named by --db or the environment.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// loadCatalog returns the catalog from --catalog/BAYESDX_CATALOG or the
// built-in one.
func loadCatalog() (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.CatalogPath)
}

// cliEngine returns an engine that records each call to the usage log. The
// log is optional: if it cannot be opened the engine runs unrecorded.
func cliEngine(cmd *cobra.Command) (service.Engine, context.Context, func()) {
	ctx := service.WithSource(cmd.Context(), service.SourceCLI)
	s, err := openStore(cmd)
	if err != nil {
		logger.Warn("usage log unavailable, running unrecorded", zap.Error(err))
		return service.New(), ctx, func() {}
	}
	return service.WithRecording(service.New(), s.EventRepo(), logger), ctx, func() { _ = s.Close() }
}

// printResult prints v as JSON with --json, or the rendered report otherwise.
func printResult(cmd *cobra.Command, v any, render func() string) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), render())
	return err
}
