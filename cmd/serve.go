package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/bayesdx/internal/api"
	"github.com/abhisek/bayesdx/internal/metrics"
	"github.com/abhisek/bayesdx/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if key, _ := cmd.Flags().GetString("api-key"); key != "" {
			cfg.Server.APIKey = key
		}

		cat, err := loadCatalog()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		engine := service.WithRecording(service.New(), s.EventRepo(), logger)
		handler, err := api.NewHandler(engine, cat, logger, metrics.New(reg), cfg.Cache.Size)
		if err != nil {
			return err
		}
		router := api.NewRouter(handler, api.RouterOptions{
			APIKey:         cfg.Server.APIKey,
			RequestTimeout: cfg.Server.RequestTimeout,
			Gatherer:       reg,
		})
		srv := api.NewServer(cfg.Server, router)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("starting bayesdx",
				zap.String("addr", cfg.Server.Addr),
				zap.Int("tests", cat.Len()),
				zap.Bool("auth", cfg.Server.APIKey != ""),
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			return nil
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides BAYESDX_ADDR)")
	serveCmd.Flags().String("api-key", "", "Require this API key on /v1 routes (overrides BAYESDX_API_KEY)")
}
