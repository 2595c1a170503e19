// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/carmarket/seobench/internal/bench"
	"github.com/carmarket/seobench/internal/httpapi"
	"github.com/carmarket/seobench/internal/logging"
	"github.com/carmarket/seobench/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the nightly scheduler and the admin HTTP API",
	Long: `Serve arms the cron scheduler (nightly benchmark runs) and exposes the
admin API under /api/bench: pillar overview, competitor standings,
recommendations, KPI gaps, run status, and manual run triggers.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8790)")
	serveCmd.Flags().Bool("no-scheduler", false, "serve the API without arming the cron entry")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := benchConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if off, _ := cmd.Flags().GetBool("no-scheduler"); off {
		cfg.Scheduler.Enabled = false
	}

	logger, cleanup := logging.Setup(cfg.Server.LogFile, slog.LevelInfo)
	defer cleanup()
	slog.SetDefault(logger)

	st, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if n, err := st.SeedCompetitors(ctx, cfg.Store.CompetitorsPath); err != nil {
		return err
	} else if n > 0 {
		logger.Info("seeded competitor registry", "count", n, "path", cfg.Store.CompetitorsPath)
	}

	runner := bench.NewRunner(st, cfg, crawlKey(), os.Stderr)
	scheduler := bench.NewScheduler(runner, st, os.Stderr)
	if cfg.Scheduler.Enabled {
		if err := scheduler.Start(cfg.Scheduler.Schedule); err != nil {
			return err
		}
		defer scheduler.Stop()
		logger.Info("scheduler armed", "schedule", cfg.Scheduler.Schedule)
	}

	api := httpapi.NewServer(st, scheduler, cfg.Server, cfg.Scheduler.SelfDomain)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("admin API listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
