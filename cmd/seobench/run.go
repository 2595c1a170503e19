// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carmarket/seobench/internal/bench"
	"github.com/carmarket/seobench/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run [domains...]",
	Short: "Execute one full benchmark run",
	Long: `Run executes the four benchmark phases once: crawl, AI-visibility
probe, score, and recommend. Without arguments the domain list is the
product's own domain plus every active competitor from the registry.
The run summary prints to stdout as JSON.`,
	RunE: runBenchmark,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg := benchConfig()
	st, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if n, err := st.SeedCompetitors(ctx, cfg.Store.CompetitorsPath); err != nil {
		return err
	} else if n > 0 {
		fmt.Fprintf(os.Stderr, "seeded %d competitor(s) from %s\n", n, cfg.Store.CompetitorsPath)
	}

	runner := bench.NewRunner(st, cfg, crawlKey(), os.Stderr)
	status, err := runner.Run(ctx, args)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(status); err != nil {
		return err
	}
	if !status.Success {
		return fmt.Errorf("benchmark run failed: %s", status.Error)
	}
	return nil
}
