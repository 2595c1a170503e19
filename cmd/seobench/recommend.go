// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/carmarket/seobench/internal/recommend"
	"github.com/carmarket/seobench/internal/store"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate ranked recommendations from the current snapshots",
	Long: `Recommend evaluates the declarative rule set against the product's
latest snapshot, scores triggered rules by expected uplift and
confidence, persists the top ones, and prints them as JSON.`,
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg := benchConfig()
	st, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	engine := recommend.NewEngine(st, cfg.Scheduler.SelfDomain, cfg.Rules, cfg.Scoring)
	recs, err := engine.Generate(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}
