// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/carmarket/seobench/internal/kpi"
	"github.com/carmarket/seobench/internal/score"
	"github.com/carmarket/seobench/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score [domains...]",
	Short: "Compute pillar scores from the latest stored snapshots",
	Long: `Score reads each domain's latest snapshot and computes one score per
pillar using the current KPI weight table. Without arguments it scores
the product's own domain plus every active competitor. Scores print to
stdout as JSON; --save also persists them.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().Bool("save", false, "persist scores to the benchmark database")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := benchConfig()
	st, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	domains := args
	if len(domains) == 0 {
		domains = append(domains, cfg.Scheduler.SelfDomain)
		competitors, err := st.ListActiveCompetitors(ctx)
		if err != nil {
			return err
		}
		for _, c := range competitors {
			if c.Domain != cfg.Scheduler.SelfDomain {
				domains = append(domains, c.Domain)
			}
		}
	}

	save, _ := cmd.Flags().GetBool("save")
	weights := kpi.LoadWeights(cfg.Scoring.WeightsPath, os.Stderr)
	now := time.Now().UTC()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, domain := range domains {
		scores, err := score.Score(ctx, st, domain, weights, now)
		if err != nil {
			return err
		}
		if scores == nil {
			fmt.Fprintf(os.Stderr, "no snapshot for %s yet, skipping\n", domain)
			continue
		}
		if err := enc.Encode(scores); err != nil {
			return err
		}
		if save {
			for _, sc := range scores {
				if err := st.InsertScore(ctx, sc); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
