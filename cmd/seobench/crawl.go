// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/carmarket/seobench/internal/crawl"
	"github.com/carmarket/seobench/internal/store"
	"github.com/carmarket/seobench/pkg/types"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl [domains...]",
	Short: "Extract KPI snapshots for one or more domains",
	Long: `Crawl extracts a KPI snapshot per domain: sitemap discovery, stratified
page sampling, and structured-content extraction. Without live crawl
credentials a deterministic synthetic source is used instead. Snapshots
print to stdout as JSON; --save also persists them.`,
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().Bool("live", false, "force the live crawl source")
	crawlCmd.Flags().Bool("save", false, "persist snapshots to the benchmark database")

	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more domains to crawl")
	}

	cfg := benchConfig()
	if live, _ := cmd.Flags().GetBool("live"); live {
		cfg.Crawl.Live = true
	}
	save, _ := cmd.Flags().GetBool("save")

	source := crawl.NewSource(cfg.Crawl, crawlKey())
	fmt.Fprintf(os.Stderr, "using %s source\n", source.Name())

	var st *store.Store
	if save {
		var err error
		if st, err = store.New(cfg.Store); err != nil {
			return err
		}
		defer st.Close()
	}

	ctx := cmd.Context()
	failed := 0
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for _, domain := range args {
		kpis, err := source.Extract(ctx, domain)
		if err != nil {
			fmt.Fprintf(os.Stderr, "crawl failed for %s: %v\n", domain, err)
			failed++
			continue
		}
		snap := types.Snapshot{Domain: domain, Date: time.Now().UTC(), KPIs: kpis}
		if err := enc.Encode(snap); err != nil {
			return err
		}
		if save {
			if err := st.InsertSnapshot(ctx, snap); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d domain(s) failed", failed)
	}
	return nil
}
