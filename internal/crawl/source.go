// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawl extracts per-domain KPI maps, either by crawling a live
// site (sitemap discovery, stratified page sampling, structured-content
// extraction) or from a deterministic synthetic generator when no crawl
// credentials are configured.
package crawl

import (
	"context"

	"github.com/carmarket/seobench/pkg/types"
)

// Source produces a flat KPI map for one domain. Extract never fails for
// a single-page problem; it returns whatever partial map it could build.
// A returned error means the domain as a whole yielded nothing usable.
type Source interface {
	Name() string
	Extract(ctx context.Context, domain string) (map[string]float64, error)
}

// NewSource selects the extraction strategy once at construction time:
// live crawling when credentials are configured (or forced via config),
// synthetic otherwise. Synthetic data is explicitly lower-trust; callers
// decide how to weigh it.
func NewSource(cfg types.CrawlConfig, crawlKey string) Source {
	if cfg.Live || crawlKey != "" {
		return NewLiveSource(cfg)
	}
	return NewMockSource()
}
