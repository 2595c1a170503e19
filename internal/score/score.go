// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score converts KPI snapshots into per-pillar benchmark scores
// and compares them against the best competitor per metric.
package score

import (
	"context"
	"fmt"
	"time"

	"github.com/carmarket/seobench/internal/kpi"
	"github.com/carmarket/seobench/pkg/types"
)

// SnapshotReader is the read contract the scorer needs from a store.
type SnapshotReader interface {
	// LatestSnapshot returns the newest snapshot for domain, or nil when
	// none has been stored yet.
	LatestSnapshot(ctx context.Context, domain string) (*types.Snapshot, error)
}

// Score reads the latest snapshot for domain and computes one score per
// pillar. With no snapshot it returns an empty list: "no score" and
// "score of 0" mean different things downstream. The product itself is
// scored through the same path as any competitor.
func Score(ctx context.Context, reader SnapshotReader, domain string, weights kpi.Weights, now time.Time) ([]types.BenchmarkScore, error) {
	snap, err := reader.LatestSnapshot(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("reading latest snapshot for %s: %w", domain, err)
	}
	if snap == nil {
		return nil, nil
	}

	scores := make([]types.BenchmarkScore, 0, len(types.Pillars))
	for _, pillar := range types.Pillars {
		scores = append(scores, types.BenchmarkScore{
			Date:   now,
			Domain: domain,
			Pillar: pillar,
			Score:  PillarScore(pillar, snap.KPIs, weights),
		})
	}
	return scores, nil
}

// PillarScore computes the weighted mean of the pillar's normalized
// member KPIs, scaled to [0,100]. A pillar with no resolvable member
// KPIs scores an explicit 0 rather than being omitted: downstream
// consumers assume one score per pillar per domain.
func PillarScore(pillar types.Pillar, kpis map[string]float64, weights kpi.Weights) float64 {
	var weighted, totalWeight float64
	for _, key := range kpi.PillarMembers(pillar) {
		value, ok := kpis[key]
		if !ok {
			continue // absent is absent, never zero
		}
		w := weights.Get(key)
		weighted += kpi.Normalize(key, value) * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight * 100
}
