// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bench orchestrates the nightly benchmark run: crawl, visibility
// probing, scoring, and recommendation generation, plus the cron scheduler
// that drives them.
package bench

import (
	"context"
	"hash/fnv"
)

// VisibilityProber measures how often each domain surfaces in AI-engine
// answers. The result feeds the ai_mention_rate KPI.
type VisibilityProber interface {
	Name() string
	// ProbeAll returns a mention rate in [0,1] per domain. Domains the
	// prober could not measure are simply absent from the map.
	ProbeAll(ctx context.Context, domains []string) (map[string]float64, error)
}

// syntheticProber stands in when no AI-engine credentials are configured.
// Rates are a stable function of the domain name so runs stay comparable,
// the same trust posture as the synthetic crawl source.
type syntheticProber struct{}

// NewSyntheticProber returns the deterministic fallback prober.
func NewSyntheticProber() VisibilityProber {
	return syntheticProber{}
}

func (syntheticProber) Name() string { return "synthetic" }

func (syntheticProber) ProbeAll(_ context.Context, domains []string) (map[string]float64, error) {
	rates := make(map[string]float64, len(domains))
	for _, d := range domains {
		h := fnv.New32a()
		h.Write([]byte(d))
		// Spread across [0.02, 0.62); real-world mention rates cluster low.
		rates[d] = 0.02 + float64(h.Sum32()%600)/1000
	}
	return rates, nil
}
