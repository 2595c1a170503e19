// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/carmarket/seobench/internal/kpi"
)

// baselines holds fixed synthetic KPI maps for the tracked portals. These
// are deliberately synthetic bands, not ground truth: the generator never
// simulates coverage above them, and downstream consumers should treat
// mock data as lower-trust than live crawls.
var baselines = map[string]map[string]float64{
	"cararth.com": {
		kpi.SchemaCoverage:           0.55,
		kpi.VehicleSchemaCoverage:    0.40,
		kpi.CanonicalSitemapMismatch: 0.08,
		kpi.AvgCityPageWordcount:     420,
		kpi.TopicCount:               9,
		kpi.SOPInternalLinkDepth:     22,
		kpi.EntityDensityScore:       38,
		kpi.FAQCoverage:              0.20,
		kpi.ImageAltCoverage:         0.62,
		kpi.AIMentionRate:            0.12,
	},
	"cars24.com": {
		kpi.SchemaCoverage:           0.82,
		kpi.VehicleSchemaCoverage:    0.71,
		kpi.CanonicalSitemapMismatch: 0.03,
		kpi.AvgCityPageWordcount:     760,
		kpi.TopicCount:               16,
		kpi.SOPInternalLinkDepth:     45,
		kpi.EntityDensityScore:       64,
		kpi.FAQCoverage:              0.55,
		kpi.ImageAltCoverage:         0.81,
		kpi.AIMentionRate:            0.41,
	},
	"spinny.com": {
		kpi.SchemaCoverage:           0.78,
		kpi.VehicleSchemaCoverage:    0.66,
		kpi.CanonicalSitemapMismatch: 0.05,
		kpi.AvgCityPageWordcount:     690,
		kpi.TopicCount:               14,
		kpi.SOPInternalLinkDepth:     38,
		kpi.EntityDensityScore:       57,
		kpi.FAQCoverage:              0.48,
		kpi.ImageAltCoverage:         0.77,
		kpi.AIMentionRate:            0.34,
	},
	"cardekho.com": {
		kpi.SchemaCoverage:           0.85,
		kpi.VehicleSchemaCoverage:    0.74,
		kpi.CanonicalSitemapMismatch: 0.04,
		kpi.AvgCityPageWordcount:     880,
		kpi.TopicCount:               19,
		kpi.SOPInternalLinkDepth:     52,
		kpi.EntityDensityScore:       69,
		kpi.FAQCoverage:              0.62,
		kpi.ImageAltCoverage:         0.84,
		kpi.AIMentionRate:            0.47,
	},
	"carwale.com": {
		kpi.SchemaCoverage:           0.80,
		kpi.VehicleSchemaCoverage:    0.69,
		kpi.CanonicalSitemapMismatch: 0.06,
		kpi.AvgCityPageWordcount:     810,
		kpi.TopicCount:               17,
		kpi.SOPInternalLinkDepth:     47,
		kpi.EntityDensityScore:       61,
		kpi.FAQCoverage:              0.50,
		kpi.ImageAltCoverage:         0.79,
		kpi.AIMentionRate:            0.39,
	},
}

// genericBaseline covers domains without a dedicated baseline.
var genericBaseline = map[string]float64{
	kpi.SchemaCoverage:           0.60,
	kpi.VehicleSchemaCoverage:    0.45,
	kpi.CanonicalSitemapMismatch: 0.07,
	kpi.AvgCityPageWordcount:     500,
	kpi.TopicCount:               10,
	kpi.SOPInternalLinkDepth:     28,
	kpi.EntityDensityScore:       42,
	kpi.FAQCoverage:              0.30,
	kpi.ImageAltCoverage:         0.65,
	kpi.AIMentionRate:            0.20,
}

// cwvCenter holds the Core Web Vitals centers the jitter is layered onto.
type cwvCenter struct {
	lcp, cls, inp float64
}

var cwvCenters = map[string]cwvCenter{
	"cararth.com":  {lcp: 2600, cls: 0.14, inp: 310},
	"cars24.com":   {lcp: 1900, cls: 0.06, inp: 190},
	"spinny.com":   {lcp: 2100, cls: 0.08, inp: 220},
	"cardekho.com": {lcp: 1800, cls: 0.05, inp: 180},
	"carwale.com":  {lcp: 2000, cls: 0.07, inp: 205},
}

var genericCWV = cwvCenter{lcp: 2400, cls: 0.11, inp: 270}

// MockSource generates deterministic synthetic KPI maps. Baseline fields
// are identical for repeated calls with the same domain; only the
// latency/stability metrics carry bounded random jitter.
type MockSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockSource seeds the jitter generator from the clock.
func NewMockSource() *MockSource {
	return NewMockSourceWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewMockSourceWithRand injects the jitter generator, for tests.
func NewMockSourceWithRand(rng *rand.Rand) *MockSource {
	return &MockSource{rng: rng}
}

// Name identifies the source strategy.
func (s *MockSource) Name() string { return "mock" }

// Extract returns the domain's synthetic baseline plus jittered Core Web
// Vitals. It never fails.
func (s *MockSource) Extract(_ context.Context, domain string) (map[string]float64, error) {
	base, ok := baselines[domain]
	if !ok {
		base = genericBaseline
	}

	kpis := make(map[string]float64, len(base)+3)
	for k, v := range base {
		kpis[k] = v
	}

	center, ok := cwvCenters[domain]
	if !ok {
		center = genericCWV
	}

	s.mu.Lock()
	kpis[kpi.LCPP75] = math.Round(jitter(s.rng, center.lcp, 0.12))
	kpis[kpi.CLSP75] = math.Round(jitter(s.rng, center.cls, 0.15)*1000) / 1000
	kpis[kpi.INPP75] = math.Round(jitter(s.rng, center.inp, 0.12))
	s.mu.Unlock()

	return kpis, nil
}

// jitter returns center ± frac, uniformly. The band stays bounded so a
// synthetic Performance score cannot drift outside its plausible range.
func jitter(rng *rand.Rand, center, frac float64) float64 {
	return center * (1 + (rng.Float64()*2-1)*frac)
}
