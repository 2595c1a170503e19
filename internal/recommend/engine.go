// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/carmarket/seobench/internal/kpi"
	"github.com/carmarket/seobench/internal/score"
	"github.com/carmarket/seobench/pkg/types"
)

// DefaultMaxRecommendations caps how many recommendations one run
// persists; the rest are discarded and regenerated next run.
const DefaultMaxRecommendations = 10

// upliftCap bounds expected uplift below 1. The gap factor operates on
// raw KPI units and can explode for latency-scale metrics, so the cap is
// load-bearing, not cosmetic.
const upliftCap = 0.999

// upliftTieBand treats uplifts within 0.01 as tied; ties break on
// confidence.
const upliftTieBand = 0.01

var severityMultiplier = map[types.Severity]float64{
	types.SeverityCritical: 1.5,
	types.SeverityHigh:     1.3,
	types.SeverityMedium:   1.0,
	types.SeverityLow:      0.7,
}

var baseConfidence = map[types.Severity]float64{
	types.SeverityCritical: 0.9,
	types.SeverityHigh:     0.85,
	types.SeverityMedium:   0.75,
	types.SeverityLow:      0.65,
}

// Store is the persistence contract the engine needs.
type Store interface {
	LatestSnapshot(ctx context.Context, domain string) (*types.Snapshot, error)
	AllLatestSnapshots(ctx context.Context) ([]types.Snapshot, error)
	InsertRecommendation(ctx context.Context, rec types.Recommendation) error
}

// Engine generates recommendations from the current snapshots and the
// declarative rule set.
type Engine struct {
	store       Store
	selfDomain  string
	rulesPath   string
	weightsPath string
	maxRecs     int
	now         func() time.Time
}

// NewEngine builds a generation engine. The rule and weight files are
// re-read on every Generate call so that external rewrites between runs
// are picked up without restarts.
func NewEngine(store Store, selfDomain string, rulesCfg types.RulesConfig, scoringCfg types.ScoringConfig) *Engine {
	maxRecs := rulesCfg.MaxRecommendations
	if maxRecs <= 0 {
		maxRecs = DefaultMaxRecommendations
	}
	return &Engine{
		store:       store,
		selfDomain:  selfDomain,
		rulesPath:   rulesCfg.RulesPath,
		weightsPath: scoringCfg.WeightsPath,
		maxRecs:     maxRecs,
		now:         time.Now,
	}
}

// defaultSnapshot stands in for the product's own snapshot on the very
// first run against an empty database, so generation still produces
// output before any crawl has landed.
func defaultSnapshot(domain string, now time.Time) *types.Snapshot {
	return &types.Snapshot{
		Domain: domain,
		Date:   now,
		KPIs: map[string]float64{
			kpi.SchemaCoverage:           0.5,
			kpi.VehicleSchemaCoverage:    0.35,
			kpi.CanonicalSitemapMismatch: 0.1,
			kpi.LCPP75:                   2800,
			kpi.CLSP75:                   0.15,
			kpi.INPP75:                   320,
			kpi.AvgCityPageWordcount:     400,
			kpi.TopicCount:               8,
			kpi.SOPInternalLinkDepth:     20,
			kpi.EntityDensityScore:       35,
			kpi.AIMentionRate:            0.1,
		},
	}
}

// Generate evaluates every rule against the product's current KPIs,
// scores the triggered ones, persists the top N, and returns them sorted
// by expected uplift. Configuration failures (unreadable rule or weight
// file) degrade to documented fallbacks; only store failures abort.
func (e *Engine) Generate(ctx context.Context, w io.Writer) ([]types.Recommendation, error) {
	now := e.now()

	rules, err := LoadRules(e.rulesPath, w)
	if err != nil {
		fmt.Fprintf(w, "warning: rule set unavailable, generating nothing: %v\n", err)
		rules = nil
	}

	weights := kpi.LoadWeights(e.weightsPath, w)

	self, err := e.store.LatestSnapshot(ctx, e.selfDomain)
	if err != nil {
		return nil, fmt.Errorf("reading self snapshot: %w", err)
	}
	if self == nil {
		fmt.Fprintf(w, "no snapshot for %s yet, using built-in defaults\n", e.selfDomain)
		self = defaultSnapshot(e.selfDomain, now)
	}

	all, err := e.store.AllLatestSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading competitor snapshots: %w", err)
	}
	var competitors []types.Snapshot
	for _, s := range all {
		if s.Domain != e.selfDomain {
			competitors = append(competitors, s)
		}
	}
	leaders := score.Leaders(self.KPIs, competitors)

	var recs []types.Recommendation
	for _, rule := range rules {
		if !EvalCondition(rule.Condition, self.KPIs) {
			continue
		}
		recs = append(recs, e.scoreRule(rule, self.KPIs, leaders, weights, now))
	}

	sort.Slice(recs, func(i, j int) bool {
		if math.Abs(recs[i].ExpectedUplift-recs[j].ExpectedUplift) < upliftTieBand {
			return recs[i].Confidence > recs[j].Confidence
		}
		return recs[i].ExpectedUplift > recs[j].ExpectedUplift
	})

	if len(recs) > e.maxRecs {
		recs = recs[:e.maxRecs]
	}

	for _, rec := range recs {
		if err := e.store.InsertRecommendation(ctx, rec); err != nil {
			return nil, fmt.Errorf("persisting recommendation %q: %w", rec.Title, err)
		}
	}

	fmt.Fprintf(w, "generated %d recommendation(s)\n", len(recs))
	return recs, nil
}

// scoreRule computes uplift, confidence, and the frozen evidence snapshot
// for one triggered rule.
func (e *Engine) scoreRule(rule types.Rule, self, leaders map[string]float64, weights kpi.Weights, now time.Time) types.Recommendation {
	evidence := make(map[string]types.EvidencePoint, len(rule.EvidenceKeys))
	var gapSum float64
	present := 0

	for _, key := range rule.EvidenceKeys {
		own, ok := self[key]
		if !ok {
			continue // missing evidence lowers data quality, not the gap mean
		}
		present++
		leader, ok := leaders[key]
		if !ok {
			leader = own
		}
		gap := math.Abs(leader - own)
		gapSum += gap * weights.Get(key)
		evidence[key] = types.EvidencePoint{Self: own, Leader: leader, Gap: gap}
	}

	// Mean of weight-scaled gaps over resolved keys. This runs on raw KPI
	// units, so latency-scale metrics can produce huge factors; the cap
	// below absorbs that.
	var gapFactor float64
	if present > 0 {
		gapFactor = gapSum / float64(present)
	}

	uplift := rule.ExpectedUpliftDefault * (1 + gapFactor) * severityMultiplier[rule.Severity]
	uplift = round3(math.Min(uplift, upliftCap))

	// Data quality: fraction of required evidence actually observed. A
	// rule that requires no evidence is trivially fully observed.
	dataQuality := 1.0
	if len(rule.EvidenceKeys) > 0 {
		dataQuality = float64(present) / float64(len(rule.EvidenceKeys))
	}
	confidence := round3(baseConfidence[rule.Severity] * dataQuality)

	return types.Recommendation{
		ID:             uuid.NewString(),
		Date:           now,
		Pillar:         rule.Pillar,
		Severity:       rule.Severity,
		Title:          rule.Title,
		Do:             rule.Do,
		Dont:           rule.Dont,
		Evidence:       evidence,
		ExpectedUplift: uplift,
		Effort:         rule.Effort,
		Confidence:     confidence,
		Status:         types.RecommendationPending,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
