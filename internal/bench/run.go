// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bench

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/carmarket/seobench/internal/crawl"
	"github.com/carmarket/seobench/internal/kpi"
	"github.com/carmarket/seobench/internal/recommend"
	"github.com/carmarket/seobench/internal/score"
	"github.com/carmarket/seobench/pkg/types"
)

// Store is the persistence contract the runner needs.
type Store interface {
	recommend.Store
	ListActiveCompetitors(ctx context.Context) ([]types.Competitor, error)
	InsertSnapshot(ctx context.Context, snap types.Snapshot) error
	InsertScore(ctx context.Context, sc types.BenchmarkScore) error
	InsertRun(ctx context.Context, status types.RunStatus) error
	LastRun(ctx context.Context) (*types.RunStatus, error)
}

// Runner executes one full benchmark run: crawl every domain, probe AI
// visibility, score, and generate recommendations. Single-domain failures
// never abort the run; each phase records per-domain outcomes.
type Runner struct {
	store      Store
	source     crawl.Source
	prober     VisibilityProber
	engine     *recommend.Engine
	selfDomain string
	weights    string
	logw       io.Writer
	now        func() time.Time
}

// NewRunner wires a runner from configuration. crawlKey selects the live
// crawl source when present; the prober defaults to the synthetic one.
func NewRunner(st Store, cfg types.BenchConfig, crawlKey string, logw io.Writer) *Runner {
	return &Runner{
		store:      st,
		source:     crawl.NewSource(cfg.Crawl, crawlKey),
		prober:     NewSyntheticProber(),
		engine:     recommend.NewEngine(st, cfg.Scheduler.SelfDomain, cfg.Rules, cfg.Scoring),
		selfDomain: cfg.Scheduler.SelfDomain,
		weights:    cfg.Scoring.WeightsPath,
		logw:       logw,
		now:        time.Now,
	}
}

// SetProber swaps in a real visibility prober.
func (r *Runner) SetProber(p VisibilityProber) { r.prober = p }

// Run executes the four phases against domains. An empty domain list is
// resolved from the competitor registry plus the product's own domain.
// Run itself only errors on a store failure while persisting the final
// summary; everything else is folded into the returned RunStatus.
func (r *Runner) Run(ctx context.Context, domains []string) (types.RunStatus, error) {
	status := types.RunStatus{StartedAt: r.now()}

	func() {
		// A panic anywhere in a phase must not take the scheduler down.
		defer func() {
			if rec := recover(); rec != nil {
				status.Error = fmt.Sprintf("run panicked: %v", rec)
			}
		}()
		r.runPhases(ctx, domains, &status)
	}()

	status.FinishedAt = r.now()
	status.Duration = status.FinishedAt.Sub(status.StartedAt)
	status.Success = status.Error == ""
	for _, p := range status.Phases {
		if p.Error != "" {
			status.Success = false
		}
	}

	if err := r.store.InsertRun(ctx, status); err != nil {
		return status, fmt.Errorf("persisting run summary: %w", err)
	}
	fmt.Fprintf(r.logw, "run finished in %s (success=%v, %d recommendation(s))\n",
		status.Duration.Round(time.Millisecond), status.Success, status.Recommendations)
	return status, nil
}

func (r *Runner) runPhases(ctx context.Context, domains []string, status *types.RunStatus) {
	if len(domains) == 0 {
		competitors, err := r.store.ListActiveCompetitors(ctx)
		if err != nil {
			status.Error = fmt.Sprintf("resolving domains: %v", err)
			return
		}
		domains = append(domains, r.selfDomain)
		for _, c := range competitors {
			if c.Domain != r.selfDomain {
				domains = append(domains, c.Domain)
			}
		}
	}

	// Phase 1: crawl. Each domain is isolated; a failed domain keeps its
	// previous snapshot and stays in the comparison.
	crawlPhase := types.PhaseResult{Name: "crawl"}
	kpisByDomain := make(map[string]map[string]float64, len(domains))
	for _, domain := range domains {
		kpis, err := r.source.Extract(ctx, domain)
		result := types.DomainResult{Domain: domain, OK: err == nil}
		if err != nil {
			result.Error = err.Error()
			fmt.Fprintf(r.logw, "crawl failed for %s: %v\n", domain, err)
		} else {
			kpisByDomain[domain] = kpis
		}
		crawlPhase.Domains = append(crawlPhase.Domains, result)
	}
	status.Phases = append(status.Phases, crawlPhase)

	// Phase 2: AI visibility. A prober failure degrades to "no
	// ai_mention_rate this run"; snapshots are persisted either way.
	probePhase := types.PhaseResult{Name: "probe"}
	rates, err := r.prober.ProbeAll(ctx, domains)
	if err != nil {
		probePhase.Error = err.Error()
		fmt.Fprintf(r.logw, "visibility probe (%s) failed: %v\n", r.prober.Name(), err)
	}
	now := r.now()
	for _, domain := range domains {
		kpis, ok := kpisByDomain[domain]
		if !ok {
			continue
		}
		if rate, ok := rates[domain]; ok {
			kpis[kpi.AIMentionRate] = rate
		}
		result := types.DomainResult{Domain: domain, OK: true}
		if err := r.store.InsertSnapshot(ctx, types.Snapshot{Domain: domain, Date: now, KPIs: kpis}); err != nil {
			result.OK = false
			result.Error = err.Error()
			fmt.Fprintf(r.logw, "persisting snapshot for %s: %v\n", domain, err)
		}
		probePhase.Domains = append(probePhase.Domains, result)
	}
	status.Phases = append(status.Phases, probePhase)

	// Phase 3: score everything from the stored snapshots, competitors
	// first and the product last, all through the same path.
	scorePhase := types.PhaseResult{Name: "score"}
	weights := kpi.LoadWeights(r.weights, r.logw)
	ordered := make([]string, 0, len(domains))
	for _, domain := range domains {
		if domain != r.selfDomain {
			ordered = append(ordered, domain)
		}
	}
	for _, domain := range domains {
		if domain == r.selfDomain {
			ordered = append(ordered, domain)
		}
	}
	for _, domain := range ordered {
		result := types.DomainResult{Domain: domain, OK: true}
		scores, err := score.Score(ctx, r.store, domain, weights, now)
		if err == nil {
			for _, sc := range scores {
				if err = r.store.InsertScore(ctx, sc); err != nil {
					break
				}
			}
		}
		if err != nil {
			result.OK = false
			result.Error = err.Error()
			fmt.Fprintf(r.logw, "scoring %s: %v\n", domain, err)
		}
		scorePhase.Domains = append(scorePhase.Domains, result)
	}
	status.Phases = append(status.Phases, scorePhase)

	// Phase 4: recommendations.
	recPhase := types.PhaseResult{Name: "recommend"}
	recs, err := r.engine.Generate(ctx, r.logw)
	if err != nil {
		recPhase.Error = err.Error()
	}
	status.Recommendations = len(recs)
	status.Phases = append(status.Phases, recPhase)
}
