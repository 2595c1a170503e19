// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"math"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carmarket/seobench/internal/kpi"
	"github.com/carmarket/seobench/pkg/types"
)

// DefaultMaxSample is the per-domain page sampling budget.
const DefaultMaxSample = 15

const defaultTimeout = 10 * time.Second

// LiveSource crawls a real site: sitemap discovery, stratified sampling,
// and concurrent per-page extraction bounded by the sample budget.
type LiveSource struct {
	client    *http.Client
	userAgent string
	maxSample int
}

// NewLiveSource builds a live crawler from config, applying defaults for
// zero values.
func NewLiveSource(cfg types.CrawlConfig) *LiveSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxSample := cfg.MaxSample
	if maxSample <= 0 {
		maxSample = DefaultMaxSample
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "seobench/0.1"
	}
	return &LiveSource{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxSample: maxSample,
	}
}

// Name identifies the source strategy.
func (s *LiveSource) Name() string { return "live" }

// Extract crawls one domain and aggregates page facts into the shared KPI
// vocabulary. Sitemap failure degrades to an empty URL list; a failed
// page contributes nothing to the aggregates (excluded, not zero). The
// returned map is partial by design: absent keys mean "not measured".
func (s *LiveSource) Extract(ctx context.Context, domain string) (map[string]float64, error) {
	urls, err := fetchSitemap(ctx, s.client, s.userAgent, domain)
	if err != nil {
		urls = nil
	}

	sampled := sampleURLs(urls, s.maxSample)
	if len(sampled) == 0 {
		return map[string]float64{}, nil
	}

	// Fetch sampled pages concurrently; failures stay nil in the slice.
	facts := make([]*pageFacts, len(sampled))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxSample)
	for i, pageURL := range sampled {
		i, pageURL := i, pageURL
		g.Go(func() error {
			if f, err := fetchPage(gctx, s.client, s.userAgent, pageURL); err == nil {
				facts[i] = f
			}
			return nil
		})
	}
	g.Wait()

	return aggregate(facts), nil
}

// aggregate folds per-page facts into domain KPIs. Pages that failed
// (nil entries) are excluded from every denominator.
func aggregate(facts []*pageFacts) map[string]float64 {
	var ok []*pageFacts
	for _, f := range facts {
		if f != nil {
			ok = append(ok, f)
		}
	}
	if len(ok) == 0 {
		return map[string]float64{}
	}

	pages := float64(len(ok))
	var withSchema, withProduct, withFAQ float64
	var words, links float64
	var imgTotal, imgAlt float64
	typeSet := map[string]bool{}

	for _, f := range ok {
		if len(f.SchemaTypes) > 0 {
			withSchema++
		}
		if f.HasProductEntity() {
			withProduct++
		}
		if f.HasFAQ {
			withFAQ++
		}
		words += float64(f.WordCount)
		links += float64(f.InternalLinks)
		imgTotal += float64(f.ImagesTotal)
		imgAlt += float64(f.ImagesWithAlt)
		for _, t := range f.SchemaTypes {
			typeSet[t] = true
		}
	}

	kpis := map[string]float64{
		kpi.SchemaCoverage:        withSchema / pages,
		kpi.VehicleSchemaCoverage: withProduct / pages,
		kpi.AvgCityPageWordcount:  words / pages,
		kpi.TopicCount:            float64(len(typeSet)),
		kpi.SOPInternalLinkDepth:  math.Round(links / pages),
		kpi.EntityDensityScore:    float64(len(typeSet)) / pages * 100,
		kpi.FAQCoverage:           withFAQ / pages,
		// Known gap: the canonical-tag vs sitemap-entry comparison is not
		// implemented yet, so live mode always records 0 here.
		kpi.CanonicalSitemapMismatch: 0,
	}
	if imgTotal > 0 {
		kpis[kpi.ImageAltCoverage] = imgAlt / imgTotal
	}
	return kpis
}
