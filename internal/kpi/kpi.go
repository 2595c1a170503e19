// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package kpi defines the shared KPI vocabulary: acceptable ranges,
// direction, pillar membership, and the weight table.
package kpi

import (
	"math"

	"github.com/carmarket/seobench/pkg/types"
)

// KPI key names. The vocabulary is fixed and shared by every stage:
// extractors emit these keys, the scorer normalizes them, and rules
// reference them in conditions and evidence.
const (
	SchemaCoverage           = "schema_coverage"
	VehicleSchemaCoverage    = "vehicle_schema_coverage"
	CanonicalSitemapMismatch = "canonical_sitemap_mismatch_rate"
	LCPP75                   = "lcp_p75"
	CLSP75                   = "cls_p75"
	INPP75                   = "inp_p75"
	AvgCityPageWordcount     = "avg_city_page_wordcount"
	TopicCount               = "topic_count"
	FAQCoverage              = "faq_coverage"
	ImageAltCoverage         = "image_alt_coverage"
	SOPInternalLinkDepth     = "sop_internal_link_depth"
	EntityDensityScore       = "entity_density_score"
	AIMentionRate            = "ai_mention_rate"
)

// Range is a KPI's fixed acceptable band. Inverted marks metrics where
// lower is better (load latency, layout shift, mismatch rates).
type Range struct {
	Min      float64
	Max      float64
	Inverted bool
}

// ranges maps every known KPI to its normalization band. Values outside
// the band clamp to the boundary rather than extrapolating.
var ranges = map[string]Range{
	SchemaCoverage:           {Min: 0, Max: 1},
	VehicleSchemaCoverage:    {Min: 0, Max: 1},
	CanonicalSitemapMismatch: {Min: 0, Max: 0.5, Inverted: true},
	LCPP75:                   {Min: 1200, Max: 4000, Inverted: true},
	CLSP75:                   {Min: 0, Max: 0.25, Inverted: true},
	INPP75:                   {Min: 100, Max: 500, Inverted: true},
	AvgCityPageWordcount:     {Min: 150, Max: 1200},
	TopicCount:               {Min: 1, Max: 30},
	FAQCoverage:              {Min: 0, Max: 1},
	ImageAltCoverage:         {Min: 0, Max: 1},
	SOPInternalLinkDepth:     {Min: 5, Max: 80},
	EntityDensityScore:       {Min: 0, Max: 100},
	AIMentionRate:            {Min: 0, Max: 1},
}

// pillarMembers maps each pillar to the KPI subset it owns.
var pillarMembers = map[types.Pillar][]string{
	types.PillarIndexability:    {SchemaCoverage, VehicleSchemaCoverage, CanonicalSitemapMismatch},
	types.PillarPerformance:     {LCPP75, CLSP75, INPP75},
	types.PillarContent:         {AvgCityPageWordcount, TopicCount, FAQCoverage, ImageAltCoverage},
	types.PillarInternalLinking: {SOPInternalLinkDepth},
	types.PillarGEO:             {EntityDensityScore, AIMentionRate},
}

// RangeFor returns the normalization band for a KPI key. Unknown keys get
// a neutral [0,1] band so an extractor emitting a new metric degrades
// gracefully instead of panicking the scorer.
func RangeFor(key string) Range {
	if r, ok := ranges[key]; ok {
		return r
	}
	return Range{Min: 0, Max: 1}
}

// PillarMembers returns the KPI keys owned by a pillar.
func PillarMembers(p types.Pillar) []string {
	return pillarMembers[p]
}

// Normalize maps a raw KPI value into [0,1] against its fixed band:
// clamp((value-min)/(max-min), 0, 1), flipped when the metric is
// inverted. Out-of-range values clamp to the boundary.
func Normalize(key string, value float64) float64 {
	r := RangeFor(key)
	span := r.Max - r.Min
	if span <= 0 {
		return 0
	}
	n := (value - r.Min) / span
	n = math.Max(0, math.Min(1, n))
	if r.Inverted {
		n = 1 - n
	}
	return n
}
