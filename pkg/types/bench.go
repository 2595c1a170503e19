// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the domain model shared across benchmark stages.
package types

import "time"

// Pillar is one of the five fixed evaluation categories.
type Pillar string

const (
	PillarIndexability    Pillar = "Indexability"
	PillarPerformance     Pillar = "Performance"
	PillarContent         Pillar = "Content"
	PillarInternalLinking Pillar = "Internal Linking"
	PillarGEO             Pillar = "GEO"
)

// Pillars lists every pillar in display order. Downstream consumers rely
// on one score per pillar per domain, so the set is closed.
var Pillars = []Pillar{
	PillarIndexability,
	PillarPerformance,
	PillarContent,
	PillarInternalLinking,
	PillarGEO,
}

// Snapshot is one domain's full KPI map captured at one point in time.
// A KPI key absent from KPIs means "not measured", never zero; the
// distinction feeds data-quality computation downstream. Snapshots are
// immutable once written and only superseded by later ones.
type Snapshot struct {
	Domain string             `json:"domain" yaml:"domain"`
	Date   time.Time          `json:"date" yaml:"date"`
	KPIs   map[string]float64 `json:"kpis" yaml:"kpis"`
}

// Competitor is one tracked domain from the registry. The engine only
// ever iterates the subset with IsActive set.
type Competitor struct {
	Domain   string `json:"domain" yaml:"domain"`
	Label    string `json:"label" yaml:"label"`
	IsActive bool   `json:"is_active" yaml:"is_active"`
}

// BenchmarkScore is one pillar score for one domain at one point in time.
// Score is always in [0,100]. Derived entirely from the latest Snapshot
// for the domain at score time; never mutated after creation.
type BenchmarkScore struct {
	Date   time.Time `json:"date"`
	Domain string    `json:"domain"`
	Pillar Pillar    `json:"pillar"`
	Score  float64   `json:"score"`
}

// PillarStatus classifies a pillar comparison against the best competitor.
type PillarStatus string

const (
	StatusWin    PillarStatus = "win"
	StatusParity PillarStatus = "parity"
	StatusLose   PillarStatus = "lose"
)
