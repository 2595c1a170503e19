// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RecommendationStatus tracks the lifecycle of a recommendation. Status
// is the only field ever mutated after creation, and only by an external
// workflow.
type RecommendationStatus string

const (
	RecommendationPending   RecommendationStatus = "pending"
	RecommendationApplied   RecommendationStatus = "applied"
	RecommendationDismissed RecommendationStatus = "dismissed"
)

// EvidencePoint freezes one evidence KPI's self/leader/gap values at
// generation time. Later weight or KPI changes must not retroactively
// alter a past recommendation's displayed evidence.
type EvidencePoint struct {
	Self   float64 `json:"self"`
	Leader float64 `json:"leader"`
	Gap    float64 `json:"gap"`
}

// Recommendation is one ranked expert-system action produced by a
// generation run. ExpectedUplift is in [0,1) and Confidence in [0,1].
type Recommendation struct {
	ID             string                   `json:"id"`
	Date           time.Time                `json:"date"`
	Pillar         Pillar                   `json:"pillar"`
	Severity       Severity                 `json:"severity"`
	Title          string                   `json:"title"`
	Do             string                   `json:"do"`
	Dont           string                   `json:"dont"`
	Evidence       map[string]EvidencePoint `json:"evidence"`
	ExpectedUplift float64                  `json:"expected_uplift"`
	Effort         string                   `json:"effort"`
	Confidence     float64                  `json:"confidence"`
	Status         RecommendationStatus     `json:"status"`
}
