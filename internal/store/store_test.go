// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carmarket/seobench/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(types.StoreConfig{Path: filepath.Join(t.TempDir(), "bench.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLatestSnapshotEmpty(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.LatestSnapshot(context.Background(), "cararth.com")
	require.NoError(t, err)
	assert.Nil(t, snap, "no snapshot yet must be nil, not an error")
}

func TestSnapshotRoundTripAndSupersede(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := types.Snapshot{
		Domain: "cararth.com",
		Date:   time.Date(2026, 8, 21, 2, 0, 0, 0, time.UTC),
		KPIs:   map[string]float64{"lcp_p75": 3100, "schema_coverage": 0.4},
	}
	newer := types.Snapshot{
		Domain: "cararth.com",
		Date:   time.Date(2026, 8, 22, 2, 0, 0, 0, time.UTC),
		KPIs:   map[string]float64{"lcp_p75": 2800, "schema_coverage": 0.5},
	}
	require.NoError(t, s.InsertSnapshot(ctx, old))
	require.NoError(t, s.InsertSnapshot(ctx, newer))

	got, err := s.LatestSnapshot(ctx, "cararth.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.Date, got.Date)
	assert.Equal(t, 2800.0, got.KPIs["lcp_p75"])
	assert.Equal(t, 0.5, got.KPIs["schema_coverage"])
}

func TestAllLatestSnapshotsOnePerDomain(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 22, 2, 0, 0, 0, time.UTC)

	for _, snap := range []types.Snapshot{
		{Domain: "cararth.com", Date: base, KPIs: map[string]float64{"topic_count": 8}},
		{Domain: "cars24.com", Date: base, KPIs: map[string]float64{"topic_count": 20}},
		{Domain: "cars24.com", Date: base.Add(24 * time.Hour), KPIs: map[string]float64{"topic_count": 22}},
	} {
		require.NoError(t, s.InsertSnapshot(ctx, snap))
	}

	all, err := s.AllLatestSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by domain; cars24 must be the superseding row.
	assert.Equal(t, "cararth.com", all[0].Domain)
	assert.Equal(t, 22.0, all[1].KPIs["topic_count"])
}

func TestScores(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	date := time.Date(2026, 8, 22, 2, 0, 0, 0, time.UTC)

	for _, p := range types.Pillars {
		require.NoError(t, s.InsertScore(ctx, types.BenchmarkScore{
			Date: date, Domain: "cararth.com", Pillar: p, Score: 61.5,
		}))
	}

	scores, err := s.LatestScores(ctx, "cararth.com", 0)
	require.NoError(t, err)
	assert.Len(t, scores, len(types.Pillars), "n<=0 defaults to one full pillar set")
	for _, sc := range scores {
		assert.Equal(t, 61.5, sc.Score)
		assert.Equal(t, date, sc.Date)
	}

	scores, err = s.LatestScores(ctx, "cararth.com", 2)
	require.NoError(t, err)
	assert.Len(t, scores, 2)
}

func TestRecommendationsFilterAndStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	date := time.Date(2026, 8, 22, 2, 0, 0, 0, time.UTC)

	recs := []types.Recommendation{
		{
			ID: "rec-1", Date: date, Pillar: types.PillarPerformance,
			Severity: types.SeverityCritical, Title: "Cut LCP",
			Evidence:       map[string]types.EvidencePoint{"lcp_p75": {Self: 2800, Leader: 950, Gap: 1850}},
			ExpectedUplift: 0.999, Effort: "high", Confidence: 0.9,
			Status: types.RecommendationPending,
		},
		{
			ID: "rec-2", Date: date, Pillar: types.PillarContent,
			Severity: types.SeverityMedium, Title: "Expand city pages",
			Evidence:       map[string]types.EvidencePoint{},
			ExpectedUplift: 0.12, Effort: "medium", Confidence: 0.75,
			Status: types.RecommendationPending,
		},
	}
	for _, rec := range recs {
		require.NoError(t, s.InsertRecommendation(ctx, rec))
	}

	all, err := s.ListRecommendations(ctx, RecommendationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	perf, err := s.ListRecommendations(ctx, RecommendationFilter{Pillar: types.PillarPerformance})
	require.NoError(t, err)
	require.Len(t, perf, 1)
	assert.Equal(t, "Cut LCP", perf[0].Title)
	assert.Equal(t, 1850.0, perf[0].Evidence["lcp_p75"].Gap)

	require.NoError(t, s.UpdateRecommendationStatus(ctx, "rec-2", types.RecommendationApplied))

	pending, err := s.ListRecommendations(ctx, RecommendationFilter{Status: types.RecommendationPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "rec-1", pending[0].ID)

	limited, err := s.ListRecommendations(ctx, RecommendationFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestUpdateRecommendationStatusUnknownID(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateRecommendationStatus(context.Background(), "missing", types.RecommendationDismissed)
	assert.Error(t, err)
}

func TestCompetitors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertCompetitor(ctx, types.Competitor{Domain: "cars24.com", Label: "Cars24", IsActive: true}))
	require.NoError(t, s.UpsertCompetitor(ctx, types.Competitor{Domain: "spinny.com", Label: "Spinny", IsActive: true}))
	require.NoError(t, s.UpsertCompetitor(ctx, types.Competitor{Domain: "droom.in", Label: "Droom", IsActive: false}))

	active, err := s.ListActiveCompetitors(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2, "inactive competitors stay out of the iteration set")

	// Upsert flips activity without duplicating the row.
	require.NoError(t, s.UpsertCompetitor(ctx, types.Competitor{Domain: "spinny.com", Label: "Spinny", IsActive: false}))
	active, err = s.ListActiveCompetitors(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "cars24.com", active[0].Domain)
}

func TestRunHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	last, err := s.LastRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, last, "no run yet must be nil, not an error")

	started := time.Date(2026, 8, 22, 2, 0, 0, 0, time.UTC)
	status := types.RunStatus{
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Duration:   90 * time.Second,
		Success:    true,
		Phases: []types.PhaseResult{
			{Name: "crawl", Domains: []types.DomainResult{
				{Domain: "cararth.com", OK: true},
				{Domain: "cars24.com", OK: false, Error: "sitemap fetch failed"},
			}},
		},
		Recommendations: 7,
	}
	require.NoError(t, s.InsertRun(ctx, status))

	got, err := s.LastRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Success)
	assert.Equal(t, 7, got.Recommendations)
	require.Len(t, got.Phases, 1)
	assert.Equal(t, 1, got.Phases[0].Failed())
}
