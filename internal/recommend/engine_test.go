// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/carmarket/seobench/internal/kpi"
	"github.com/carmarket/seobench/pkg/types"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	snapshots map[string]*types.Snapshot
	inserted  []types.Recommendation
	insertErr error
}

func (f *fakeStore) LatestSnapshot(_ context.Context, domain string) (*types.Snapshot, error) {
	return f.snapshots[domain], nil
}

func (f *fakeStore) AllLatestSnapshots(_ context.Context) ([]types.Snapshot, error) {
	var out []types.Snapshot
	for _, s := range f.snapshots {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStore) InsertRecommendation(_ context.Context, rec types.Recommendation) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, rec)
	return nil
}

func writeRules(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "rules.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeWeights(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "weights.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestEngine(t *testing.T, store Store, rulesJSON, weightsJSON string) *Engine {
	t.Helper()
	dir := t.TempDir()
	e := NewEngine(store, "cararth.com",
		types.RulesConfig{RulesPath: writeRules(t, dir, rulesJSON)},
		types.ScoringConfig{WeightsPath: writeWeights(t, dir, weightsJSON)},
	)
	e.now = func() time.Time { return time.Date(2026, 8, 23, 2, 0, 0, 0, time.UTC) }
	return e
}

// The reference scenario: a critical LCP rule against self=1800 and
// leader=950 with weight 0.9 produces a gap factor of 765, which must be
// absorbed by the uplift cap before persistence.
func TestGenerateUpliftCapIsLoadBearing(t *testing.T) {
	store := &fakeStore{snapshots: map[string]*types.Snapshot{
		"cararth.com": {Domain: "cararth.com", KPIs: map[string]float64{kpi.LCPP75: 1800}},
		"cars24.com":  {Domain: "cars24.com", KPIs: map[string]float64{kpi.LCPP75: 950}},
	}}

	rules := `[{"pillar":"Performance","severity":"critical","title":"Cut LCP",
		"condition":{"kpi":"lcp_p75","op":">","value":1200},
		"evidence_keys":["lcp_p75"],"expected_uplift_default":0.10,"effort":"high"}]`
	weights := `{"lcp_p75": 0.9}`

	e := newTestEngine(t, store, rules, weights)
	recs, err := e.Generate(context.Background(), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}

	rec := recs[0]
	if rec.ExpectedUplift != 0.999 {
		t.Errorf("ExpectedUplift = %v, want capped 0.999", rec.ExpectedUplift)
	}
	if rec.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9 (critical, full evidence)", rec.Confidence)
	}

	ev, ok := rec.Evidence[kpi.LCPP75]
	if !ok {
		t.Fatal("evidence for lcp_p75 missing")
	}
	if ev.Self != 1800 || ev.Leader != 950 || ev.Gap != 850 {
		t.Errorf("evidence = %+v, want self=1800 leader=950 gap=850", ev)
	}

	if len(store.inserted) != 1 {
		t.Errorf("persisted %d recommendations, want 1", len(store.inserted))
	}
	if store.inserted[0].ExpectedUplift > 0.999 {
		t.Error("uplift must be capped before persistence")
	}
	if store.inserted[0].Status != types.RecommendationPending {
		t.Errorf("status = %s, want pending", store.inserted[0].Status)
	}
}

func TestGenerateConfidenceDropsWithMissingEvidence(t *testing.T) {
	rules := `[{"pillar":"Indexability","severity":"high","title":"Schema work",
		"condition":{"kpi":"schema_coverage","op":"<","value":0.9},
		"evidence_keys":["schema_coverage","vehicle_schema_coverage","topic_count","entity_density_score"],
		"expected_uplift_default":0.05,"effort":"low"}]`

	full := &fakeStore{snapshots: map[string]*types.Snapshot{
		"cararth.com": {Domain: "cararth.com", KPIs: map[string]float64{
			kpi.SchemaCoverage: 0.5, kpi.VehicleSchemaCoverage: 0.4,
			kpi.TopicCount: 8, kpi.EntityDensityScore: 30,
		}},
	}}
	partial := &fakeStore{snapshots: map[string]*types.Snapshot{
		"cararth.com": {Domain: "cararth.com", KPIs: map[string]float64{
			kpi.SchemaCoverage: 0.5,
		}},
	}}

	fullRecs, err := newTestEngine(t, full, rules, `{}`).Generate(context.Background(), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	partialRecs, err := newTestEngine(t, partial, rules, `{}`).Generate(context.Background(), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	if len(fullRecs) != 1 || len(partialRecs) != 1 {
		t.Fatalf("expected one recommendation each, got %d and %d", len(fullRecs), len(partialRecs))
	}
	if fullRecs[0].Confidence != 0.85 {
		t.Errorf("full-evidence confidence = %v, want 0.85", fullRecs[0].Confidence)
	}
	// 1 of 4 evidence keys present: 0.85 * 0.25.
	if partialRecs[0].Confidence != 0.213 {
		t.Errorf("partial-evidence confidence = %v, want 0.213", partialRecs[0].Confidence)
	}
	if partialRecs[0].Confidence >= fullRecs[0].Confidence {
		t.Error("confidence must strictly decrease as evidence goes missing")
	}
}

func TestGenerateTopNInvariant(t *testing.T) {
	// 15 rules all trigger; only 10 may be persisted.
	var rules bytes.Buffer
	rules.WriteString("[")
	for i := 0; i < 15; i++ {
		if i > 0 {
			rules.WriteString(",")
		}
		fmt.Fprintf(&rules, `{"pillar":"Content","severity":"medium","title":"Rule %d",
			"condition":{"kpi":"topic_count","op":"<","value":100},
			"evidence_keys":["topic_count"],"expected_uplift_default":%f,"effort":"low"}`,
			i, 0.01+float64(i)*0.02)
	}
	rules.WriteString("]")

	store := &fakeStore{snapshots: map[string]*types.Snapshot{
		"cararth.com": {Domain: "cararth.com", KPIs: map[string]float64{kpi.TopicCount: 8}},
	}}

	recs, err := newTestEngine(t, store, rules.String(), `{}`).Generate(context.Background(), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 10 {
		t.Errorf("len(recs) = %d, want 10", len(recs))
	}
	if len(store.inserted) != 10 {
		t.Errorf("persisted %d, want 10", len(store.inserted))
	}
	// Uplift defaults are spaced > 0.01 apart, so ordering is unambiguous.
	for i := 1; i < len(recs); i++ {
		if recs[i].ExpectedUplift > recs[i-1].ExpectedUplift {
			t.Errorf("recs not sorted by uplift: %v after %v", recs[i].ExpectedUplift, recs[i-1].ExpectedUplift)
		}
	}
}

func TestGenerateTieBrokenByConfidence(t *testing.T) {
	// Same uplift inputs, different severities: low severity also lowers
	// uplift, so pin uplift via identical severity and differing evidence
	// availability instead.
	rules := `[
	  {"pillar":"GEO","severity":"high","title":"full evidence",
	   "condition":{"kpi":"ai_mention_rate","op":"<","value":0.5},
	   "evidence_keys":["ai_mention_rate"],"expected_uplift_default":0.05,"effort":"low"},
	  {"pillar":"GEO","severity":"high","title":"half evidence",
	   "condition":{"kpi":"ai_mention_rate","op":"<","value":0.5},
	   "evidence_keys":["ai_mention_rate","entity_density_score"],"expected_uplift_default":0.05,"effort":"low"}
	]`

	store := &fakeStore{snapshots: map[string]*types.Snapshot{
		"cararth.com": {Domain: "cararth.com", KPIs: map[string]float64{kpi.AIMentionRate: 0.1}},
	}}

	recs, err := newTestEngine(t, store, rules, `{}`).Generate(context.Background(), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if recs[0].Title != "full evidence" {
		t.Errorf("tie should break on confidence: got %q first (confidences %v, %v)",
			recs[0].Title, recs[0].Confidence, recs[1].Confidence)
	}
}

func TestGenerateEmptyDatabaseUsesDefaultSnapshot(t *testing.T) {
	rules := `[{"pillar":"Performance","severity":"medium","title":"LCP slow",
		"condition":{"kpi":"lcp_p75","op":">","value":2000},
		"evidence_keys":["lcp_p75"],"expected_uplift_default":0.05,"effort":"medium"}]`

	store := &fakeStore{snapshots: map[string]*types.Snapshot{}}
	recs, err := newTestEngine(t, store, rules, `{}`).Generate(context.Background(), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	// The built-in default snapshot has lcp_p75 = 2800, so the rule fires
	// even on a completely empty database.
	if len(recs) != 1 {
		t.Errorf("len(recs) = %d, want 1 on empty database", len(recs))
	}
}

func TestGenerateMissingRuleFileYieldsEmpty(t *testing.T) {
	store := &fakeStore{snapshots: map[string]*types.Snapshot{}}
	e := NewEngine(store, "cararth.com",
		types.RulesConfig{RulesPath: "/nonexistent/rules.json"},
		types.ScoringConfig{WeightsPath: "/nonexistent/weights.json"},
	)

	var out bytes.Buffer
	recs, err := e.Generate(context.Background(), &out)
	if err != nil {
		t.Fatalf("Generate must not fail on missing configuration: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("len(recs) = %d, want 0 with no rules", len(recs))
	}
}

func TestGenerateUpliftBounds(t *testing.T) {
	rules := `[{"pillar":"Content","severity":"low","title":"small tweak",
		"condition":{"kpi":"faq_coverage","op":"<","value":0.5},
		"evidence_keys":[],"expected_uplift_default":0.02,"effort":"low"}]`

	store := &fakeStore{snapshots: map[string]*types.Snapshot{
		"cararth.com": {Domain: "cararth.com", KPIs: map[string]float64{kpi.FAQCoverage: 0.1}},
	}}

	recs, err := newTestEngine(t, store, rules, `{}`).Generate(context.Background(), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
	// No evidence keys: gap factor 0, uplift = 0.02 * 1 * 0.7.
	if recs[0].ExpectedUplift != 0.014 {
		t.Errorf("ExpectedUplift = %v, want 0.014", recs[0].ExpectedUplift)
	}
	if recs[0].ExpectedUplift < 0 || recs[0].ExpectedUplift > 0.999 {
		t.Errorf("uplift %v outside [0, 0.999]", recs[0].ExpectedUplift)
	}
}
