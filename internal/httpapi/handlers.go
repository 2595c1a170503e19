// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carmarket/seobench/internal/score"
	"github.com/carmarket/seobench/internal/store"
	"github.com/carmarket/seobench/pkg/types"
)

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]string{"error": msg})
}

// pillarMap folds a domain's latest score rows into pillar → score.
func (s *Server) pillarMap(ctx context.Context, domain string) (map[types.Pillar]float64, error) {
	rows, err := s.store.LatestScores(ctx, domain, len(types.Pillars))
	if err != nil {
		return nil, err
	}
	m := make(map[types.Pillar]float64, len(rows))
	for _, row := range rows {
		m[row.Pillar] = row.Score
	}
	return m, nil
}

// overviewResponse is the dashboard payload: pillar standings against the
// best competitor.
type overviewResponse struct {
	Domain  string            `json:"domain"`
	Pillars []score.PillarGap `json:"pillars"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	self, err := s.pillarMap(ctx, s.selfDomain)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	competitors, err := s.store.ListActiveCompetitors(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var compScores []map[types.Pillar]float64
	for _, c := range competitors {
		if c.Domain == s.selfDomain {
			continue
		}
		m, err := s.pillarMap(ctx, c.Domain)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(m) > 0 {
			compScores = append(compScores, m)
		}
	}

	respondJSON(w, http.StatusOK, overviewResponse{
		Domain:  s.selfDomain,
		Pillars: score.PillarGaps(self, compScores),
	})
}

// competitorStanding ranks one domain by its mean pillar score.
type competitorStanding struct {
	Domain  string                   `json:"domain"`
	Label   string                   `json:"label,omitempty"`
	Overall float64                  `json:"overall"`
	Pillars map[types.Pillar]float64 `json:"pillars"`
}

func (s *Server) handleCompetitors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	competitors, err := s.store.ListActiveCompetitors(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries := []types.Competitor{{Domain: s.selfDomain, Label: "self", IsActive: true}}
	for _, c := range competitors {
		if c.Domain != s.selfDomain {
			entries = append(entries, c)
		}
	}

	standings := make([]competitorStanding, 0, len(entries))
	for _, c := range entries {
		pillars, err := s.pillarMap(ctx, c.Domain)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		var sum float64
		for _, v := range pillars {
			sum += v
		}
		standing := competitorStanding{Domain: c.Domain, Label: c.Label, Pillars: pillars}
		if len(pillars) > 0 {
			standing.Overall = sum / float64(len(pillars))
		}
		standings = append(standings, standing)
	}
	sort.Slice(standings, func(i, j int) bool { return standings[i].Overall > standings[j].Overall })

	respondJSON(w, http.StatusOK, standings)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RecommendationFilter{
		Pillar: types.Pillar(q.Get("pillar")),
		Status: types.RecommendationStatus(q.Get("status")),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	recs, err := s.store.ListRecommendations(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []types.Recommendation{}
	}
	respondJSON(w, http.StatusOK, recs)
}

func (s *Server) handleRecommendationStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status types.RecommendationStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	switch body.Status {
	case types.RecommendationPending, types.RecommendationApplied, types.RecommendationDismissed:
	default:
		respondError(w, http.StatusBadRequest, "status must be pending, applied, or dismissed")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.store.UpdateRecommendationStatus(r.Context(), id, body.Status); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(body.Status)})
}

func (s *Server) handleGaps(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	self, err := s.store.LatestSnapshot(ctx, s.selfDomain)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if self == nil {
		respondJSON(w, http.StatusOK, []score.KPIGap{})
		return
	}

	all, err := s.store.AllLatestSnapshots(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var competitors []types.Snapshot
	for _, snap := range all {
		if snap.Domain != s.selfDomain {
			competitors = append(competitors, snap)
		}
	}

	gaps := score.KPIGaps(self.KPIs, score.Leaders(self.KPIs, competitors))
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if limit < len(gaps) {
			gaps = gaps[:limit]
		}
	}
	respondJSON(w, http.StatusOK, gaps)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.trigger.Status(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// handleRun fires a benchmark run and returns immediately; the scheduler's
// single-flight guard turns an overlapping trigger into a no-op.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Domains []string `json:"domains"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	go s.trigger.RunNow(context.Background(), body.Domains)
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
