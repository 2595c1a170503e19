// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"math"
	"sort"

	"github.com/carmarket/seobench/pkg/types"
)

// parityBand is the ± band inside which a pillar comparison counts as
// parity. Pillar scores are noisy weighted averages; without the band the
// win/lose signal would flicker run over run.
const parityBand = 5.0

// KPIGap compares one KPI between the product and the per-metric leader.
type KPIGap struct {
	Key    string  `json:"kpi"`
	Self   float64 `json:"self"`
	Leader float64 `json:"leader"`
	Gap    float64 `json:"gap"`
}

// PillarGap compares one pillar score between the product and the best
// competitor.
type PillarGap struct {
	Pillar types.Pillar       `json:"pillar"`
	Self   float64            `json:"self"`
	Leader float64            `json:"leader"`
	Diff   float64            `json:"diff"`
	Status types.PillarStatus `json:"status"`
}

// Leaders computes, for every KPI key in the product's snapshot, the
// maximum value observed across the competitor snapshots. A key no
// competitor reports falls back to the product's own value.
func Leaders(self map[string]float64, competitors []types.Snapshot) map[string]float64 {
	leaders := make(map[string]float64, len(self))
	for key, own := range self {
		var leader float64
		found := false
		for _, c := range competitors {
			if v, ok := c.KPIs[key]; ok && (!found || v > leader) {
				leader = v
				found = true
			}
		}
		if !found {
			leader = own
		}
		leaders[key] = leader
	}
	return leaders
}

// KPIGaps returns the product's per-KPI gaps against the leaders, sorted
// by absolute gap descending.
func KPIGaps(self map[string]float64, leaders map[string]float64) []KPIGap {
	gaps := make([]KPIGap, 0, len(self))
	for key, own := range self {
		leader := leaders[key]
		gaps = append(gaps, KPIGap{
			Key:    key,
			Self:   own,
			Leader: leader,
			Gap:    math.Abs(leader - own),
		})
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i].Gap > gaps[j].Gap })
	return gaps
}

// Classify maps a self-vs-leader pillar score difference onto
// win/parity/lose using the ±5 point band.
func Classify(self, leader float64) types.PillarStatus {
	diff := self - leader
	switch {
	case diff >= parityBand:
		return types.StatusWin
	case diff <= -parityBand:
		return types.StatusLose
	default:
		return types.StatusParity
	}
}

// PillarGaps compares the product's pillar scores against the best
// competitor score per pillar. Missing pillar scores on either side are
// treated as 0 for comparison only.
func PillarGaps(self map[types.Pillar]float64, competitors []map[types.Pillar]float64) []PillarGap {
	gaps := make([]PillarGap, 0, len(types.Pillars))
	for _, pillar := range types.Pillars {
		own := self[pillar]
		var leader float64
		for _, c := range competitors {
			if v, ok := c[pillar]; ok && v > leader {
				leader = v
			}
		}
		gaps = append(gaps, PillarGap{
			Pillar: pillar,
			Self:   own,
			Leader: leader,
			Diff:   own - leader,
			Status: Classify(own, leader),
		})
	}
	return gaps
}
