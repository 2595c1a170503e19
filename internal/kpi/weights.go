// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kpi

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DefaultWeight applies to any KPI missing from the weight table.
const DefaultWeight = 0.5

// defaultWeights is the built-in fallback table. Scoring must never fail
// because the external weight file is missing: a separate learning job
// owns that file and may not have produced it yet.
var defaultWeights = map[string]float64{
	SchemaCoverage:           0.9,
	VehicleSchemaCoverage:    0.85,
	CanonicalSitemapMismatch: 0.6,
	LCPP75:                   0.9,
	CLSP75:                   0.8,
	INPP75:                   0.7,
	AvgCityPageWordcount:     0.7,
	TopicCount:               0.6,
	FAQCoverage:              0.55,
	ImageAltCoverage:         0.5,
	SOPInternalLinkDepth:     0.75,
	EntityDensityScore:       0.65,
	AIMentionRate:            0.8,
}

// Weights is a KPI-to-weight table with weights in [0,1].
type Weights map[string]float64

// Get returns the weight for key, or DefaultWeight when absent.
func (w Weights) Get(key string) float64 {
	if v, ok := w[key]; ok {
		return v
	}
	return DefaultWeight
}

// DefaultWeights returns a copy of the built-in table.
func DefaultWeights() Weights {
	w := make(Weights, len(defaultWeights))
	for k, v := range defaultWeights {
		w[k] = v
	}
	return w
}

// LoadWeights reads the weight table JSON from path. A missing or
// malformed file falls back to the built-in defaults with a warning on
// warnw; the external learning job replaces the file atomically, so
// whatever version is present is read without locking. Out-of-band
// values are clamped into [0,1].
func LoadWeights(path string, warnw io.Writer) Weights {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(warnw, "warning: weight table %s unreadable, using defaults: %v\n", path, err)
		}
		return DefaultWeights()
	}

	var w Weights
	if err := json.Unmarshal(data, &w); err != nil {
		fmt.Fprintf(warnw, "warning: weight table %s malformed, using defaults: %v\n", path, err)
		return DefaultWeights()
	}

	for k, v := range w {
		if v < 0 {
			w[k] = 0
		} else if v > 1 {
			w[k] = 1
		}
	}
	return w
}
