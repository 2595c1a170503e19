// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DomainResult records one domain's outcome within a run phase.
type DomainResult struct {
	Domain string `json:"domain"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// PhaseResult summarizes one of the four sequential run phases.
type PhaseResult struct {
	Name    string         `json:"name"`
	Domains []DomainResult `json:"domains,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Succeeded returns how many domains completed the phase.
func (p PhaseResult) Succeeded() int {
	n := 0
	for _, d := range p.Domains {
		if d.OK {
			n++
		}
	}
	return n
}

// Failed returns how many domains failed the phase.
func (p PhaseResult) Failed() int {
	return len(p.Domains) - p.Succeeded()
}

// RunStatus is the queryable summary of the most recent benchmark run.
// A skipped run (overlap with an in-flight run) carries Skipped=true and
// no phases.
type RunStatus struct {
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      time.Time     `json:"finished_at"`
	Duration        time.Duration `json:"duration"`
	Success         bool          `json:"success"`
	Skipped         bool          `json:"skipped,omitempty"`
	Error           string        `json:"error,omitempty"`
	Phases          []PhaseResult `json:"phases,omitempty"`
	Recommendations int           `json:"recommendations"`
}
