// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Severity is a rule's urgency tier. It scales both expected uplift and
// base confidence.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Op is a closed comparison operator used in rule conditions. Conditions
// are data, not code: a Condition is interpreted by a pure evaluator over
// a KPI map, never compiled or executed.
type Op string

const (
	OpLT  Op = "<"
	OpGT  Op = ">"
	OpLTE Op = "<="
	OpGTE Op = ">="
	OpEQ  Op = "=="
)

// Condition is a rule's trigger: compare one KPI against a threshold.
type Condition struct {
	KPI   string  `json:"kpi" validate:"required"`
	Op    Op      `json:"op" validate:"required,oneof=< > <= >= =="`
	Value float64 `json:"value"`
}

// Rule is one declarative expert-system rule. Rules are static
// configuration loaded fresh on every generation run and never written
// by the engine.
type Rule struct {
	Pillar                Pillar    `json:"pillar" validate:"required"`
	Severity              Severity  `json:"severity" validate:"required,oneof=critical high medium low"`
	Title                 string    `json:"title" validate:"required"`
	Do                    string    `json:"do"`
	Dont                  string    `json:"dont"`
	Condition             Condition `json:"condition" validate:"required"`
	EvidenceKeys          []string  `json:"evidence_keys"`
	ExpectedUpliftDefault float64   `json:"expected_uplift_default" validate:"gte=0,lt=1"`
	Effort                string    `json:"effort"`
}
