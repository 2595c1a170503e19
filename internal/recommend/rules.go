// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend turns KPI gaps into a ranked, confidence-scored list
// of recommended actions using a declarative rule set.
package recommend

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/carmarket/seobench/pkg/types"
)

var validate = validator.New()

// LoadRules reads the declarative rule set: a JSON array of Rule records.
// Rules are loaded fresh on every generation run, never cached. Rules
// failing validation are skipped with a warning; the caller treats a
// file-level failure as "empty rule set", never as a run failure.
func LoadRules(path string, warnw io.Writer) ([]types.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule set %s: %w", path, err)
	}

	var raw []types.Rule
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing rule set %s: %w", path, err)
	}

	rules := make([]types.Rule, 0, len(raw))
	for i, r := range raw {
		if err := validate.Struct(r); err != nil {
			fmt.Fprintf(warnw, "warning: skipping rule %d (%q): %v\n", i, r.Title, err)
			continue
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// EvalCondition interprets one rule trigger against a KPI map. Conditions
// are pure data: a closed operator set compared against one KPI. A
// missing KPI or unknown operator evaluates to not-triggered, never an
// error.
func EvalCondition(cond types.Condition, kpis map[string]float64) bool {
	value, ok := kpis[cond.KPI]
	if !ok {
		return false
	}
	switch cond.Op {
	case types.OpLT:
		return value < cond.Value
	case types.OpGT:
		return value > cond.Value
	case types.OpLTE:
		return value <= cond.Value
	case types.OpGTE:
		return value >= cond.Value
	case types.OpEQ:
		return value == cond.Value
	default:
		return false
	}
}
