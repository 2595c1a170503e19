// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/carmarket/seobench/pkg/types"
)

// competitorsFile is the YAML registry shape:
//
//	competitors:
//	  - domain: cars24.com
//	    label: Cars24
//	    is_active: true
type competitorsFile struct {
	Competitors []types.Competitor `yaml:"competitors"`
}

// SeedCompetitors loads the YAML competitor registry into the database.
// The file is the source of truth: rows are upserted, so edits to labels
// or activity flags take effect on the next startup. A missing path is
// not an error; the database keeps whatever registry it already has.
func (s *Store) SeedCompetitors(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading competitor registry %s: %w", path, err)
	}

	var file competitorsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parsing competitor registry %s: %w", path, err)
	}

	for _, c := range file.Competitors {
		if c.Domain == "" {
			continue
		}
		if err := s.UpsertCompetitor(ctx, c); err != nil {
			return 0, err
		}
	}
	return len(file.Competitors), nil
}
