// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupWithWritersFansOut(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("run finished", "domains", 4)

	if !strings.Contains(stderr.String(), "run finished") {
		t.Errorf("stderr output missing message: %q", stderr.String())
	}

	var record map[string]any
	if err := json.Unmarshal(file.Bytes(), &record); err != nil {
		t.Fatalf("file output is not JSON: %v (%q)", err, file.String())
	}
	if record["msg"] != "run finished" {
		t.Errorf("JSON msg = %v, want %q", record["msg"], "run finished")
	}
	if record["domains"] != float64(4) {
		t.Errorf("JSON domains = %v, want 4", record["domains"])
	}
}

func TestSetupWithWritersRespectsLevel(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupWithWriters(&stderr, &file, slog.LevelWarn)

	logger.Debug("noise")
	logger.Info("still noise")

	if stderr.Len() != 0 || file.Len() != 0 {
		t.Errorf("below-level records must be dropped, got stderr=%q file=%q",
			stderr.String(), file.String())
	}
}
