// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Analytics.MaxPathDepth)
	assert.Equal(t, 100, cfg.Analytics.EigenvectorIterations)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9000
  read_timeout_seconds: 10
  write_timeout_seconds: 60
  shutdown_timeout_seconds: 15
analytics:
  max_path_depth: 8
  eigenvector_iterations: 100
  eigenvector_tolerance: 1e-6
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Analytics.MaxPathDepth)
	// Untouched sections keep defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, int64(64*1024*1024), cfg.Snapshot.MaxFileBytes)
}

func TestLoadEnvOverridesWin(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9000
  read_timeout_seconds: 10
  write_timeout_seconds: 60
  shutdown_timeout_seconds: 15
`)
	t.Setenv("ATLAS_PORT", "9100")
	t.Setenv("ATLAS_LOG_LEVEL", "debug")
	t.Setenv("ATLAS_SNAPSHOT_WATCH", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Snapshot.Watch)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad port", "server:\n  port: 99999\n"},
		{"bad log level", "logging:\n  level: loud\n"},
		{"bad metric exporter", "telemetry:\n  metric_exporter: statsd\n"},
		{"negative path depth", "analytics:\n  max_path_depth: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [not a map"))
	assert.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	big := "# " + strings.Repeat("x", MaxConfigFileSize)
	_, err := Load(writeConfig(t, big))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}
