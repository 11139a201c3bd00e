// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config provides configuration loading for the atlas service.
//
// Configuration comes from a YAML file with ATLAS_* environment variable
// overrides applied on top. All values are validated before use.
//
// Thread Safety:
//
//	Load returns a fresh Config per call. The returned struct is not
//	mutated afterward and may be shared across goroutines.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MaxConfigFileSize is the maximum allowed config file size (1MB).
// Prevents memory issues from large files.
const MaxConfigFileSize = 1024 * 1024

var configValidate = validator.New()

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	// Host is the bind address.
	Host string `yaml:"host" validate:"required"`

	// Port is the listen port.
	Port int `yaml:"port" validate:"gte=1,lte=65535"`

	// ReadTimeoutSeconds bounds request reads.
	ReadTimeoutSeconds int `yaml:"read_timeout_seconds" validate:"gt=0"`

	// WriteTimeoutSeconds bounds response writes. Analytics over large
	// graphs can be slow, so this defaults well above the read timeout.
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds" validate:"gt=0"`

	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds" validate:"gt=0"`
}

// ReadTimeout returns the read timeout as a duration.
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a duration.
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the shutdown timeout as a duration.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// Debounce returns the watcher debounce interval as a duration.
func (s SnapshotConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

// SnapshotConfig controls snapshot file loading.
type SnapshotConfig struct {
	// Path is an optional snapshot JSON file loaded at startup.
	Path string `yaml:"path"`

	// Watch reloads the file on change when true.
	Watch bool `yaml:"watch"`

	// DebounceMillis is how long the watcher waits after the last
	// write event before reloading.
	DebounceMillis int `yaml:"debounce_millis" validate:"gte=0"`

	// MaxFileBytes caps the snapshot file size.
	MaxFileBytes int64 `yaml:"max_file_bytes" validate:"gt=0"`
}

// AnalyticsConfig tunes the analytics engine.
type AnalyticsConfig struct {
	// MaxPathDepth is the default and upper bound for path enumeration.
	MaxPathDepth int `yaml:"max_path_depth" validate:"gt=0"`

	// EigenvectorIterations caps power iteration rounds.
	EigenvectorIterations int `yaml:"eigenvector_iterations" validate:"gt=0"`

	// EigenvectorTolerance is the convergence threshold.
	EigenvectorTolerance float64 `yaml:"eigenvector_tolerance" validate:"gt=0"`
}

// TelemetryConfig controls tracing and metrics export.
type TelemetryConfig struct {
	// Enabled turns telemetry on.
	Enabled bool `yaml:"enabled"`

	// TraceExporter selects the span exporter: "stdout" or "none".
	TraceExporter string `yaml:"trace_exporter" validate:"oneof=stdout none"`

	// MetricExporter selects the metric exporter: "prometheus",
	// "stdout", or "none".
	MetricExporter string `yaml:"metric_exporter" validate:"oneof=prometheus stdout none"`

	// PrometheusPort serves /metrics when the prometheus exporter is
	// selected.
	PrometheusPort int `yaml:"prometheus_port" validate:"gte=1,lte=65535"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, or error.
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format is "json" or "text".
	Format string `yaml:"format" validate:"oneof=json text"`

	// File is an optional log file path. Empty means stderr only.
	File string `yaml:"file"`
}

// Config is the root atlas service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:                   "0.0.0.0",
			Port:                   8085,
			ReadTimeoutSeconds:     10,
			WriteTimeoutSeconds:    60,
			ShutdownTimeoutSeconds: 15,
		},
		Snapshot: SnapshotConfig{
			DebounceMillis: 500,
			MaxFileBytes:   64 * 1024 * 1024,
		},
		Analytics: AnalyticsConfig{
			MaxPathDepth:          5,
			EigenvectorIterations: 100,
			EigenvectorTolerance:  1e-6,
		},
		Telemetry: TelemetryConfig{
			Enabled:        true,
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			PrometheusPort: 9464,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the config file at path, applies environment overrides,
// and validates the result.
//
// # Description
//
// An empty path skips the file and starts from Default(). The file may
// set any subset of fields; unset fields keep their defaults. The
// ATLAS_* environment overrides are applied after the file so they win.
//
// # Inputs
//
//   - path: YAML file path, or "" for defaults plus environment
//
// # Outputs
//
//   - Config: the validated configuration
//   - error: non-nil when the file is unreadable, oversized, malformed,
//     or the merged result fails validation
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to stat config file: %w", err)
		}
		if info.Size() > MaxConfigFileSize {
			return cfg, fmt.Errorf("config file exceeds %d bytes: %d", MaxConfigFileSize, info.Size())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := configValidate.Struct(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies ATLAS_* environment variables on top of the
// loaded config. Unset or unparseable values are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ATLAS_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("ATLAS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("ATLAS_SNAPSHOT_PATH"); v != "" {
		cfg.Snapshot.Path = v
	}
	if v := os.Getenv("ATLAS_SNAPSHOT_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Snapshot.Watch = b
		}
	}
	if v := os.Getenv("ATLAS_MAX_PATH_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analytics.MaxPathDepth = n
		}
	}
	if v := os.Getenv("ATLAS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ATLAS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("ATLAS_TELEMETRY_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Telemetry.Enabled = b
		}
	}
	if v := os.Getenv("ATLAS_PROMETHEUS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Telemetry.PrometheusPort = n
		}
	}
}
