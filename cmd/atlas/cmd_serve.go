// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/atlasgraph/pkg/logging"
	"github.com/AleutianAI/atlasgraph/services/atlas"
	"github.com/AleutianAI/atlasgraph/services/atlas/config"
	"github.com/AleutianAI/atlasgraph/services/atlas/graph"
	"github.com/AleutianAI/atlasgraph/services/atlas/loader"
	"github.com/AleutianAI/atlasgraph/services/atlas/telemetry"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	serveConfigPath   string // Path to the YAML config file
	serveSnapshotPath string // Snapshot file loaded at startup (overrides config)
	serveWatch        bool   // Reload the snapshot file on change
	serveDebug        bool   // Enable Gin debug mode and request logging
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// serveCmd starts the HTTP server.
//
// # Description
//
// Loads configuration, initializes logging and telemetry, optionally
// loads and watches a snapshot file, and serves the graph API until
// SIGINT or SIGTERM.
//
// # Examples
//
//	atlas serve                                  # Defaults on :8085
//	atlas serve --config atlas.yaml              # Explicit config
//	atlas serve --snapshot graph.json --watch    # Watched snapshot file
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the graph analytics HTTP server",
	Long: `Starts the Atlas HTTP server.

The server holds one immutable graph snapshot at a time. Snapshots come
from POST /v1/graph/data or from a JSON file given with --snapshot,
which can be watched for changes with --watch. A rejected snapshot never
disturbs the active one.

Examples:
  atlas serve                                # Defaults on :8085
  atlas serve --config atlas.yaml            # Explicit config file
  atlas serve --snapshot graph.json --watch  # Reload file on change`,
	RunE: runServeCommand,
}

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "",
		"Path to the YAML config file (default: built-in defaults)")
	serveCmd.Flags().StringVar(&serveSnapshotPath, "snapshot", "",
		"Snapshot JSON file loaded at startup (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false,
		"Reload the snapshot file when it changes")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false,
		"Enable Gin debug mode and per-request logging")
}

// =============================================================================
// COMMAND EXECUTION
// =============================================================================

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveSnapshotPath != "" {
		cfg.Snapshot.Path = serveSnapshotPath
	}
	if serveWatch {
		cfg.Snapshot.Watch = true
	}

	closeLogs, err := logging.Setup("atlas", cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer closeLogs()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:    "atlas",
			ServiceVersion: Version,
			Environment:    os.Getenv("ALEUTIAN_ENV"),
			TraceExporter:  cfg.Telemetry.TraceExporter,
			MetricExporter: cfg.Telemetry.MetricExporter,
			PrometheusPort: cfg.Telemetry.PrometheusPort,
		})
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		defer shutdownTelemetry(context.Background())
	}

	svc := atlas.NewService(atlas.ServiceConfig{
		MaxPathDepth: cfg.Analytics.MaxPathDepth,
		Eigenvector: graph.EigenvectorOptions{
			MaxIterations: cfg.Analytics.EigenvectorIterations,
			Tolerance:     cfg.Analytics.EigenvectorTolerance,
		},
	})

	if cfg.Snapshot.Path != "" {
		l := loader.NewLoader(svc, cfg.Snapshot.MaxFileBytes)
		if _, err := l.LoadFile(ctx, cfg.Snapshot.Path); err != nil {
			return fmt.Errorf("load snapshot %s: %w", cfg.Snapshot.Path, err)
		}
		if cfg.Snapshot.Watch {
			w, err := loader.NewWatcher(l, cfg.Snapshot.Path, cfg.Snapshot.Debounce())
			if err != nil {
				return fmt.Errorf("create snapshot watcher: %w", err)
			}
			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("start snapshot watcher: %w", err)
			}
			defer w.Stop()
		}
	}

	if serveDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("atlas"))
	if serveDebug {
		router.Use(gin.Logger())
	}

	handlers := atlas.NewHandlers(svc)
	v1 := router.Group("/v1")
	atlas.RegisterRoutes(v1, handlers)

	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
		go serveMetrics(ctx, cfg.Telemetry.PrometheusPort, h)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting Atlas server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down Atlas server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// serveMetrics exposes the Prometheus /metrics endpoint on its own port.
func serveMetrics(ctx context.Context, port int, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	slog.Info("Serving metrics", "port", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Warn("metrics server stopped", "error", err.Error())
	}
}
