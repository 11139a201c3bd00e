// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package loader reads graph snapshot documents from JSON files and
// feeds them into the service, optionally reloading on file change.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AleutianAI/atlasgraph/services/atlas/graph"
)

// Sentinel errors returned by the loader.
var (
	// ErrFileTooLarge is returned when a snapshot file exceeds the
	// configured size cap.
	ErrFileTooLarge = errors.New("loader: snapshot file too large")

	// ErrMalformedDocument is returned when the file is not a valid
	// snapshot document.
	ErrMalformedDocument = errors.New("loader: malformed snapshot document")
)

// DefaultMaxFileBytes caps snapshot files at 64MB unless configured
// otherwise.
const DefaultMaxFileBytes = 64 * 1024 * 1024

var (
	snapshotLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_snapshot_loads_total",
		Help: "Total snapshot file loads by status",
	}, []string{"status"})

	snapshotLoadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "atlas_snapshot_load_bytes",
		Help:    "Size of loaded snapshot files",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	})
)

// Sink receives the parsed graph. *atlas.Service satisfies this.
type Sink interface {
	SetData(ctx context.Context, nodes []*graph.Node, edges []*graph.Edge) (*graph.Snapshot, error)
}

// Document is the on-disk snapshot format.
type Document struct {
	Nodes []*graph.Node `json:"nodes"`
	Edges []*graph.Edge `json:"edges"`
}

// Loader reads snapshot documents into a sink.
//
// # Thread Safety
//
// Safe for concurrent use; the sink serializes loads itself.
type Loader struct {
	sink         Sink
	maxFileBytes int64
}

// NewLoader creates a loader. maxFileBytes <= 0 selects
// DefaultMaxFileBytes.
func NewLoader(sink Sink, maxFileBytes int64) *Loader {
	if maxFileBytes <= 0 {
		maxFileBytes = DefaultMaxFileBytes
	}
	return &Loader{sink: sink, maxFileBytes: maxFileBytes}
}

// LoadFile reads, parses, and activates the snapshot document at path.
//
// # Description
//
// The file must be a JSON object with "nodes" and "edges" arrays. On
// any failure the sink keeps its previous snapshot.
//
// # Outputs
//
//   - *graph.Snapshot: the activated snapshot
//   - error: non-nil when the file is unreadable, oversized, malformed,
//     or fails graph integrity validation
func (l *Loader) LoadFile(ctx context.Context, path string) (*graph.Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		snapshotLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to stat snapshot file: %w", err)
	}
	if info.Size() > l.maxFileBytes {
		snapshotLoads.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: %d bytes exceeds cap of %d", ErrFileTooLarge, info.Size(), l.maxFileBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		snapshotLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	snapshotLoadBytes.Observe(float64(len(data)))

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		snapshotLoads.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	snap, err := l.sink.SetData(ctx, doc.Nodes, doc.Edges)
	if err != nil {
		snapshotLoads.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("snapshot rejected: %w", err)
	}

	snapshotLoads.WithLabelValues("ok").Inc()
	slog.Info("snapshot file loaded",
		"path", path,
		"snapshot_id", snap.ID(),
		"nodes", snap.NodeCount(),
		"edges", snap.EdgeCount())
	return snap, nil
}
