// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Store holds the active graph snapshot.
//
// # Description
//
// Store implements replace-on-write: SetData validates and builds a new
// Snapshot beside the active one, then swaps a pointer. Readers load
// the pointer once and operate on a consistent generation for the
// lifetime of their request. A failed build leaves the active snapshot
// untouched.
//
// # Thread Safety
//
// Safe for concurrent use. Writers are serialized by a mutex; readers
// never block.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// NewStore returns a store seeded with an empty snapshot, so Snapshot
// never returns nil.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(emptySnapshot())
	return s
}

// Snapshot returns the active snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// SetData atomically replaces the entire graph.
//
// # Description
//
// Builds a new snapshot from the full payload. On any integrity error
// the payload is rejected as a whole and the previous snapshot stays
// active. On success the new snapshot becomes visible to all
// subsequent readers at once.
//
// # Inputs
//
//   - ctx: Context for tracing and cancellation.
//   - nodes: Full replacement node collection.
//   - edges: Full replacement edge collection.
//
// # Outputs
//
//   - *Snapshot: The newly activated snapshot.
//   - error: ErrBuildCancelled, or a validation error from NewSnapshot.
//
// # Thread Safety
//
// Concurrent SetData calls are serialized; the last writer wins.
func (s *Store) SetData(ctx context.Context, nodes []*Node, edges []*Edge) (*Snapshot, error) {
	ctx, span := tracer.Start(ctx, "graph.SetData")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, ErrBuildCancelled
	}

	start := time.Now()
	snap, err := NewSnapshot(nodes, edges)
	recordBuild(ctx, time.Since(start), len(nodes), len(edges), err)
	if err != nil {
		span.RecordError(err)
		slog.Warn("graph payload rejected",
			slog.Int("nodes", len(nodes)),
			slog.Int("edges", len(edges)),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.current.Store(snap)
	slog.Info("graph snapshot activated",
		slog.String("snapshot_id", snap.ID()),
		slog.Int("nodes", snap.NodeCount()),
		slog.Int("edges", snap.EdgeCount()),
		slog.Duration("build_time", time.Since(start)))
	return snap, nil
}
