// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package atlas exposes the graph snapshot store, analytics engine,
// and query engine as an HTTP service.
package atlas

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/AleutianAI/atlasgraph/services/atlas/graph"
	"github.com/AleutianAI/atlasgraph/services/atlas/query"
)

// Default limits applied by DefaultServiceConfig.
const (
	// DefaultMaxPathDepth bounds path enumeration when the request
	// does not say otherwise.
	DefaultMaxPathDepth = 5

	// DefaultTopScores is how many top scorers a centrality response
	// includes when the request asks for a leaderboard without a
	// count.
	DefaultTopScores = 10
)

// ServiceConfig tunes the service.
type ServiceConfig struct {
	// MaxPathDepth is the default and upper bound for path
	// enumeration depth. Default: DefaultMaxPathDepth.
	MaxPathDepth int

	// Eigenvector provides the default power-iteration settings.
	Eigenvector graph.EigenvectorOptions
}

// DefaultServiceConfig returns the standard configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxPathDepth: DefaultMaxPathDepth,
		Eigenvector:  graph.DefaultEigenvectorOptions(),
	}
}

// engineState bundles everything derived from one snapshot. The whole
// struct is swapped atomically so a request never sees an analytics
// engine from one generation and a query engine from another.
type engineState struct {
	snap      *graph.Snapshot
	analytics *graph.Analytics
	query     *query.Engine
}

// Service owns the store and the per-snapshot engines.
//
// # Thread Safety
//
// Safe for concurrent use. Loads are serialized; reads grab the
// current engine state once and work on that generation.
type Service struct {
	config ServiceConfig
	store  *graph.Store

	mu      sync.Mutex
	current atomic.Pointer[engineState]
}

// NewService creates a service seeded with an empty graph.
func NewService(config ServiceConfig) *Service {
	if config.MaxPathDepth <= 0 {
		config.MaxPathDepth = DefaultMaxPathDepth
	}
	s := &Service{
		config: config,
		store:  graph.NewStore(),
	}
	s.install(s.store.Snapshot())
	return s
}

func (s *Service) install(snap *graph.Snapshot) {
	s.current.Store(&engineState{
		snap:      snap,
		analytics: graph.NewAnalytics(snap),
		query:     query.NewEngine(snap),
	})
}

// Config returns the service configuration.
func (s *Service) Config() ServiceConfig { return s.config }

// SetData replaces the whole graph and rebuilds the engines.
//
// # Description
//
// Validation is all-or-nothing; on error the previous snapshot and its
// engines stay active. On success the snapshot, analytics engine, and
// query indexes become visible together.
func (s *Service) SetData(ctx context.Context, nodes []*graph.Node, edges []*graph.Edge) (*graph.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.SetData(ctx, nodes, edges)
	if err != nil {
		return nil, err
	}
	s.install(snap)
	return snap, nil
}

// Snapshot returns the active snapshot.
func (s *Service) Snapshot() *graph.Snapshot {
	return s.current.Load().snap
}

// Analytics returns the analytics engine for the active snapshot.
func (s *Service) Analytics() *graph.Analytics {
	return s.current.Load().analytics
}

// Query returns the query engine for the active snapshot.
func (s *Service) Query() *query.Engine {
	return s.current.Load().query
}

// Engines returns the analytics and query engines from the same
// generation, for handlers that need a consistent pair.
func (s *Service) Engines() (*graph.Analytics, *query.Engine) {
	state := s.current.Load()
	return state.analytics, state.query
}
