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
)

// Analytics computes graph measures over one snapshot.
//
// # Description
//
// Every algorithm operates on the snapshot's undirected, de-duplicated
// adjacency view and iterates nodes in ascending ID order, so results
// are deterministic for a given snapshot.
//
// # Thread Safety
//
// Analytics holds no mutable state. One instance may serve concurrent
// callers.
type Analytics struct {
	snap *Snapshot
}

// NewAnalytics returns an analytics engine bound to a snapshot.
func NewAnalytics(snap *Snapshot) *Analytics {
	return &Analytics{snap: snap}
}

// Snapshot returns the snapshot this engine is bound to.
func (a *Analytics) Snapshot() *Snapshot { return a.snap }

// DegreeCentrality returns the distinct undirected neighbor count for
// every node. The counts sum to twice the simple pair count.
func (a *Analytics) DegreeCentrality(ctx context.Context) map[string]int {
	_, span, done := startAnalyticsSpan(ctx, "degree", a.snap)
	defer span.End()
	defer done()

	out := make(map[string]int, a.snap.NodeCount())
	for _, id := range a.snap.NodeIDs() {
		out[id] = a.snap.Degree(id)
	}
	return out
}

// ClusteringCoefficients returns the local clustering coefficient for
// every node.
//
// # Description
//
// For a node with k distinct neighbors, the coefficient is the number
// of edges among those neighbors divided by k*(k-1)/2. Nodes with
// fewer than two neighbors score 0.
//
// # Complexity
//
// O(N * d^2) where d is the maximum degree.
func (a *Analytics) ClusteringCoefficients(ctx context.Context) map[string]float64 {
	_, span, done := startAnalyticsSpan(ctx, "clustering", a.snap)
	defer span.End()
	defer done()

	out := make(map[string]float64, a.snap.NodeCount())
	for _, id := range a.snap.NodeIDs() {
		out[id] = a.localClustering(id)
	}
	return out
}

func (a *Analytics) localClustering(id string) float64 {
	neighbors := a.snap.Neighbors(id)
	k := len(neighbors)
	if k < 2 {
		return 0
	}

	inSet := make(map[string]struct{}, k)
	for _, n := range neighbors {
		inSet[n] = struct{}{}
	}

	links := 0
	for _, u := range neighbors {
		for _, w := range a.snap.Neighbors(u) {
			// Count each neighbor pair once.
			if w <= u {
				continue
			}
			if _, ok := inSet[w]; ok {
				links++
			}
		}
	}
	return float64(links) / (float64(k) * float64(k-1) / 2)
}

// GlobalClustering returns the mean local clustering coefficient over
// all nodes, zeros included. Empty graphs return 0.
func (a *Analytics) GlobalClustering(ctx context.Context) float64 {
	if a.snap.NodeCount() == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range a.ClusteringCoefficients(ctx) {
		sum += c
	}
	return sum / float64(a.snap.NodeCount())
}

// Stats is the summary measure bundle for one snapshot.
type Stats struct {
	// NodeCount is the number of nodes.
	NodeCount int `json:"node_count"`

	// EdgeCount is the size of the edge collection as loaded.
	EdgeCount int `json:"edge_count"`

	// AverageDegree is the mean distinct-neighbor count.
	AverageDegree float64 `json:"average_degree"`

	// Density is 2E / (N * (N-1)) over the simple projection.
	// Graphs with fewer than two nodes report 0.
	Density float64 `json:"density"`

	// Diameter is the longest finite shortest-path distance.
	Diameter int `json:"diameter"`

	// AveragePathLength is the mean shortest-path distance over all
	// ordered pairs of distinct, mutually reachable nodes.
	AveragePathLength float64 `json:"average_path_length"`

	// Clustering is the mean local clustering coefficient.
	Clustering float64 `json:"clustering"`

	// Components is the number of connected components of the
	// undirected projection.
	Components int `json:"components"`
}

// Statistics computes the full summary bundle.
//
// # Description
//
// Combines counts, density, path statistics, and clustering in one
// call. An empty snapshot returns the zero Stats value; no measure
// panics or divides by zero.
func (a *Analytics) Statistics(ctx context.Context) Stats {
	ctx, span, done := startAnalyticsSpan(ctx, "statistics", a.snap)
	defer span.End()
	defer done()

	n := a.snap.NodeCount()
	stats := Stats{
		NodeCount: n,
		EdgeCount: a.snap.EdgeCount(),
	}
	if n == 0 {
		return stats
	}

	pairs := a.snap.PairCount()
	stats.AverageDegree = 2 * float64(pairs) / float64(n)
	if n > 1 {
		stats.Density = 2 * float64(pairs) / (float64(n) * float64(n-1))
	}

	paths := a.PathStatistics(ctx)
	stats.Diameter = paths.Diameter
	stats.AveragePathLength = paths.AveragePathLength
	stats.Clustering = a.GlobalClustering(ctx)
	stats.Components = a.ConnectedComponents(ctx)

	slog.Debug("graph statistics computed",
		slog.Int("nodes", stats.NodeCount),
		slog.Int("edges", stats.EdgeCount),
		slog.Int("components", stats.Components))
	return stats
}

// ConnectedComponents returns the number of connected components of
// the undirected projection. Isolated nodes count as components.
func (a *Analytics) ConnectedComponents(ctx context.Context) int {
	_, span, done := startAnalyticsSpan(ctx, "components", a.snap)
	defer span.End()
	defer done()

	visited := make(map[string]struct{}, a.snap.NodeCount())
	components := 0
	for _, id := range a.snap.NodeIDs() {
		if _, seen := visited[id]; seen {
			continue
		}
		components++
		queue := []string{id}
		visited[id] = struct{}{}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range a.snap.Neighbors(cur) {
				if _, seen := visited[next]; !seen {
					visited[next] = struct{}{}
					queue = append(queue, next)
				}
			}
		}
	}
	return components
}
