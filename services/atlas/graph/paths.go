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

import "context"

// PathStats summarizes shortest-path structure.
type PathStats struct {
	// Diameter is the longest finite shortest-path distance. 0 when
	// no two nodes are connected.
	Diameter int `json:"diameter"`

	// AveragePathLength is the mean distance over all ordered pairs
	// of distinct, mutually reachable nodes. 0 when there are none.
	AveragePathLength float64 `json:"average_path_length"`

	// Histogram counts ordered reachable pairs per distance.
	Histogram map[int]int `json:"histogram"`

	// ReachablePairs is the total number of ordered pairs counted.
	ReachablePairs int `json:"reachable_pairs"`
}

// PathStatistics computes all-pairs shortest-path statistics.
//
// # Description
//
// Runs a BFS from every node over the undirected adjacency and
// aggregates the finite distances. Unreachable pairs are simply not
// counted; a disconnected graph reports statistics over its connected
// pairs only.
//
// # Complexity
//
// O(N * (N + E)).
func (a *Analytics) PathStatistics(ctx context.Context) *PathStats {
	_, span, done := startAnalyticsSpan(ctx, "path_stats", a.snap)
	defer span.End()
	defer done()

	stats := &PathStats{Histogram: make(map[int]int)}
	sum := 0
	dist := make(map[string]int, a.snap.NodeCount())
	for _, source := range a.snap.NodeIDs() {
		if err := ctx.Err(); err != nil {
			break
		}
		clear(dist)
		dist[source] = 0
		queue := []string{source}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range a.snap.Neighbors(cur) {
				if _, seen := dist[next]; seen {
					continue
				}
				d := dist[cur] + 1
				dist[next] = d
				queue = append(queue, next)

				stats.Histogram[d]++
				stats.ReachablePairs++
				sum += d
				if d > stats.Diameter {
					stats.Diameter = d
				}
			}
		}
	}
	if stats.ReachablePairs > 0 {
		stats.AveragePathLength = float64(sum) / float64(stats.ReachablePairs)
	}
	return stats
}
