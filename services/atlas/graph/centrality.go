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
	"sort"
)

// ClosenessCentrality returns closeness scores for every node.
//
// # Description
//
// For each node, runs a BFS over the undirected adjacency and scores
// (reachable - 1) / sum-of-distances, where reachable counts the node
// itself. Nodes that reach nothing (isolated nodes) score 0. On
// disconnected graphs the score only reflects the node's own
// component.
//
// # Complexity
//
// O(N * (N + E)).
func (a *Analytics) ClosenessCentrality(ctx context.Context) map[string]float64 {
	_, span, done := startAnalyticsSpan(ctx, "closeness", a.snap)
	defer span.End()
	defer done()

	out := make(map[string]float64, a.snap.NodeCount())
	dist := make(map[string]int, a.snap.NodeCount())
	for _, source := range a.snap.NodeIDs() {
		clear(dist)
		dist[source] = 0
		queue := []string{source}
		sum := 0
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range a.snap.Neighbors(cur) {
				if _, seen := dist[next]; seen {
					continue
				}
				dist[next] = dist[cur] + 1
				sum += dist[next]
				queue = append(queue, next)
			}
		}
		if sum == 0 {
			out[source] = 0
			continue
		}
		out[source] = float64(len(dist)-1) / float64(sum)
	}
	return out
}

// BetweennessCentrality returns unnormalized betweenness scores.
//
// # Description
//
// Brandes' algorithm over the undirected adjacency: one BFS per source
// accumulating shortest-path counts (sigma) and predecessor lists,
// then a reverse pass over the BFS stack accumulating pair
// dependencies (delta). Sources are excluded from their own
// accumulation. Each undirected pair contributes from both endpoints,
// so scores are the standard directed-pair sums.
//
// # Outputs
//
//   - map[string]float64: Score per node ID. Leaves of a tree score 0.
//
// # Complexity
//
// O(N * E) time, O(N + E) space per source.
func (a *Analytics) BetweennessCentrality(ctx context.Context) map[string]float64 {
	_, span, done := startAnalyticsSpan(ctx, "betweenness", a.snap)
	defer span.End()
	defer done()

	ids := a.snap.NodeIDs()
	scores := make(map[string]float64, len(ids))
	for _, id := range ids {
		scores[id] = 0
	}

	sigma := make(map[string]float64, len(ids))
	dist := make(map[string]int, len(ids))
	delta := make(map[string]float64, len(ids))
	preds := make(map[string][]string, len(ids))

	for _, source := range ids {
		stack := make([]string, 0, len(ids))
		clear(sigma)
		clear(dist)
		clear(delta)
		clear(preds)
		for _, id := range ids {
			dist[id] = -1
		}
		sigma[source] = 1
		dist[source] = 0

		queue := []string{source}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			stack = append(stack, cur)
			for _, next := range a.snap.Neighbors(cur) {
				if dist[next] < 0 {
					dist[next] = dist[cur] + 1
					queue = append(queue, next)
				}
				if dist[next] == dist[cur]+1 {
					sigma[next] += sigma[cur]
					preds[next] = append(preds[next], cur)
				}
			}
		}

		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != source {
				scores[w] += delta[w]
			}
		}
	}
	return scores
}

// ScoredNode pairs a node ID with an analytics score.
type ScoredNode struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// TopScores returns the n highest entries of a score map, ordered by
// descending score with ascending ID as tie-break. n <= 0 or n larger
// than the map returns everything.
func TopScores(scores map[string]float64, n int) []ScoredNode {
	out := make([]ScoredNode, 0, len(scores))
	for id, score := range scores {
		out = append(out, ScoredNode{ID: id, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
