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

	"go.opentelemetry.io/otel/attribute"
)

// maxCommunityPasses bounds the greedy sweep loop on graphs where the
// modularity check oscillates.
const maxCommunityPasses = 100

// Community is one detected node group.
type Community struct {
	// ID is the community index, numbered by first appearance in
	// ascending node order.
	ID int `json:"id"`

	// Nodes lists the member node IDs in ascending order.
	Nodes []string `json:"nodes"`
}

// CommunityResult carries a detected partition and its quality score.
type CommunityResult struct {
	// Communities are the detected groups, largest first by member
	// count with community ID as tie-break.
	Communities []Community `json:"communities"`

	// Assignments maps every node ID to its community ID.
	Assignments map[string]int `json:"assignments"`

	// Modularity is the partition's score under Modularity.
	Modularity float64 `json:"modularity"`

	// Passes is the number of full sweeps executed.
	Passes int `json:"passes"`

	// Moves is the total number of node reassignments.
	Moves int `json:"moves"`
}

// DetectCommunities finds node groups by greedy label moves.
//
// # Description
//
// Single-level greedy optimization: every node starts in its own
// community, then full sweeps in ascending node ID order move each
// node to the adjacent community with the largest positive link gain
// (links into the candidate minus links into the node's current
// community, counted over distinct neighbors). The first candidate in
// ascending neighbor order wins ties. Sweeps stop when nothing moves,
// when modularity stops improving, or at a fixed pass cap.
//
// This is deliberately one level of refinement, not a full multi-level
// hierarchy; groups are coarse but cheap and deterministic.
//
// # Complexity
//
// O(passes * (N + E)).
func (a *Analytics) DetectCommunities(ctx context.Context) *CommunityResult {
	ctx, span, done := startAnalyticsSpan(ctx, "communities", a.snap)
	defer span.End()
	defer done()

	ids := a.snap.NodeIDs()
	assignment := make(map[string]int, len(ids))
	for i, id := range ids {
		assignment[id] = i
	}

	result := &CommunityResult{}
	prevMod := a.Modularity(ctx, assignment)

	links := make(map[int]int, 8)
	for pass := 0; pass < maxCommunityPasses; pass++ {
		if err := ctx.Err(); err != nil {
			break
		}
		result.Passes = pass + 1

		moved := 0
		for _, id := range ids {
			current := assignment[id]
			clear(links)
			for _, neighbor := range a.snap.Neighbors(id) {
				links[assignment[neighbor]]++
			}

			best := current
			bestGain := 0
			seen := map[int]struct{}{current: {}}
			for _, neighbor := range a.snap.Neighbors(id) {
				candidate := assignment[neighbor]
				if _, dup := seen[candidate]; dup {
					continue
				}
				seen[candidate] = struct{}{}
				if gain := links[candidate] - links[current]; gain > bestGain {
					bestGain = gain
					best = candidate
				}
			}
			if best != current {
				assignment[id] = best
				moved++
			}
		}
		result.Moves += moved
		if moved == 0 {
			break
		}

		mod := a.Modularity(ctx, assignment)
		if mod <= prevMod {
			break
		}
		prevMod = mod
	}

	result.Assignments = renumberCommunities(ids, assignment)
	result.Communities = groupCommunities(ids, result.Assignments)
	result.Modularity = a.Modularity(ctx, result.Assignments)

	span.SetAttributes(
		attribute.Int("communities", len(result.Communities)),
		attribute.Int("passes", result.Passes),
	)
	slog.Debug("community detection finished",
		slog.Int("communities", len(result.Communities)),
		slog.Int("passes", result.Passes),
		slog.Int("moves", result.Moves),
		slog.Float64("modularity", result.Modularity))
	return result
}

// Modularity scores a partition with the simplified intra-edge form
//
//	sum over same-community pairs of (1 - k_i*k_j/(2m)) / (2m)
//
// where the pairs are the distinct undirected adjacent pairs, k is the
// distinct-neighbor degree, and m is the simple pair count. Pairs with
// an endpoint missing from the assignment are skipped. Edgeless graphs
// score 0.
func (a *Analytics) Modularity(ctx context.Context, assignment map[string]int) float64 {
	m := float64(a.snap.PairCount())
	if m == 0 {
		return 0
	}

	sum := 0.0
	for _, u := range a.snap.NodeIDs() {
		cu, ok := assignment[u]
		if !ok {
			continue
		}
		for _, w := range a.snap.Neighbors(u) {
			if w <= u {
				continue
			}
			cw, ok := assignment[w]
			if !ok || cw != cu {
				continue
			}
			ku := float64(a.snap.Degree(u))
			kw := float64(a.snap.Degree(w))
			sum += 1 - ku*kw/(2*m)
		}
	}
	return sum / (2 * m)
}

// renumberCommunities maps raw community labels to compact IDs in
// order of first appearance over ascending node IDs.
func renumberCommunities(ids []string, assignment map[string]int) map[string]int {
	remap := make(map[int]int)
	out := make(map[string]int, len(ids))
	for _, id := range ids {
		raw := assignment[id]
		compact, ok := remap[raw]
		if !ok {
			compact = len(remap)
			remap[raw] = compact
		}
		out[id] = compact
	}
	return out
}

// groupCommunities builds the member lists, largest community first.
func groupCommunities(ids []string, assignment map[string]int) []Community {
	byID := make(map[int]*Community)
	order := make([]*Community, 0)
	for _, id := range ids {
		c, ok := byID[assignment[id]]
		if !ok {
			c = &Community{ID: assignment[id]}
			byID[assignment[id]] = c
			order = append(order, c)
		}
		c.Nodes = append(c.Nodes, id)
	}

	out := make([]Community, len(order))
	for i, c := range order {
		out[i] = *c
	}
	// Stable: equal sizes keep first-appearance order, which is also
	// ascending community ID.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && len(out[j].Nodes) > len(out[j-1].Nodes); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
