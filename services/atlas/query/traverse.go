// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package query

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/atlasgraph/services/atlas/graph"
)

// Path is one simple path expressed as its ordered edge sequence. A
// zero-length Path connects a node to itself.
type Path []*graph.Edge

// pathFrame is one level of the iterative DFS in Paths.
type pathFrame struct {
	node string
	next int
}

// Paths enumerates all simple paths from start to end.
//
// # Description
//
// Depth-first search over the directed outgoing edges, using an
// explicit frame stack instead of recursion so deep graphs cannot
// overflow the goroutine stack. A path is simple when it repeats no
// node; parallel edges between the same pair produce distinct paths.
// maxDepth bounds the number of edges per path.
//
// start == end returns exactly one zero-length path.
//
// # Inputs
//
//   - start, end: Node IDs. Both must exist in the snapshot.
//   - maxDepth: Maximum edges per path. Must not be negative.
//
// # Outputs
//
//   - []Path: Paths in deterministic order (edges explored by
//     ascending target then edge ID). Empty when none exist.
//   - error: ErrUnknownNode or ErrDepthNegative.
//
// # Complexity
//
// Worst case exponential in maxDepth; callers bound it.
func (e *Engine) Paths(ctx context.Context, start, end string, maxDepth int) ([]Path, error) {
	_, span := tracer.Start(ctx, "query.paths")
	defer span.End()

	if maxDepth < 0 {
		return nil, ErrDepthNegative
	}
	if !e.snap.HasNode(start) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, start)
	}
	if !e.snap.HasNode(end) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, end)
	}

	if start == end {
		return []Path{{}}, nil
	}

	var (
		found  []Path
		onPath = map[string]bool{start: true}
		edges  Path
		stack  = []pathFrame{{node: start}}
	)
	for len(stack) > 0 {
		frame := &stack[len(stack)-1]
		out := e.snap.OutEdges(frame.node)

		advanced := false
		for frame.next < len(out) && len(edges) < maxDepth {
			edge := out[frame.next]
			frame.next++
			if onPath[edge.Target] {
				continue
			}
			if edge.Target == end {
				cp := make(Path, len(edges)+1)
				copy(cp, edges)
				cp[len(edges)] = edge
				found = append(found, cp)
				continue
			}
			edges = append(edges, edge)
			onPath[edge.Target] = true
			stack = append(stack, pathFrame{node: edge.Target})
			advanced = true
			break
		}
		if advanced {
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			onPath[frame.node] = false
			edges = edges[:len(edges)-1]
		}
	}

	span.SetAttributes(attribute.Int("paths", len(found)))
	return found, nil
}

// Neighborhood returns the set of nodes within depth hops of center
// over the undirected adjacency, excluding center itself.
//
// # Description
//
// Level-by-level BFS with a visited set. depth 0 returns an empty
// slice. Results come back ascending by node ID.
//
// # Outputs
//
//   - []*graph.Node: Reached nodes, center excluded.
//   - error: ErrUnknownNode or ErrDepthNegative.
func (e *Engine) Neighborhood(ctx context.Context, center string, depth int) ([]*graph.Node, error) {
	_, span := tracer.Start(ctx, "query.neighborhood")
	defer span.End()

	if depth < 0 {
		return nil, ErrDepthNegative
	}
	if !e.snap.HasNode(center) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, center)
	}

	visited := map[string]bool{center: true}
	frontier := []string{center}
	reached := []string{}
	for level := 0; level < depth && len(frontier) > 0; level++ {
		var next []string
		for _, id := range frontier {
			for _, neighbor := range e.snap.Neighbors(id) {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				next = append(next, neighbor)
				reached = append(reached, neighbor)
			}
		}
		frontier = next
	}

	sort.Strings(reached)
	out := make([]*graph.Node, len(reached))
	for i, id := range reached {
		out[i] = e.snap.Node(id)
	}
	span.SetAttributes(attribute.Int("reached", len(out)))
	return out, nil
}
