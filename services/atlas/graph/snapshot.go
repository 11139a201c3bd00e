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
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one immutable, fully validated generation of the graph.
//
// # Description
//
// A Snapshot holds the node and edge collections exactly as loaded plus
// two derived views:
//
//   - an undirected, de-duplicated adjacency (self-loops excluded),
//     used by every analytics algorithm
//   - per-node outgoing edge lists in directed form, used by path
//     enumeration
//
// All iteration orders are ascending by node ID so repeated runs over
// the same data produce identical results.
//
// # Thread Safety
//
// Immutable after NewSnapshot returns. Safe to share across goroutines
// without locking. Callers must not mutate returned slices or structs.
type Snapshot struct {
	id      string
	builtAt time.Time

	nodes map[string]*Node
	order []string
	edges []*Edge

	adj       map[string][]string
	pairCount int

	outEdges map[string][]*Edge
}

// NewSnapshot validates a full payload and builds an immutable snapshot.
//
// # Description
//
// Validation is all-or-nothing: any invalid node, duplicate ID, or edge
// endpoint that names an unknown node rejects the entire payload and
// the previous snapshot (if any) stays active.
//
// Edges without an explicit ID are assigned a deterministic ID derived
// from their position in the payload.
//
// # Inputs
//
//   - nodes: Full node collection. May be empty.
//   - edges: Full edge collection. May be empty.
//
// # Outputs
//
//   - *Snapshot: The built snapshot.
//   - error: ErrInvalidNode, ErrDuplicateNode, ErrInvalidEdge,
//     ErrDuplicateEdge, or ErrDanglingEdge. The error names the
//     offending ID.
//
// # Complexity
//
// O(N log N + E log E) for the sorted views.
func NewSnapshot(nodes []*Node, edges []*Edge) (*Snapshot, error) {
	s := &Snapshot{
		id:       uuid.NewString(),
		builtAt:  time.Now(),
		nodes:    make(map[string]*Node, len(nodes)),
		order:    make([]string, 0, len(nodes)),
		edges:    make([]*Edge, 0, len(edges)),
		adj:      make(map[string][]string, len(nodes)),
		outEdges: make(map[string][]*Edge),
	}

	for i, n := range nodes {
		if n == nil || n.ID == "" {
			return nil, fmt.Errorf("%w: node at index %d has no ID", ErrInvalidNode, i)
		}
		if _, exists := s.nodes[n.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		cp := n.Clone()
		s.nodes[cp.ID] = cp
		s.order = append(s.order, cp.ID)
	}
	sort.Strings(s.order)

	neighborSets := make(map[string]map[string]struct{}, len(nodes))
	edgeIDs := make(map[string]struct{}, len(edges))
	for i, e := range edges {
		if e == nil || e.Source == "" || e.Target == "" {
			return nil, fmt.Errorf("%w: edge at index %d has an empty endpoint", ErrInvalidEdge, i)
		}
		if _, ok := s.nodes[e.Source]; !ok {
			return nil, fmt.Errorf("%w: source %s", ErrDanglingEdge, e.Source)
		}
		if _, ok := s.nodes[e.Target]; !ok {
			return nil, fmt.Errorf("%w: target %s", ErrDanglingEdge, e.Target)
		}

		cp := e.Clone()
		if cp.ID == "" {
			cp.ID = fmt.Sprintf("edge-%d", i)
		}
		if _, dup := edgeIDs[cp.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEdge, cp.ID)
		}
		edgeIDs[cp.ID] = struct{}{}
		s.edges = append(s.edges, cp)
		s.outEdges[cp.Source] = append(s.outEdges[cp.Source], cp)

		// Self-loops stay in the edge collection but never enter the
		// undirected adjacency view.
		if cp.Source == cp.Target {
			continue
		}
		addNeighbor(neighborSets, cp.Source, cp.Target)
		addNeighbor(neighborSets, cp.Target, cp.Source)
	}

	for id, set := range neighborSets {
		list := make([]string, 0, len(set))
		for neighbor := range set {
			list = append(list, neighbor)
		}
		sort.Strings(list)
		s.adj[id] = list
		s.pairCount += len(list)
	}
	s.pairCount /= 2

	for _, list := range s.outEdges {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Target != list[j].Target {
				return list[i].Target < list[j].Target
			}
			return list[i].ID < list[j].ID
		})
	}

	return s, nil
}

func addNeighbor(sets map[string]map[string]struct{}, from, to string) {
	set, ok := sets[from]
	if !ok {
		set = make(map[string]struct{})
		sets[from] = set
	}
	set[to] = struct{}{}
}

// emptySnapshot returns the snapshot a fresh Store starts with.
func emptySnapshot() *Snapshot {
	s, _ := NewSnapshot(nil, nil)
	return s
}

// ID returns the snapshot's unique identifier.
func (s *Snapshot) ID() string { return s.id }

// BuiltAt returns when the snapshot was constructed.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// NodeCount returns the number of nodes.
func (s *Snapshot) NodeCount() int { return len(s.order) }

// EdgeCount returns the size of the edge collection, multi-edges and
// self-loops included.
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// PairCount returns the number of distinct undirected node pairs with
// at least one edge between them. Analytics formulas use this as the
// edge count of the simple projection.
func (s *Snapshot) PairCount() int { return s.pairCount }

// Node returns the node with the given ID, or nil.
func (s *Snapshot) Node(id string) *Node { return s.nodes[id] }

// HasNode reports whether the node ID exists in the snapshot.
func (s *Snapshot) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// NodeIDs returns all node IDs in ascending order. The returned slice
// is shared; callers must not modify it.
func (s *Snapshot) NodeIDs() []string { return s.order }

// Nodes returns all nodes in ascending ID order.
func (s *Snapshot) Nodes() []*Node {
	out := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// Edges returns the edge collection in payload order. The returned
// slice is shared; callers must not modify it.
func (s *Snapshot) Edges() []*Edge { return s.edges }

// Neighbors returns the undirected, de-duplicated neighbor list of a
// node in ascending ID order. Unknown nodes return nil.
func (s *Snapshot) Neighbors(id string) []string { return s.adj[id] }

// Degree returns the number of distinct undirected neighbors of a node.
func (s *Snapshot) Degree(id string) int { return len(s.adj[id]) }

// OutEdges returns the directed outgoing edges of a node, ordered by
// target ID then edge ID.
func (s *Snapshot) OutEdges(id string) []*Edge { return s.outEdges[id] }
