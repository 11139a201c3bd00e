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
	"errors"
	"math"
	"reflect"
	"testing"
)

// testNode builds a minimal node for tests.
func testNode(id string) *Node {
	return &Node{ID: id, Label: id, Type: "entity"}
}

// testEdge builds a minimal edge for tests.
func testEdge(source, target string) *Edge {
	return &Edge{Source: source, Target: target}
}

// mustSnapshot builds a snapshot or fails the test.
func mustSnapshot(t *testing.T, nodes []*Node, edges []*Edge) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot(nodes, edges)
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}
	return snap
}

// cycleSnapshot builds an undirected cycle n0 - n1 - ... - n(k-1) - n0.
func cycleSnapshot(t *testing.T, ids ...string) *Snapshot {
	t.Helper()
	nodes := make([]*Node, len(ids))
	edges := make([]*Edge, len(ids))
	for i, id := range ids {
		nodes[i] = testNode(id)
		edges[i] = testEdge(id, ids[(i+1)%len(ids)])
	}
	return mustSnapshot(t, nodes, edges)
}

// orgChartSnapshot builds the two-level tree used across analytics
// tests:
//
//	        ceo
//	       /   \
//	     vp1   vp2
//	    /  \   /  \
//	   e1  e2 e3  e4
func orgChartSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	return mustSnapshot(t,
		[]*Node{
			testNode("ceo"), testNode("vp1"), testNode("vp2"),
			testNode("e1"), testNode("e2"), testNode("e3"), testNode("e4"),
		},
		[]*Edge{
			testEdge("ceo", "vp1"), testEdge("ceo", "vp2"),
			testEdge("vp1", "e1"), testEdge("vp1", "e2"),
			testEdge("vp2", "e3"), testEdge("vp2", "e4"),
		})
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewSnapshotRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []*Node
		edges   []*Edge
		wantErr error
	}{
		{
			name:    "empty node ID",
			nodes:   []*Node{{Label: "x"}},
			wantErr: ErrInvalidNode,
		},
		{
			name:    "duplicate node ID",
			nodes:   []*Node{testNode("a"), testNode("a")},
			wantErr: ErrDuplicateNode,
		},
		{
			name:    "dangling source",
			nodes:   []*Node{testNode("a")},
			edges:   []*Edge{testEdge("ghost", "a")},
			wantErr: ErrDanglingEdge,
		},
		{
			name:    "dangling target",
			nodes:   []*Node{testNode("a")},
			edges:   []*Edge{testEdge("a", "ghost")},
			wantErr: ErrDanglingEdge,
		},
		{
			name:    "empty edge endpoint",
			nodes:   []*Node{testNode("a")},
			edges:   []*Edge{{Source: "a"}},
			wantErr: ErrInvalidEdge,
		},
		{
			name:  "duplicate edge ID",
			nodes: []*Node{testNode("a"), testNode("b")},
			edges: []*Edge{
				{ID: "e", Source: "a", Target: "b"},
				{ID: "e", Source: "b", Target: "a"},
			},
			wantErr: ErrDuplicateEdge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSnapshot(tt.nodes, tt.edges)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshotAdjacencyDeduplicates(t *testing.T) {
	// Parallel edges in both directions plus a self-loop; the
	// adjacency view must collapse them all.
	snap := mustSnapshot(t,
		[]*Node{testNode("a"), testNode("b")},
		[]*Edge{
			testEdge("a", "b"),
			testEdge("a", "b"),
			testEdge("b", "a"),
			testEdge("a", "a"),
		})

	if got := snap.EdgeCount(); got != 4 {
		t.Errorf("EdgeCount = %d, want 4", got)
	}
	if got := snap.PairCount(); got != 1 {
		t.Errorf("PairCount = %d, want 1", got)
	}
	if got := snap.Neighbors("a"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Neighbors(a) = %v, want [b]", got)
	}
	if got := snap.Neighbors("b"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Neighbors(b) = %v, want [a]", got)
	}
}

func TestSnapshotNeighborsSorted(t *testing.T) {
	snap := mustSnapshot(t,
		[]*Node{testNode("m"), testNode("z"), testNode("a"), testNode("k")},
		[]*Edge{
			testEdge("m", "z"),
			testEdge("a", "m"),
			testEdge("m", "k"),
		})

	want := []string{"a", "k", "z"}
	if got := snap.Neighbors("m"); !reflect.DeepEqual(got, want) {
		t.Errorf("Neighbors(m) = %v, want %v", got, want)
	}
	wantIDs := []string{"a", "k", "m", "z"}
	if got := snap.NodeIDs(); !reflect.DeepEqual(got, wantIDs) {
		t.Errorf("NodeIDs = %v, want %v", got, wantIDs)
	}
}

func TestSnapshotDegreeSumIsTwicePairCount(t *testing.T) {
	snap := orgChartSnapshot(t)

	sum := 0
	for _, id := range snap.NodeIDs() {
		sum += snap.Degree(id)
	}
	if sum != 2*snap.PairCount() {
		t.Errorf("degree sum = %d, want %d", sum, 2*snap.PairCount())
	}
}

func TestSnapshotGeneratedEdgeIDs(t *testing.T) {
	snap := mustSnapshot(t,
		[]*Node{testNode("a"), testNode("b")},
		[]*Edge{testEdge("a", "b"), {ID: "named", Source: "b", Target: "a"}})

	edges := snap.Edges()
	if edges[0].ID != "edge-0" {
		t.Errorf("generated edge ID = %q, want edge-0", edges[0].ID)
	}
	if edges[1].ID != "named" {
		t.Errorf("explicit edge ID = %q, want named", edges[1].ID)
	}
}

func TestSnapshotIsolatedFromInput(t *testing.T) {
	node := testNode("a")
	node.Properties = Properties{{Key: "weight", Value: NumberValue(1)}}
	snap := mustSnapshot(t, []*Node{node}, nil)

	node.Label = "mutated"
	node.Properties[0].Value = NumberValue(99)

	got := snap.Node("a")
	if got.Label != "a" {
		t.Errorf("snapshot node label = %q, want a", got.Label)
	}
	v, _ := got.Properties.Get("weight")
	if f, _ := v.Number(); f != 1 {
		t.Errorf("snapshot property = %v, want 1", f)
	}
}
