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
	"testing"
)

func TestDegreeCentrality(t *testing.T) {
	snap := orgChartSnapshot(t)
	degrees := NewAnalytics(snap).DegreeCentrality(context.Background())

	tests := []struct {
		id   string
		want int
	}{
		{"ceo", 2},
		{"vp1", 3},
		{"vp2", 3},
		{"e1", 1},
		{"e4", 1},
	}
	for _, tt := range tests {
		if degrees[tt.id] != tt.want {
			t.Errorf("degree[%s] = %d, want %d", tt.id, degrees[tt.id], tt.want)
		}
	}

	sum := 0
	for _, d := range degrees {
		sum += d
	}
	if sum != 2*snap.PairCount() {
		t.Errorf("degree sum = %d, want %d", sum, 2*snap.PairCount())
	}
}

func TestClosenessCentralityPath(t *testing.T) {
	// a - b - c
	snap := mustSnapshot(t,
		[]*Node{testNode("a"), testNode("b"), testNode("c")},
		[]*Edge{testEdge("a", "b"), testEdge("b", "c")})
	closeness := NewAnalytics(snap).ClosenessCentrality(context.Background())

	if !almostEqual(closeness["b"], 1.0) {
		t.Errorf("closeness[b] = %v, want 1.0", closeness["b"])
	}
	if !almostEqual(closeness["a"], 2.0/3.0) {
		t.Errorf("closeness[a] = %v, want 2/3", closeness["a"])
	}
}

func TestClosenessCentralityIsolatedNode(t *testing.T) {
	snap := mustSnapshot(t,
		[]*Node{testNode("a"), testNode("b"), testNode("lonely")},
		[]*Edge{testEdge("a", "b")})
	closeness := NewAnalytics(snap).ClosenessCentrality(context.Background())

	if closeness["lonely"] != 0 {
		t.Errorf("closeness[lonely] = %v, want 0", closeness["lonely"])
	}
	if !almostEqual(closeness["a"], 1.0) {
		// One reachable node at distance 1; the isolated node does
		// not drag the score down.
		t.Errorf("closeness[a] = %v, want 1.0", closeness["a"])
	}
}

func TestBetweennessCentralityPath(t *testing.T) {
	// a - b - c: b carries both ordered pairs (a,c) and (c,a).
	snap := mustSnapshot(t,
		[]*Node{testNode("a"), testNode("b"), testNode("c")},
		[]*Edge{testEdge("a", "b"), testEdge("b", "c")})
	bet := NewAnalytics(snap).BetweennessCentrality(context.Background())

	if !almostEqual(bet["b"], 2.0) {
		t.Errorf("betweenness[b] = %v, want 2.0", bet["b"])
	}
	if !almostEqual(bet["a"], 0) || !almostEqual(bet["c"], 0) {
		t.Errorf("endpoints should score 0, got a=%v c=%v", bet["a"], bet["c"])
	}
}

func TestBetweennessCentralityTreeLeaves(t *testing.T) {
	snap := orgChartSnapshot(t)
	bet := NewAnalytics(snap).BetweennessCentrality(context.Background())

	for _, leaf := range []string{"e1", "e2", "e3", "e4"} {
		if !almostEqual(bet[leaf], 0) {
			t.Errorf("betweenness[%s] = %v, want 0", leaf, bet[leaf])
		}
	}
	for _, leaf := range []string{"e1", "e2", "e3", "e4"} {
		if bet["ceo"] <= bet[leaf] {
			t.Errorf("betweenness[ceo]=%v not above leaf %s=%v", bet["ceo"], leaf, bet[leaf])
		}
	}
	// Each VP separates its own leaves from the rest of the tree.
	if bet["vp1"] <= 0 {
		t.Errorf("betweenness[vp1] = %v, want > 0", bet["vp1"])
	}
}

func TestBetweennessSplitShortestPaths(t *testing.T) {
	// Diamond: a-b-d and a-c-d. b and c each carry half of (a,d).
	snap := mustSnapshot(t,
		[]*Node{testNode("a"), testNode("b"), testNode("c"), testNode("d")},
		[]*Edge{
			testEdge("a", "b"), testEdge("a", "c"),
			testEdge("b", "d"), testEdge("c", "d"),
		})
	bet := NewAnalytics(snap).BetweennessCentrality(context.Background())

	// Ordered pairs (a,d) and (d,a), split across two paths: 0.5 each
	// per direction.
	if !almostEqual(bet["b"], 1.0) {
		t.Errorf("betweenness[b] = %v, want 1.0", bet["b"])
	}
	if !almostEqual(bet["b"], bet["c"]) {
		t.Errorf("symmetric nodes differ: b=%v c=%v", bet["b"], bet["c"])
	}
}

func TestTopScores(t *testing.T) {
	scores := map[string]float64{"a": 1, "b": 3, "c": 3, "d": 0}

	top := TopScores(scores, 3)
	if len(top) != 3 {
		t.Fatalf("got %d entries, want 3", len(top))
	}
	// Ties break ascending by ID.
	if top[0].ID != "b" || top[1].ID != "c" || top[2].ID != "a" {
		t.Errorf("order = %v", top)
	}

	all := TopScores(scores, 0)
	if len(all) != 4 {
		t.Errorf("n=0 should return everything, got %d", len(all))
	}
}
