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

func TestClusteringCoefficients(t *testing.T) {
	// Triangle a-b-c plus pendant d on c and isolated e.
	snap := mustSnapshot(t,
		[]*Node{
			testNode("a"), testNode("b"), testNode("c"),
			testNode("d"), testNode("e"),
		},
		[]*Edge{
			testEdge("a", "b"), testEdge("b", "c"),
			testEdge("c", "a"), testEdge("c", "d"),
		})
	coeffs := NewAnalytics(snap).ClusteringCoefficients(context.Background())

	tests := []struct {
		id   string
		want float64
	}{
		{"a", 1.0},       // both neighbors connected
		{"b", 1.0},       // both neighbors connected
		{"c", 1.0 / 3.0}, // one of three neighbor pairs linked
		{"d", 0},         // degree 1
		{"e", 0},         // isolated
	}
	for _, tt := range tests {
		if !almostEqual(coeffs[tt.id], tt.want) {
			t.Errorf("clustering[%s] = %v, want %v", tt.id, coeffs[tt.id], tt.want)
		}
	}
}

func TestPathStatisticsFiveCycle(t *testing.T) {
	snap := cycleSnapshot(t, "n1", "n2", "n3", "n4", "n5")
	stats := NewAnalytics(snap).PathStatistics(context.Background())

	if stats.Diameter != 2 {
		t.Errorf("diameter = %d, want 2", stats.Diameter)
	}
	if stats.ReachablePairs != 20 {
		t.Errorf("reachable pairs = %d, want 20", stats.ReachablePairs)
	}
	if !almostEqual(stats.AveragePathLength, 1.5) {
		t.Errorf("average path length = %v, want 1.5", stats.AveragePathLength)
	}
	if stats.Histogram[1] != 10 || stats.Histogram[2] != 10 {
		t.Errorf("histogram = %v, want 10 pairs at each distance", stats.Histogram)
	}
}

func TestPathStatisticsDisconnected(t *testing.T) {
	snap := mustSnapshot(t,
		[]*Node{testNode("a"), testNode("b"), testNode("x"), testNode("y")},
		[]*Edge{testEdge("a", "b"), testEdge("x", "y")})
	stats := NewAnalytics(snap).PathStatistics(context.Background())

	// Only connected pairs count; nothing crosses components.
	if stats.ReachablePairs != 4 {
		t.Errorf("reachable pairs = %d, want 4", stats.ReachablePairs)
	}
	if stats.Diameter != 1 {
		t.Errorf("diameter = %d, want 1", stats.Diameter)
	}
}

func TestStatisticsFiveCycle(t *testing.T) {
	snap := cycleSnapshot(t, "n1", "n2", "n3", "n4", "n5")
	stats := NewAnalytics(snap).Statistics(context.Background())

	if stats.NodeCount != 5 || stats.EdgeCount != 5 {
		t.Errorf("counts = %d/%d, want 5/5", stats.NodeCount, stats.EdgeCount)
	}
	if !almostEqual(stats.Density, 0.5) {
		t.Errorf("density = %v, want 0.5", stats.Density)
	}
	if !almostEqual(stats.AverageDegree, 2.0) {
		t.Errorf("average degree = %v, want 2", stats.AverageDegree)
	}
	if stats.Diameter != 2 {
		t.Errorf("diameter = %d, want 2", stats.Diameter)
	}
	if !almostEqual(stats.AveragePathLength, 1.5) {
		t.Errorf("average path length = %v, want 1.5", stats.AveragePathLength)
	}
	if stats.Clustering != 0 {
		t.Errorf("clustering = %v, want 0", stats.Clustering)
	}
	if stats.Components != 1 {
		t.Errorf("components = %d, want 1", stats.Components)
	}
}

func TestStatisticsEmptyGraph(t *testing.T) {
	snap := mustSnapshot(t, nil, nil)
	stats := NewAnalytics(snap).Statistics(context.Background())

	if stats != (Stats{}) {
		t.Errorf("empty graph stats = %+v, want zero value", stats)
	}
}

func TestStatisticsSingleNode(t *testing.T) {
	snap := mustSnapshot(t, []*Node{testNode("only")}, nil)
	stats := NewAnalytics(snap).Statistics(context.Background())

	if stats.Density != 0 {
		t.Errorf("density = %v, want 0", stats.Density)
	}
	if stats.Components != 1 {
		t.Errorf("components = %d, want 1", stats.Components)
	}
}

func TestConnectedComponents(t *testing.T) {
	snap := mustSnapshot(t,
		[]*Node{
			testNode("a"), testNode("b"), testNode("c"),
			testNode("x"), testNode("lonely"),
		},
		[]*Edge{testEdge("a", "b"), testEdge("b", "c")})

	got := NewAnalytics(snap).ConnectedComponents(context.Background())
	if got != 3 {
		t.Errorf("components = %d, want 3", got)
	}
}

func TestCentralityBundle(t *testing.T) {
	snap := orgChartSnapshot(t)
	report, err := NewAnalytics(snap).CentralityBundle(context.Background(), EigenvectorOptions{})
	if err != nil {
		t.Fatalf("CentralityBundle: %v", err)
	}

	if len(report.Degree) != snap.NodeCount() {
		t.Errorf("degree entries = %d, want %d", len(report.Degree), snap.NodeCount())
	}
	if len(report.Closeness) != snap.NodeCount() {
		t.Errorf("closeness entries = %d, want %d", len(report.Closeness), snap.NodeCount())
	}
	if len(report.Betweenness) != snap.NodeCount() {
		t.Errorf("betweenness entries = %d, want %d", len(report.Betweenness), snap.NodeCount())
	}
	if report.Eigenvector == nil || len(report.Eigenvector.Scores) != snap.NodeCount() {
		t.Error("eigenvector result missing entries")
	}

	// Bundle results match the standalone algorithms.
	direct := NewAnalytics(snap).BetweennessCentrality(context.Background())
	for id, want := range direct {
		if !almostEqual(report.Betweenness[id], want) {
			t.Errorf("bundle betweenness[%s] = %v, want %v", id, report.Betweenness[id], want)
		}
	}
}

func TestCentralityBundleInvalidOptions(t *testing.T) {
	snap := orgChartSnapshot(t)
	_, err := NewAnalytics(snap).CentralityBundle(context.Background(),
		EigenvectorOptions{MaxIterations: -5})
	if err == nil {
		t.Fatal("expected options error")
	}
}
