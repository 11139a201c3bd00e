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
	"testing"

	"github.com/AleutianAI/atlasgraph/services/atlas/graph"
)

// teamSnapshot builds the fixture shared by the query tests:
//
//	alice (person, team=core, age=34)
//	bob   (person, team=core, age=28)
//	carol (person, team=infra, age=41)
//	wiki  (document, topic=onboarding)
//
//	alice -> bob -> carol, alice -> wiki
func teamSnapshot(t *testing.T) *graph.Snapshot {
	t.Helper()
	nodes := []*graph.Node{
		{
			ID: "alice", Label: "Alice", Type: "person",
			Properties: graph.Properties{
				{Key: "team", Value: graph.StringValue("Core")},
				{Key: "age", Value: graph.NumberValue(34)},
			},
		},
		{
			ID: "bob", Label: "Bob", Type: "person",
			Properties: graph.Properties{
				{Key: "team", Value: graph.StringValue("core")},
				{Key: "age", Value: graph.NumberValue(28)},
			},
		},
		{
			ID: "carol", Label: "Carol", Type: "person",
			Properties: graph.Properties{
				{Key: "team", Value: graph.StringValue("Infra")},
				{Key: "age", Value: graph.NumberValue(41)},
			},
		},
		{
			ID: "wiki", Label: "Onboarding Wiki", Type: "document",
			Properties: graph.Properties{
				{Key: "topic", Value: graph.StringValue("onboarding")},
			},
		},
	}
	edges := []*graph.Edge{
		{Source: "alice", Target: "bob", Label: "knows"},
		{Source: "bob", Target: "carol", Label: "knows"},
		{Source: "alice", Target: "wiki", Label: "wrote"},
	}
	snap, err := graph.NewSnapshot(nodes, edges)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return snap
}

func ids(nodes []*graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func assertIDs(t *testing.T, got []*graph.Node, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestByLabelCaseInsensitive(t *testing.T) {
	engine := NewEngine(teamSnapshot(t))
	ctx := context.Background()

	assertIDs(t, engine.ByLabel(ctx, "alice"), "alice")
	assertIDs(t, engine.ByLabel(ctx, "ALICE"), "alice")
	assertIDs(t, engine.ByLabel(ctx, "nobody"))
}

func TestByTypeReturnsSortedMatches(t *testing.T) {
	engine := NewEngine(teamSnapshot(t))

	assertIDs(t, engine.ByType(context.Background(), "Person"), "alice", "bob", "carol")
	assertIDs(t, engine.ByType(context.Background(), "document"), "wiki")
}

func TestByProperty(t *testing.T) {
	engine := NewEngine(teamSnapshot(t))
	ctx := context.Background()

	// Values fold to lower case on both sides.
	assertIDs(t, engine.ByProperty(ctx, "team", "CORE"), "alice", "bob")
	assertIDs(t, engine.ByProperty(ctx, "age", "34"), "alice")
	assertIDs(t, engine.ByProperty(ctx, "missing", "x"))
}

func TestByLabelRoundTrip(t *testing.T) {
	snap := teamSnapshot(t)
	engine := NewEngine(snap)

	// Every node is findable by its own label.
	for _, n := range snap.Nodes() {
		matches := engine.ByLabel(context.Background(), n.Label)
		found := false
		for _, m := range matches {
			if m.ID == n.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("node %s not found by its label %q", n.ID, n.Label)
		}
	}
}

func TestFuzzy(t *testing.T) {
	engine := NewEngine(teamSnapshot(t))
	ctx := context.Background()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"label substring", "ali", []string{"alice"}},
		{"case insensitive", "ONBOARD", []string{"wiki"}},
		{"property value", "infra", []string{"carol"}},
		{"shared property value", "core", []string{"alice", "bob"}},
		{"id substring", "wik", []string{"wiki"}},
		{"no match", "zzz", nil},
		{"empty text", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertIDs(t, engine.Fuzzy(ctx, tt.text), tt.want...)
		})
	}
}

func TestEdgesByLabel(t *testing.T) {
	engine := NewEngine(teamSnapshot(t))

	edges := engine.EdgesByLabel(context.Background(), "KNOWS")
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}
	if edges[0].Source != "alice" || edges[1].Source != "bob" {
		t.Errorf("unexpected edge order: %v -> %v", edges[0].Source, edges[1].Source)
	}
}
