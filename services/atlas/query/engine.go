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
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/atlasgraph/services/atlas/graph"
)

var tracer = otel.Tracer("atlas.query")

// Reserved attribute keys in the node index. Node properties with
// these keys would shadow the built-in attributes, so they are indexed
// as-is and the built-in wins on lookup order.
const (
	attrLabel = "label"
	attrType  = "type"
)

// Engine answers lookups over one snapshot.
//
// # Description
//
// The engine maintains inverted indexes of the form
//
//	attribute key -> folded value -> nodes (ascending ID)
//
// covering label, type, and every property key. Values are folded to
// lower case once at build time, so all exact lookups are
// case-insensitive O(1) map hits.
//
// # Thread Safety
//
// Immutable after NewEngine returns. Safe for concurrent use.
type Engine struct {
	snap  *graph.Snapshot
	nodes map[string]map[string][]*graph.Node
	edges map[string][]*graph.Edge
}

// NewEngine builds the indexes for a snapshot.
//
// # Complexity
//
// O(N * P + E) where P is properties per node.
func NewEngine(snap *graph.Snapshot) *Engine {
	e := &Engine{
		snap:  snap,
		nodes: make(map[string]map[string][]*graph.Node),
		edges: make(map[string][]*graph.Edge),
	}

	for _, n := range snap.Nodes() {
		e.indexNode(attrLabel, n.Label, n)
		e.indexNode(attrType, n.Type, n)
		for _, prop := range n.Properties {
			e.indexNode(prop.Key, prop.Value.Fold(), n)
		}
	}
	for _, edge := range snap.Edges() {
		key := strings.ToLower(edge.Label)
		e.edges[key] = append(e.edges[key], edge)
	}
	return e
}

func (e *Engine) indexNode(key, value string, n *graph.Node) {
	byValue, ok := e.nodes[key]
	if !ok {
		byValue = make(map[string][]*graph.Node)
		e.nodes[key] = byValue
	}
	folded := strings.ToLower(value)
	// Nodes are indexed in ascending ID order, so each posting list
	// is born sorted.
	byValue[folded] = append(byValue[folded], n)
}

// Snapshot returns the snapshot this engine indexes.
func (e *Engine) Snapshot() *graph.Snapshot { return e.snap }

// ByLabel returns all nodes whose label matches, ignoring case.
// Unknown labels return an empty slice.
func (e *Engine) ByLabel(ctx context.Context, label string) []*graph.Node {
	return e.lookup(ctx, attrLabel, label)
}

// ByType returns all nodes of the given type, ignoring case.
func (e *Engine) ByType(ctx context.Context, nodeType string) []*graph.Node {
	return e.lookup(ctx, attrType, nodeType)
}

// ByProperty returns all nodes carrying the property key with the
// given value, compared case-insensitively against the value's
// canonical text form.
func (e *Engine) ByProperty(ctx context.Context, key, value string) []*graph.Node {
	return e.lookup(ctx, key, value)
}

func (e *Engine) lookup(ctx context.Context, key, value string) []*graph.Node {
	_, span := tracer.Start(ctx, "query.lookup")
	defer span.End()

	byValue, ok := e.nodes[key]
	if !ok {
		return []*graph.Node{}
	}
	matches := byValue[strings.ToLower(value)]
	span.SetAttributes(
		attribute.String("key", key),
		attribute.Int("matches", len(matches)),
	)

	out := make([]*graph.Node, len(matches))
	copy(out, matches)
	return out
}

// EdgesByLabel returns all edges with the given label, ignoring case,
// in payload order.
func (e *Engine) EdgesByLabel(ctx context.Context, label string) []*graph.Edge {
	matches := e.edges[strings.ToLower(label)]
	out := make([]*graph.Edge, len(matches))
	copy(out, matches)
	return out
}

// Fuzzy returns nodes whose ID, label, or any property value contains
// the text, ignoring case.
//
// # Description
//
// This is a full scan in ascending ID order; there is no substring
// index. Empty search text matches nothing.
//
// # Complexity
//
// O(N * P).
func (e *Engine) Fuzzy(ctx context.Context, text string) []*graph.Node {
	_, span := tracer.Start(ctx, "query.fuzzy")
	defer span.End()

	out := []*graph.Node{}
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return out
	}

	for _, n := range e.snap.Nodes() {
		if fuzzyMatches(n, needle) {
			out = append(out, n)
		}
	}
	span.SetAttributes(attribute.Int("matches", len(out)))
	return out
}

func fuzzyMatches(n *graph.Node, needle string) bool {
	if strings.Contains(strings.ToLower(n.ID), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Label), needle) {
		return true
	}
	for _, prop := range n.Properties {
		if strings.Contains(prop.Value.Fold(), needle) {
			return true
		}
	}
	return false
}
