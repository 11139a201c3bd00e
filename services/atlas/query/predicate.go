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
	"regexp"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/atlasgraph/services/atlas/graph"
)

// clauseSplit breaks an expression on AND / OR keywords.
var clauseSplit = regexp.MustCompile(`(?i)\s+(?:AND|OR)\s+`)

// operators in scan order. Two-character operators come first so that
// ">=" is not read as ">" followed by "=5".
var operators = []string{"<=", ">=", "=", "<", ">"}

// condition is one parsed "field op value" clause.
type condition struct {
	field string
	op    string
	value string
}

// Evaluate filters nodes with a flat comparison expression.
//
// # Description
//
// An expression is a sequence of "field op value" clauses joined by
// AND or OR, for example:
//
//	type=person AND age>30
//
// field is "label", "type", or a property key. op is one of
// =, >, <, >=, <=. Comparison is numeric when both sides parse as
// numbers, otherwise "=" compares strings ignoring case and ordering
// operators do not match.
//
// Known limitation, kept for compatibility with existing expressions:
// OR is accepted by the splitter but every parsed clause must match,
// exactly as if AND had been written. Clauses that fail to parse are
// skipped; an expression yielding no clause at all returns an empty
// result plus ErrMalformedQuery.
//
// # Outputs
//
//   - []*graph.Node: Matching nodes ascending by ID. Never nil.
//   - error: ErrMalformedQuery with the offending expression.
func (e *Engine) Evaluate(ctx context.Context, expr string) ([]*graph.Node, error) {
	_, span := tracer.Start(ctx, "query.evaluate")
	defer span.End()

	conditions := parseConditions(expr)
	if len(conditions) == 0 {
		span.AddEvent("no parseable conditions")
		return []*graph.Node{}, fmt.Errorf("%w: %q", ErrMalformedQuery, expr)
	}
	span.SetAttributes(attribute.Int("conditions", len(conditions)))

	out := []*graph.Node{}
	for _, n := range e.snap.Nodes() {
		if matchesAll(n, conditions) {
			out = append(out, n)
		}
	}
	return out, nil
}

// parseConditions splits the expression into clauses and parses each
// one, dropping clauses with no operator or an empty side.
func parseConditions(expr string) []condition {
	var out []condition
	for _, clause := range clauseSplit.Split(strings.TrimSpace(expr), -1) {
		cond, ok := parseClause(clause)
		if ok {
			out = append(out, cond)
		}
	}
	return out
}

func parseClause(clause string) (condition, bool) {
	for _, op := range operators {
		idx := strings.Index(clause, op)
		if idx < 0 {
			continue
		}
		cond := condition{
			field: strings.TrimSpace(clause[:idx]),
			op:    op,
			value: strings.TrimSpace(clause[idx+len(op):]),
		}
		if cond.field == "" || cond.value == "" {
			return condition{}, false
		}
		return cond, true
	}
	return condition{}, false
}

func matchesAll(n *graph.Node, conditions []condition) bool {
	for _, cond := range conditions {
		actual, ok := fieldValue(n, cond.field)
		if !ok || !compare(actual, cond.op, cond.value) {
			return false
		}
	}
	return true
}

// fieldValue resolves a condition field against a node. Built-in
// attributes win over same-named properties.
func fieldValue(n *graph.Node, field string) (string, bool) {
	switch strings.ToLower(field) {
	case attrLabel:
		return n.Label, true
	case attrType:
		return n.Type, true
	}
	if v, ok := n.Properties.Get(field); ok {
		return v.String(), true
	}
	return "", false
}

// compare applies one operator. Numeric comparison only when both
// sides parse as floats; otherwise "=" is a case-insensitive string
// match and ordering operators never match.
func compare(actual, op, expected string) bool {
	left, leftErr := strconv.ParseFloat(actual, 64)
	right, rightErr := strconv.ParseFloat(expected, 64)
	if leftErr == nil && rightErr == nil {
		switch op {
		case "=":
			return left == right
		case ">":
			return left > right
		case "<":
			return left < right
		case ">=":
			return left >= right
		case "<=":
			return left <= right
		}
		return false
	}

	if op == "=" {
		return strings.EqualFold(actual, expected)
	}
	return false
}
