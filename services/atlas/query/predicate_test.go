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
	"errors"
	"testing"
)

func TestEvaluateSingleConditions(t *testing.T) {
	engine := NewEngine(teamSnapshot(t))
	ctx := context.Background()

	tests := []struct {
		name string
		expr string
		want []string
	}{
		{"type equality", "type=person", []string{"alice", "bob", "carol"}},
		{"label equality ignores case", "label=ALICE", []string{"alice"}},
		{"string property equality ignores case", "team=CORE", []string{"alice", "bob"}},
		{"numeric greater", "age>30", []string{"alice", "carol"}},
		{"numeric less equal", "age<=28", []string{"bob"}},
		{"numeric greater equal boundary", "age>=34", []string{"alice", "carol"}},
		{"numeric equality", "age=41", []string{"carol"}},
		{"unknown field matches nothing", "salary>10", nil},
		{"ordering on non-numeric matches nothing", "team>core", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Evaluate(ctx, tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tt.expr, err)
			}
			assertIDs(t, got, tt.want...)
		})
	}
}

func TestEvaluateAndCombination(t *testing.T) {
	engine := NewEngine(teamSnapshot(t))

	got, err := engine.Evaluate(context.Background(), "type=person AND age>30")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	assertIDs(t, got, "alice", "carol")
}

func TestEvaluateOrIsConjoined(t *testing.T) {
	// OR splits the expression but the clauses still combine
	// conjunctively. "age<30 OR age>40" therefore matches nobody,
	// not bob and carol. Pinned so a behavior change is deliberate.
	engine := NewEngine(teamSnapshot(t))

	got, err := engine.Evaluate(context.Background(), "age<30 OR age>40")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	assertIDs(t, got)

	// Same clauses, same result, regardless of keyword.
	viaAnd, err := engine.Evaluate(context.Background(), "age<30 AND age>40")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(viaAnd) != len(got) {
		t.Errorf("OR result %v differs from AND result %v", ids(got), ids(viaAnd))
	}
}

func TestEvaluateKeywordCaseInsensitive(t *testing.T) {
	engine := NewEngine(teamSnapshot(t))

	got, err := engine.Evaluate(context.Background(), "type=person and age>30")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	assertIDs(t, got, "alice", "carol")
}

func TestEvaluateMalformed(t *testing.T) {
	engine := NewEngine(teamSnapshot(t))
	ctx := context.Background()

	for _, expr := range []string{"", "   ", "no operator here", "=value", "field="} {
		got, err := engine.Evaluate(ctx, expr)
		if !errors.Is(err, ErrMalformedQuery) {
			t.Errorf("Evaluate(%q): got error %v, want ErrMalformedQuery", expr, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("Evaluate(%q): got %v, want empty non-nil result", expr, ids(got))
		}
	}
}

func TestEvaluateSkipsUnparseableClause(t *testing.T) {
	// One bad clause among good ones is dropped, not fatal.
	engine := NewEngine(teamSnapshot(t))

	got, err := engine.Evaluate(context.Background(), "type=person AND garbage")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	assertIDs(t, got, "alice", "bob", "carol")
}

func TestParseClauseOperatorPrecedence(t *testing.T) {
	tests := []struct {
		clause    string
		wantField string
		wantOp    string
		wantValue string
	}{
		{"age>=30", "age", ">=", "30"},
		{"age<=30", "age", "<=", "30"},
		{"age=30", "age", "=", "30"},
		{"age>30", "age", ">", "30"},
		{" team = core ", "team", "=", "core"},
	}
	for _, tt := range tests {
		cond, ok := parseClause(tt.clause)
		if !ok {
			t.Errorf("parseClause(%q) failed", tt.clause)
			continue
		}
		if cond.field != tt.wantField || cond.op != tt.wantOp || cond.value != tt.wantValue {
			t.Errorf("parseClause(%q) = %+v", tt.clause, cond)
		}
	}
}
