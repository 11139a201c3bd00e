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
	"errors"
	"sync"
	"testing"
)

func TestNewStoreStartsEmpty(t *testing.T) {
	store := NewStore()
	snap := store.Snapshot()
	if snap == nil {
		t.Fatal("Snapshot returned nil")
	}
	if snap.NodeCount() != 0 || snap.EdgeCount() != 0 {
		t.Errorf("empty store has %d nodes, %d edges", snap.NodeCount(), snap.EdgeCount())
	}
}

func TestSetDataReplacesWholeGraph(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first, err := store.SetData(ctx,
		[]*Node{testNode("a"), testNode("b")},
		[]*Edge{testEdge("a", "b")})
	if err != nil {
		t.Fatalf("first SetData: %v", err)
	}

	second, err := store.SetData(ctx, []*Node{testNode("c")}, nil)
	if err != nil {
		t.Fatalf("second SetData: %v", err)
	}
	if second.ID() == first.ID() {
		t.Error("replacement snapshot reused the previous ID")
	}

	active := store.Snapshot()
	if active.HasNode("a") {
		t.Error("old nodes survived replacement")
	}
	if !active.HasNode("c") {
		t.Error("new node missing after replacement")
	}
	// The captured first generation is still intact.
	if !first.HasNode("a") {
		t.Error("captured snapshot lost its nodes")
	}
}

func TestSetDataRejectionKeepsActiveSnapshot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if _, err := store.SetData(ctx, []*Node{testNode("a")}, nil); err != nil {
		t.Fatalf("seed SetData: %v", err)
	}
	before := store.Snapshot()

	_, err := store.SetData(ctx,
		[]*Node{testNode("b")},
		[]*Edge{testEdge("b", "ghost")})
	if !errors.Is(err, ErrDanglingEdge) {
		t.Fatalf("got error %v, want ErrDanglingEdge", err)
	}

	after := store.Snapshot()
	if after.ID() != before.ID() {
		t.Error("rejected payload replaced the active snapshot")
	}
	if !after.HasNode("a") {
		t.Error("active snapshot lost nodes after rejection")
	}
}

func TestSetDataCancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.SetData(ctx, []*Node{testNode("a")}, nil)
	if !errors.Is(err, ErrBuildCancelled) {
		t.Fatalf("got error %v, want ErrBuildCancelled", err)
	}
}

func TestStoreConcurrentReadersAndWriters(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = store.SetData(ctx,
					[]*Node{testNode("a"), testNode("b")},
					[]*Edge{testEdge("a", "b")})
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := store.Snapshot()
				// A captured generation is internally consistent.
				if snap.NodeCount() == 2 && snap.PairCount() != 1 {
					t.Error("inconsistent snapshot observed")
					return
				}
			}
		}()
	}
	wg.Wait()
}
