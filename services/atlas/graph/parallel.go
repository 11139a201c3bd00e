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
	"time"

	"golang.org/x/sync/errgroup"
)

// CentralityReport bundles all four centrality measures over one
// snapshot.
type CentralityReport struct {
	Degree      map[string]int     `json:"degree"`
	Closeness   map[string]float64 `json:"closeness"`
	Betweenness map[string]float64 `json:"betweenness"`
	Eigenvector *EigenvectorResult `json:"eigenvector"`

	// ElapsedMillis is the wall time for the whole bundle.
	ElapsedMillis int64 `json:"elapsed_ms"`
}

// CentralityBundle computes all four centrality measures concurrently.
//
// # Description
//
// Degree, closeness, betweenness, and eigenvector run in their own
// goroutines; each writes only its own result field, so no locking is
// needed. The first error (cancellation or invalid options) aborts the
// bundle.
//
// # Thread Safety
//
// Safe. The snapshot is read-only and each goroutine owns its output.
func (a *Analytics) CentralityBundle(ctx context.Context, opts EigenvectorOptions) (*CentralityReport, error) {
	ctx, span, done := startAnalyticsSpan(ctx, "centrality_bundle", a.snap)
	defer span.End()
	defer done()

	start := time.Now()
	report := &CentralityReport{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Degree = a.DegreeCentrality(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		report.Closeness = a.ClosenessCentrality(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		report.Betweenness = a.BetweennessCentrality(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		eig, err := a.EigenvectorCentrality(gctx, opts)
		if err != nil {
			return err
		}
		report.Eigenvector = eig
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.ElapsedMillis = time.Since(start).Milliseconds()
	return report, nil
}
