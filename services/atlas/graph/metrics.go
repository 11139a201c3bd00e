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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("atlas.graph")
	meter  = otel.Meter("atlas.graph")

	metricsOnce sync.Once

	buildDuration     metric.Float64Histogram
	buildFailures     metric.Int64Counter
	analyticsDuration metric.Float64Histogram
)

// initMetrics lazily creates the package instruments. Errors leave the
// instrument nil and recording becomes a no-op.
func initMetrics() {
	metricsOnce.Do(func() {
		var err error
		buildDuration, err = meter.Float64Histogram(
			"atlas.graph.build.duration",
			metric.WithDescription("Snapshot build duration in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			buildDuration = nil
		}
		buildFailures, err = meter.Int64Counter(
			"atlas.graph.build.failures",
			metric.WithDescription("Rejected snapshot payloads"),
		)
		if err != nil {
			buildFailures = nil
		}
		analyticsDuration, err = meter.Float64Histogram(
			"atlas.graph.analytics.duration",
			metric.WithDescription("Analytics algorithm duration in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			analyticsDuration = nil
		}
	})
}

// recordBuild records a snapshot build outcome.
func recordBuild(ctx context.Context, elapsed time.Duration, nodeCount, edgeCount int, err error) {
	initMetrics()
	if err != nil {
		if buildFailures != nil {
			buildFailures.Add(ctx, 1)
		}
		return
	}
	if buildDuration != nil {
		buildDuration.Record(ctx, elapsed.Seconds(),
			metric.WithAttributes(
				attribute.Int("node_count", nodeCount),
				attribute.Int("edge_count", edgeCount),
			))
	}
}

// startAnalyticsSpan opens a span for one analytics algorithm and
// returns a completion func that records the duration histogram.
func startAnalyticsSpan(ctx context.Context, algorithm string, snap *Snapshot) (context.Context, trace.Span, func()) {
	initMetrics()
	ctx, span := tracer.Start(ctx, "graph."+algorithm,
		trace.WithAttributes(
			attribute.String("algorithm", algorithm),
			attribute.Int("node_count", snap.NodeCount()),
			attribute.Int("edge_count", snap.EdgeCount()),
		))
	start := time.Now()
	return ctx, span, func() {
		if analyticsDuration != nil {
			analyticsDuration.Record(ctx, time.Since(start).Seconds(),
				metric.WithAttributes(attribute.String("algorithm", algorithm)))
		}
	}
}
