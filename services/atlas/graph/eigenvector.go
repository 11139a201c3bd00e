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
	"log/slog"
	"math"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// DefaultEigenvectorIterations caps the power iteration.
	DefaultEigenvectorIterations = 100

	// DefaultEigenvectorTolerance is the L1 convergence threshold.
	DefaultEigenvectorTolerance = 1e-6
)

// EigenvectorOptions configures the power iteration.
type EigenvectorOptions struct {
	// MaxIterations caps the iteration count.
	// Default: DefaultEigenvectorIterations. Must be positive.
	MaxIterations int

	// Tolerance stops iteration when the L1 change between rounds
	// drops below it. Default: DefaultEigenvectorTolerance.
	// Must be positive.
	Tolerance float64
}

// Validate applies defaults for zero values and rejects negatives.
func (o *EigenvectorOptions) Validate() error {
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultEigenvectorIterations
	}
	if o.MaxIterations < 0 {
		return errInvalidOption("MaxIterations must be positive")
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultEigenvectorTolerance
	}
	if o.Tolerance < 0 {
		return errInvalidOption("Tolerance must be positive")
	}
	return nil
}

// DefaultEigenvectorOptions returns the standard configuration.
func DefaultEigenvectorOptions() EigenvectorOptions {
	return EigenvectorOptions{
		MaxIterations: DefaultEigenvectorIterations,
		Tolerance:     DefaultEigenvectorTolerance,
	}
}

// EigenvectorResult carries eigenvector scores plus convergence info.
type EigenvectorResult struct {
	// Scores maps node ID to eigenvector centrality. The vector is
	// L2-normalized. Isolated nodes score 0.
	Scores map[string]float64 `json:"scores"`

	// Iterations is the number of rounds actually executed.
	Iterations int `json:"iterations"`

	// Converged is false when the iteration cap was reached before
	// the tolerance was met. Scores are still the best effort from
	// the final round.
	Converged bool `json:"converged"`
}

// EigenvectorCentrality computes eigenvector centrality by power
// iteration.
//
// # Description
//
// Starts from a uniform vector. Each round assigns every node the sum
// of its neighbors' current scores, then L2-normalizes. Iteration
// stops when the L1 difference between consecutive normalized vectors
// drops below the tolerance, or at the iteration cap. Hitting the cap
// is informational, not an error: the result reports Converged=false
// and keeps the final vector.
//
// A graph whose round produces an all-zero vector (no edges) returns
// all-zero scores immediately.
//
// # Complexity
//
// O(iterations * (N + E)).
func (a *Analytics) EigenvectorCentrality(ctx context.Context, opts EigenvectorOptions) (*EigenvectorResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ctx, span, done := startAnalyticsSpan(ctx, "eigenvector", a.snap)
	defer span.End()
	defer done()

	ids := a.snap.NodeIDs()
	result := &EigenvectorResult{Scores: make(map[string]float64, len(ids))}
	if len(ids) == 0 {
		span.AddEvent("empty graph")
		result.Converged = true
		return result, nil
	}

	scores := make(map[string]float64, len(ids))
	next := make(map[string]float64, len(ids))
	for _, id := range ids {
		scores[id] = 1
	}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, ErrBuildCancelled
		}
		result.Iterations = iter + 1

		var norm float64
		for _, id := range ids {
			sum := 0.0
			for _, neighbor := range a.snap.Neighbors(id) {
				sum += scores[neighbor]
			}
			next[id] = sum
			norm += sum * sum
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			// Edgeless graph: the fixed point is the zero vector.
			for _, id := range ids {
				result.Scores[id] = 0
			}
			result.Converged = true
			span.AddEvent("zero vector")
			return result, nil
		}

		var diff float64
		for _, id := range ids {
			next[id] /= norm
			diff += math.Abs(next[id] - scores[id])
		}
		scores, next = next, scores

		if diff < opts.Tolerance {
			result.Converged = true
			break
		}
	}

	for _, id := range ids {
		result.Scores[id] = scores[id]
	}

	span.SetAttributes(
		attribute.Int("iterations", result.Iterations),
		attribute.Bool("converged", result.Converged),
	)
	if !result.Converged {
		slog.Debug("eigenvector centrality hit iteration cap",
			slog.Int("iterations", result.Iterations),
			slog.Float64("tolerance", opts.Tolerance))
	}
	return result, nil
}
