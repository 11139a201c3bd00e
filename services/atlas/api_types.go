// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package atlas

import (
	"github.com/AleutianAI/atlasgraph/services/atlas/graph"
	"github.com/AleutianAI/atlasgraph/services/atlas/query"
)

// ErrorResponse is the error body for all endpoints.
type ErrorResponse struct {
	// Error is the human-readable message.
	Error string `json:"error"`

	// Code is the machine-readable error code.
	Code string `json:"code"`
}

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeIntegrity      = "INTEGRITY_VIOLATION"
	CodeNodeNotFound   = "NODE_NOT_FOUND"
	CodeMalformedQuery = "MALFORMED_QUERY"
	CodeInternal       = "INTERNAL_ERROR"
)

// SetDataRequest replaces the whole graph.
type SetDataRequest struct {
	Nodes []*graph.Node `json:"nodes" binding:"required"`
	Edges []*graph.Edge `json:"edges"`
}

// SetDataResponse reports the activated snapshot.
type SetDataResponse struct {
	SnapshotID string `json:"snapshot_id"`
	NodeCount  int    `json:"node_count"`
	EdgeCount  int    `json:"edge_count"`
}

// ScoresResponse carries one float-valued centrality measure.
type ScoresResponse struct {
	Algorithm string             `json:"algorithm"`
	Scores    map[string]float64 `json:"scores"`

	// Top holds the highest scorers when the request asked for them.
	Top []graph.ScoredNode `json:"top,omitempty"`
}

// DegreeResponse carries the integer degree measure.
type DegreeResponse struct {
	Algorithm string         `json:"algorithm"`
	Scores    map[string]int `json:"scores"`
}

// EigenvectorResponse wraps the eigenvector result with its
// convergence report.
type EigenvectorResponse struct {
	Algorithm string `json:"algorithm"`
	*graph.EigenvectorResult
}

// ModularityRequest scores a caller-supplied partition.
type ModularityRequest struct {
	Assignments map[string]int `json:"assignments" binding:"required"`
}

// ModularityResponse is the partition score.
type ModularityResponse struct {
	Modularity float64 `json:"modularity"`
}

// NodesResponse is the shared shape for node-list results.
type NodesResponse struct {
	Count int           `json:"count"`
	Nodes []*graph.Node `json:"nodes"`
}

// PathsResponse lists simple paths as edge sequences.
type PathsResponse struct {
	Count int          `json:"count"`
	Paths []query.Path `json:"paths"`
}

// QueryRequest evaluates a filter expression.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// HealthResponse reports liveness plus the active snapshot.
type HealthResponse struct {
	Status     string `json:"status"`
	SnapshotID string `json:"snapshot_id"`
	NodeCount  int    `json:"node_count"`
	EdgeCount  int    `json:"edge_count"`
}
