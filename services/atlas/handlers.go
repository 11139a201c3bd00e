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
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/atlasgraph/services/atlas/graph"
	"github.com/AleutianAI/atlasgraph/services/atlas/query"
)

// Handlers holds the HTTP handlers for the graph service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers bound to a service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// getOrCreateRequestID returns the inbound X-Request-ID or mints one.
func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// HandleSetData replaces the entire graph.
//
// POST /v1/graph/data
//
// Request: SetDataRequest. Response: 200 SetDataResponse, 400 on a
// malformed body, 422 when the payload fails integrity validation (the
// previous graph stays active).
func (h *Handlers) HandleSetData(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSetData")

	var req SetDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err.Error())
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  CodeInvalidRequest,
		})
		return
	}

	snap, err := h.svc.SetData(c.Request.Context(), req.Nodes, req.Edges)
	if err != nil {
		status, code := http.StatusInternalServerError, CodeInternal
		switch {
		case errors.Is(err, graph.ErrDanglingEdge),
			errors.Is(err, graph.ErrDuplicateNode),
			errors.Is(err, graph.ErrDuplicateEdge),
			errors.Is(err, graph.ErrInvalidNode),
			errors.Is(err, graph.ErrInvalidEdge),
			errors.Is(err, graph.ErrPropertyValue):
			status, code = http.StatusUnprocessableEntity, CodeIntegrity
		}
		logger.Warn("graph load rejected", "error", err.Error())
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	logger.Info("graph loaded",
		"snapshot_id", snap.ID(),
		"nodes", snap.NodeCount(),
		"edges", snap.EdgeCount())
	c.JSON(http.StatusOK, SetDataResponse{
		SnapshotID: snap.ID(),
		NodeCount:  snap.NodeCount(),
		EdgeCount:  snap.EdgeCount(),
	})
}

// HandleStats returns the summary measure bundle.
//
// GET /v1/graph/stats
func (h *Handlers) HandleStats(c *gin.Context) {
	stats := h.svc.Analytics().Statistics(c.Request.Context())
	c.JSON(http.StatusOK, stats)
}

// HandleDegree returns degree centrality.
//
// GET /v1/graph/centrality/degree
func (h *Handlers) HandleDegree(c *gin.Context) {
	scores := h.svc.Analytics().DegreeCentrality(c.Request.Context())
	c.JSON(http.StatusOK, DegreeResponse{Algorithm: "degree", Scores: scores})
}

// HandleCloseness returns closeness centrality.
//
// GET /v1/graph/centrality/closeness?top=N
func (h *Handlers) HandleCloseness(c *gin.Context) {
	scores := h.svc.Analytics().ClosenessCentrality(c.Request.Context())
	c.JSON(http.StatusOK, scoresResponse("closeness", scores, c))
}

// HandleBetweenness returns betweenness centrality.
//
// GET /v1/graph/centrality/betweenness?top=N
func (h *Handlers) HandleBetweenness(c *gin.Context) {
	scores := h.svc.Analytics().BetweennessCentrality(c.Request.Context())
	c.JSON(http.StatusOK, scoresResponse("betweenness", scores, c))
}

// HandleEigenvector returns eigenvector centrality.
//
// GET /v1/graph/centrality/eigenvector?iterations=N&tolerance=F
//
// Hitting the iteration cap is not an error: the response reports
// converged=false alongside the best-effort scores.
func (h *Handlers) HandleEigenvector(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleEigenvector")

	opts, err := h.eigenvectorOptions(c)
	if err != nil {
		logger.Warn("invalid parameters", "error", err.Error())
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidRequest})
		return
	}

	result, err := h.svc.Analytics().EigenvectorCentrality(c.Request.Context(), opts)
	if err != nil {
		if errors.Is(err, graph.ErrInvalidOptions) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidRequest})
			return
		}
		logger.Error("eigenvector centrality failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeInternal})
		return
	}
	c.JSON(http.StatusOK, EigenvectorResponse{Algorithm: "eigenvector", EigenvectorResult: result})
}

func (h *Handlers) eigenvectorOptions(c *gin.Context) (graph.EigenvectorOptions, error) {
	opts := h.svc.Config().Eigenvector
	if raw := c.Query("iterations"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return opts, errors.New("iterations must be an integer")
		}
		opts.MaxIterations = n
	}
	if raw := c.Query("tolerance"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, errors.New("tolerance must be a number")
		}
		opts.Tolerance = f
	}
	return opts, nil
}

// HandleCentralityBundle returns all four centrality measures,
// computed concurrently.
//
// GET /v1/graph/centrality
func (h *Handlers) HandleCentralityBundle(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCentralityBundle")

	report, err := h.svc.Analytics().CentralityBundle(c.Request.Context(), h.svc.Config().Eigenvector)
	if err != nil {
		logger.Error("centrality bundle failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeInternal})
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleCommunities returns the detected community partition.
//
// GET /v1/graph/communities
func (h *Handlers) HandleCommunities(c *gin.Context) {
	result := h.svc.Analytics().DetectCommunities(c.Request.Context())
	c.JSON(http.StatusOK, result)
}

// HandleModularity scores a caller-supplied partition.
//
// POST /v1/graph/modularity
func (h *Handlers) HandleModularity(c *gin.Context) {
	var req ModularityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  CodeInvalidRequest,
		})
		return
	}
	score := h.svc.Analytics().Modularity(c.Request.Context(), req.Assignments)
	c.JSON(http.StatusOK, ModularityResponse{Modularity: score})
}

// HandleClustering returns per-node clustering coefficients.
//
// GET /v1/graph/clustering
func (h *Handlers) HandleClustering(c *gin.Context) {
	coeffs := h.svc.Analytics().ClusteringCoefficients(c.Request.Context())
	c.JSON(http.StatusOK, ScoresResponse{Algorithm: "clustering", Scores: coeffs})
}

// HandleSearchLabel looks nodes up by exact label, ignoring case.
//
// GET /v1/graph/search/label?value=X
func (h *Handlers) HandleSearchLabel(c *gin.Context) {
	nodes := h.svc.Query().ByLabel(c.Request.Context(), c.Query("value"))
	c.JSON(http.StatusOK, NodesResponse{Count: len(nodes), Nodes: nodes})
}

// HandleSearchType looks nodes up by exact type, ignoring case.
//
// GET /v1/graph/search/type?value=X
func (h *Handlers) HandleSearchType(c *gin.Context) {
	nodes := h.svc.Query().ByType(c.Request.Context(), c.Query("value"))
	c.JSON(http.StatusOK, NodesResponse{Count: len(nodes), Nodes: nodes})
}

// HandleSearchProperty looks nodes up by property key and value.
//
// GET /v1/graph/search/property?key=K&value=V
func (h *Handlers) HandleSearchProperty(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "key is required", Code: CodeInvalidRequest})
		return
	}
	nodes := h.svc.Query().ByProperty(c.Request.Context(), key, c.Query("value"))
	c.JSON(http.StatusOK, NodesResponse{Count: len(nodes), Nodes: nodes})
}

// HandleSearchFuzzy scans for nodes containing the text.
//
// GET /v1/graph/search/fuzzy?q=text
func (h *Handlers) HandleSearchFuzzy(c *gin.Context) {
	nodes := h.svc.Query().Fuzzy(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, NodesResponse{Count: len(nodes), Nodes: nodes})
}

// HandlePaths enumerates simple paths between two nodes.
//
// GET /v1/graph/paths?from=A&to=B&max_depth=N
//
// max_depth defaults to the configured limit and is clamped to it.
func (h *Handlers) HandlePaths(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandlePaths")

	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from and to are required", Code: CodeInvalidRequest})
		return
	}

	maxDepth := h.svc.Config().MaxPathDepth
	if raw := c.Query("max_depth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "max_depth must be an integer", Code: CodeInvalidRequest})
			return
		}
		if n < maxDepth {
			maxDepth = n
		}
	}

	paths, err := h.svc.Query().Paths(c.Request.Context(), from, to, maxDepth)
	if err != nil {
		h.respondQueryError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, PathsResponse{Count: len(paths), Paths: paths})
}

// HandleNeighbors expands the neighborhood around a node.
//
// GET /v1/graph/neighbors?center=A&depth=N
func (h *Handlers) HandleNeighbors(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleNeighbors")

	center := c.Query("center")
	if center == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "center is required", Code: CodeInvalidRequest})
		return
	}
	depth := 1
	if raw := c.Query("depth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "depth must be an integer", Code: CodeInvalidRequest})
			return
		}
		depth = n
	}

	nodes, err := h.svc.Query().Neighborhood(c.Request.Context(), center, depth)
	if err != nil {
		h.respondQueryError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, NodesResponse{Count: len(nodes), Nodes: nodes})
}

// HandleQuery evaluates a filter expression.
//
// POST /v1/graph/query
//
// A malformed expression returns 400 with MALFORMED_QUERY; partial
// expressions evaluate their parseable clauses.
func (h *Handlers) HandleQuery(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleQuery")

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  CodeInvalidRequest,
		})
		return
	}

	nodes, err := h.svc.Query().Evaluate(c.Request.Context(), req.Query)
	if err != nil {
		h.respondQueryError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, NodesResponse{Count: len(nodes), Nodes: nodes})
}

// HandleHealth reports liveness.
//
// GET /v1/graph/health
func (h *Handlers) HandleHealth(c *gin.Context) {
	snap := h.svc.Snapshot()
	c.JSON(http.StatusOK, HealthResponse{
		Status:     "ok",
		SnapshotID: snap.ID(),
		NodeCount:  snap.NodeCount(),
		EdgeCount:  snap.EdgeCount(),
	})
}

// HandleReady reports readiness. The service is ready as soon as the
// store exists; an empty graph is a valid serving state.
//
// GET /v1/graph/ready
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ready": true})
}

// respondQueryError maps query errors to HTTP status codes.
func (h *Handlers) respondQueryError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, query.ErrUnknownNode):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeNodeNotFound})
	case errors.Is(err, query.ErrMalformedQuery):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeMalformedQuery})
	case errors.Is(err, query.ErrDepthNegative):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidRequest})
	default:
		logger.Error("query failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeInternal})
	}
}

// scoresResponse builds a ScoresResponse honoring the optional ?top=N
// parameter.
func scoresResponse(algorithm string, scores map[string]float64, c *gin.Context) ScoresResponse {
	resp := ScoresResponse{Algorithm: algorithm, Scores: scores}
	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			n = DefaultTopScores
		}
		resp.Top = graph.TopScores(scores, n)
	}
	return resp
}
