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

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the graph endpoints onto a router group.
//
// # Description
//
// Registers all graph service endpoints under rg:
//
//	POST /graph/data                     - replace the whole graph
//	GET  /graph/stats                    - summary measure bundle
//	GET  /graph/centrality               - all centrality measures at once
//	GET  /graph/centrality/degree        - degree centrality
//	GET  /graph/centrality/closeness     - closeness centrality
//	GET  /graph/centrality/betweenness   - betweenness centrality
//	GET  /graph/centrality/eigenvector   - eigenvector centrality
//	GET  /graph/communities              - detected community partition
//	POST /graph/modularity               - score a supplied partition
//	GET  /graph/clustering               - per-node clustering coefficients
//	GET  /graph/search/label             - exact label lookup
//	GET  /graph/search/type              - exact type lookup
//	GET  /graph/search/property          - property key/value lookup
//	GET  /graph/search/fuzzy             - substring scan
//	GET  /graph/paths                    - simple path enumeration
//	GET  /graph/neighbors                - bounded neighborhood expansion
//	POST /graph/query                    - filter expression evaluation
//	GET  /graph/health                   - liveness plus snapshot identity
//	GET  /graph/ready                    - readiness
//
// # Inputs
//
//   - rg: router group to mount under (typically /v1)
//   - handlers: the handler set to register
//
// # Thread Safety
//
// Not safe for concurrent use. Call once during startup.
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	g := rg.Group("/graph")
	{
		g.POST("/data", handlers.HandleSetData)
		g.GET("/stats", handlers.HandleStats)

		g.GET("/centrality", handlers.HandleCentralityBundle)
		g.GET("/centrality/degree", handlers.HandleDegree)
		g.GET("/centrality/closeness", handlers.HandleCloseness)
		g.GET("/centrality/betweenness", handlers.HandleBetweenness)
		g.GET("/centrality/eigenvector", handlers.HandleEigenvector)

		g.GET("/communities", handlers.HandleCommunities)
		g.POST("/modularity", handlers.HandleModularity)
		g.GET("/clustering", handlers.HandleClustering)

		g.GET("/search/label", handlers.HandleSearchLabel)
		g.GET("/search/type", handlers.HandleSearchType)
		g.GET("/search/property", handlers.HandleSearchProperty)
		g.GET("/search/fuzzy", handlers.HandleSearchFuzzy)

		g.GET("/paths", handlers.HandlePaths)
		g.GET("/neighbors", handlers.HandleNeighbors)
		g.POST("/query", handlers.HandleQuery)

		g.GET("/health", handlers.HandleHealth)
		g.GET("/ready", handlers.HandleReady)
	}
}
