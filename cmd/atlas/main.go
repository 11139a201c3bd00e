// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command atlas starts the Atlas graph analytics server.
//
// Atlas serves analytics and queries over an in-memory labeled graph:
//   - Whole-graph snapshot loading (HTTP or watched JSON file)
//   - Centrality measures (degree, closeness, betweenness, eigenvector)
//   - Community detection and modularity scoring
//   - Path enumeration, neighborhood expansion, and a filter language
//
// Usage:
//
//	go run ./cmd/atlas serve
//	go run ./cmd/atlas serve --config atlas.yaml
//	go run ./cmd/atlas serve --snapshot graph.json --watch
//	go run ./cmd/atlas stats graph.json
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8085/v1/graph/health
//
//	# Load a graph
//	curl -X POST http://localhost:8085/v1/graph/data \
//	  -H "Content-Type: application/json" \
//	  -d '{"nodes": [{"id": "a", "label": "A", "type": "entity"}], "edges": []}'
//
//	# Centrality leaderboard
//	curl "http://localhost:8085/v1/graph/centrality/betweenness?top=10" | jq
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
