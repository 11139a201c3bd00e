// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/atlasgraph/services/atlas"
	"github.com/AleutianAI/atlasgraph/services/atlas/graph"
	"github.com/AleutianAI/atlasgraph/services/atlas/loader"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	statsJSONOutput bool // Output as JSON
	statsTop        int  // Leaderboard size for centrality output
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// statsCmd analyzes a snapshot file without starting the server.
//
// # Description
//
// Loads a snapshot JSON file, runs the summary statistics and the
// betweenness leaderboard, and prints the results.
//
// # Examples
//
//	atlas stats graph.json
//	atlas stats graph.json --json
//	atlas stats graph.json --top 20
var statsCmd = &cobra.Command{
	Use:   "stats <snapshot.json>",
	Short: "Print summary statistics for a snapshot file",
	Long: `Loads a snapshot JSON file and prints graph statistics:
node and edge counts, density, diameter, average path length, global
clustering, connected components, and the betweenness leaderboard.

Examples:
  atlas stats graph.json           # Human-readable report
  atlas stats graph.json --json    # JSON output for scripting
  atlas stats graph.json --top 20  # Larger leaderboard`,
	Args: cobra.ExactArgs(1),
	RunE: runStatsCommand,
}

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	statsCmd.Flags().BoolVar(&statsJSONOutput, "json", false,
		"Output as JSON")
	statsCmd.Flags().IntVar(&statsTop, "top", 10,
		"Number of top betweenness scorers to show")
}

// =============================================================================
// COMMAND EXECUTION
// =============================================================================

func runStatsCommand(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	svc := atlas.NewService(atlas.DefaultServiceConfig())
	l := loader.NewLoader(svc, 0)
	snap, err := l.LoadFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	analytics := svc.Analytics()
	stats := analytics.Statistics(ctx)
	report, err := analytics.CentralityBundle(ctx, svc.Config().Eigenvector)
	if err != nil {
		return fmt.Errorf("compute centrality: %w", err)
	}
	top := graph.TopScores(report.Betweenness, statsTop)

	if statsJSONOutput {
		out := map[string]any{
			"snapshot_id": snap.ID(),
			"stats":       stats,
			"top":         top,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Snapshot %s\n", snap.ID())
	fmt.Printf("  Nodes:               %d\n", stats.NodeCount)
	fmt.Printf("  Edges:               %d\n", stats.EdgeCount)
	fmt.Printf("  Average degree:      %.4f\n", stats.AverageDegree)
	fmt.Printf("  Density:             %.4f\n", stats.Density)
	fmt.Printf("  Diameter:            %d\n", stats.Diameter)
	fmt.Printf("  Average path length: %.4f\n", stats.AveragePathLength)
	fmt.Printf("  Global clustering:   %.4f\n", stats.Clustering)
	fmt.Printf("  Components:          %d\n", stats.Components)
	if len(top) > 0 {
		fmt.Println("  Top betweenness:")
		for i, sn := range top {
			fmt.Printf("    %2d. %-24s %.4f\n", i+1, sn.ID, sn.Score)
		}
	}
	return nil
}
