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
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "atlas",
		Short: "Graph analytics and query server",
		Long: `Atlas serves analytics and queries over an in-memory labeled graph:
centrality measures, community detection, clustering, path enumeration,
and a small filter language, behind an HTTP API.`,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the atlas version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("atlas", Version)
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}
