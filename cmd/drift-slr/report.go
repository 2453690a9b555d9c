// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/drift-slr/internal/dedup"
	"github.com/pdiddy/drift-slr/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the PRISMA-style screening flow from the store",
	Long: `Report aggregates the stored screening decisions into a PRISMA-style
flow diagram: identification counts per source, duplicates removed,
exclusions by reason, and final inclusion and full-text counts.

Deduplication counts come from a stats file written by "dedup --stats";
without one, the duplicate stage is reported as zero.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	counts, err := s.Counts(context.Background())
	if err != nil {
		return err
	}

	var dedupStats *dedup.Stats
	statsPath, _ := cmd.Flags().GetString("dedup-stats")
	if statsPath == "" {
		statsPath = viper.GetString("report.dedup_stats_path")
	}
	if statsPath != "" {
		stats, err := dedup.LoadStats(statsPath)
		if err != nil {
			return fmt.Errorf("loading dedup stats: %w", err)
		}
		dedupStats = &stats
	}

	flow := report.Build(counts, dedupStats)

	if jsonPath, _ := cmd.Flags().GetString("json"); jsonPath != "" {
		if err := flow.WriteJSON(jsonPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", jsonPath)
		return nil
	}

	report.Render(os.Stdout, flow)
	return nil
}

func init() {
	reportCmd.Flags().String("dedup-stats", "", "path to the dedup --stats JSON file")
	reportCmd.Flags().String("json", "", "write the flow as JSON to this path instead of rendering")

	rootCmd.AddCommand(reportCmd)
}
