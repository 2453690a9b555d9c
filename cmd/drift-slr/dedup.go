// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/drift-slr/internal/dedup"
	"github.com/pdiddy/drift-slr/internal/ingest"
	"github.com/pdiddy/drift-slr/pkg/types"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup [input files...]",
	Short: "Merge source exports and remove duplicate papers",
	Long: `Dedup merges candidate papers from one or more source exports
(papertable JSON or CSV), removing duplicates by DOI equality or title
similarity with author overlap. It writes the merged table and a
statistics document for the PRISMA audit trail.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDedup,
}

func init() {
	dedupCmd.Flags().String("out", "merged_papers.json", "output path for the merged papertable")
	dedupCmd.Flags().String("stats", "deduplication_statistics.json", "output path for the statistics document")
	dedupCmd.Flags().Float64("title-similarity", 0, "title similarity threshold (default 0.85)")
	dedupCmd.Flags().Float64("author-overlap", 0, "author overlap threshold (default 0.5)")

	rootCmd.AddCommand(dedupCmd)
}

func runDedup(cmd *cobra.Command, args []string) error {
	cfg := types.DedupConfig{}
	cfg.TitleSimilarity, _ = cmd.Flags().GetFloat64("title-similarity")
	cfg.AuthorOverlap, _ = cmd.Flags().GetFloat64("author-overlap")

	var all []types.Paper
	var fileStats []dedup.FileStat
	for _, path := range args {
		papers, err := ingest.Load(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "loaded %s: %d paper(s)\n", path, len(papers))
		fileStats = append(fileStats, dedup.FileStat{File: path, Papers: len(papers)})
		all = append(all, papers...)
	}

	result := dedup.Deduplicate(all, cfg)

	outPath, _ := cmd.Flags().GetString("out")
	if err := ingest.WriteTable(outPath, result.Papers, nil); err != nil {
		return err
	}

	statsPath, _ := cmd.Flags().GetString("stats")
	stats := result.Stats
	stats.FileStats = fileStats
	stats.OutputFile = outPath
	stats.Filters = dedup.Filters{
		YearRange: fmt.Sprintf("%d-%d",
			viper.GetInt("screening.year_min"), viper.GetInt("screening.year_max")),
		PublicationTypes: []string{"journal", "conference", "preprint"},
	}
	if err := stats.WriteFile(statsPath); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%d -> %d paper(s), %d duplicate(s) removed (%.1f%%)\n",
		stats.TotalBefore, stats.UniqueAfter, stats.Removed, stats.RatePercent)
	fmt.Fprintf(os.Stderr, "wrote %s and %s\n", outPath, statsPath)
	return nil
}
