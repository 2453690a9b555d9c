// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/drift-slr/internal/fetch"
	"github.com/pdiddy/drift-slr/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download open-access PDFs for included papers",
	Long: `Fetch downloads full-text PDFs for papers marked as included in the
store. Only open-access sources are used: arXiv IDs resolve to the
arXiv PDF endpoint, and direct .pdf URLs are downloaded as-is. Papers
without an open-access source are skipped and reported.

Downloaded paths are recorded back on the paper so reporting can count
full-text availability.`,
	RunE: runFetch,
}

func fetchConfig(cmd *cobra.Command) types.FetchConfig {
	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("http.timeout"),
			UserAgent: viper.GetString("http.user_agent"),
		},
		PapersDir:     viper.GetString("fetch.papers_dir"),
		DownloadDelay: viper.GetDuration("fetch.download_delay"),
	}
	if v, _ := cmd.Flags().GetString("papers-dir"); v != "" {
		cfg.PapersDir = v
	}
	if v, _ := cmd.Flags().GetDuration("delay"); v > 0 {
		cfg.DownloadDelay = v
	}
	return cfg
}

func runFetch(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	records, err := s.IncludedPapers(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No included papers to fetch. Run screening first.")
		return nil
	}

	papers := make([]types.Paper, len(records))
	for i, r := range records {
		papers[i] = r.Paper
	}

	results, summary := fetch.FetchAll(ctx, papers, fetchConfig(cmd), os.Stderr)
	for _, res := range results {
		if err := s.SetPDFPath(ctx, res.PaperID, res.PDFPath); err != nil {
			return fmt.Errorf("recording PDF path for %s: %w", res.PaperID, err)
		}
	}

	fmt.Printf("Fetched %d, skipped %d, failed %d of %d paper(s)\n",
		summary.Fetched, summary.Skipped, summary.Failed, summary.Total())
	if summary.HasFailures() {
		return fmt.Errorf("%d download(s) failed", summary.Failed)
	}
	return nil
}

func init() {
	fetchCmd.Flags().String("papers-dir", "", "base directory for downloaded papers")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive downloads")

	rootCmd.AddCommand(fetchCmd)
}
