// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/drift-slr/internal/ingest"
	"github.com/pdiddy/drift-slr/internal/search"
	"github.com/pdiddy/drift-slr/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query terms...]",
	Short: "Query academic APIs for candidate papers",
	Long: `Search queries the enabled academic APIs (arXiv, Crossref) for papers
matching the query terms. Results are merged and deduplicated across
backends. With --out, results are written as a papertable JSON that
feeds the dedup and screen stages; otherwise a table is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "maximum number of merged results (default 50)")
	searchCmd.Flags().Int("from-year", 0, "restrict to papers published on or after this year")
	searchCmd.Flags().Int("to-year", 0, "restrict to papers published on or before this year")
	searchCmd.Flags().Bool("no-arxiv", false, "disable the arXiv backend")
	searchCmd.Flags().Bool("no-crossref", false, "disable the Crossref backend")
	searchCmd.Flags().String("out", "", "write results as a papertable JSON to this path")

	rootCmd.AddCommand(searchCmd)
}

func searchConfigFromFlags(cmd *cobra.Command) types.SearchConfig {
	cfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("http.timeout"),
			UserAgent: viper.GetString("http.user_agent"),
		},
		MaxResults:        viper.GetInt("search.max_results"),
		CrossrefMailto:    viper.GetString("search.crossref_mailto"),
		FromYear:          viper.GetInt("screening.year_min"),
		ToYear:            viper.GetInt("screening.year_max"),
		InterBackendDelay: 1 * time.Second,
	}

	if v, _ := cmd.Flags().GetInt("max-results"); v > 0 {
		cfg.MaxResults = v
	}
	if v, _ := cmd.Flags().GetInt("from-year"); v > 0 {
		cfg.FromYear = v
	}
	if v, _ := cmd.Flags().GetInt("to-year"); v > 0 {
		cfg.ToYear = v
	}

	noArxiv, _ := cmd.Flags().GetBool("no-arxiv")
	noCrossref, _ := cmd.Flags().GetBool("no-crossref")
	cfg.EnableArxiv = !noArxiv
	cfg.EnableCrossref = !noCrossref
	return cfg
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	cfg := searchConfigFromFlags(cmd)

	out, err := search.SearchAll(context.Background(), search.Backends(cfg), query, cfg, os.Stderr)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		metadata := map[string]any{
			"query":       query,
			"searched_at": time.Now().UTC().Format(time.RFC3339),
		}
		if err := ingest.WriteTable(outPath, out.Papers, metadata); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d paper(s) to %s\n", len(out.Papers), outPath)
		return nil
	}

	search.FormatTable(out, os.Stdout)
	return nil
}
