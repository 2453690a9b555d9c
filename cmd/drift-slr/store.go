// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/drift-slr/internal/ingest"
	"github.com/pdiddy/drift-slr/internal/screen"
	"github.com/pdiddy/drift-slr/internal/store"
	"github.com/pdiddy/drift-slr/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the screening database (load, query, verify, export)",
	Long: `Store manages the SQLite database of screened papers. Use subcommands
to load and screen a corpus, query stored decisions, work the manual
verification queue, or export results.`,
}

func storeConfig() types.StoreConfig {
	return types.StoreConfig{
		DBPath:    viper.GetString("store.db_path"),
		ExportDir: viper.GetString("store.export_dir"),
	}
}

func openStore() (*store.Store, error) {
	return store.NewStore(storeConfig())
}

// --- load subcommand ---

var storeLoadCmd = &cobra.Command{
	Use:   "load [input file]",
	Short: "Screen a paper corpus and persist the decisions",
	Long: `Load reads candidate papers from a papertable JSON or CSV file, runs
the relevance screening, and persists papers and decisions. Equivalent
to "screen --store" without the CSV output.`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreLoad,
}

func runStoreLoad(cmd *cobra.Command, args []string) error {
	papers, err := ingest.Load(args[0])
	if err != nil {
		return err
	}

	cfg := types.ScreeningConfig{
		MinScore: viper.GetFloat64("screening.min_score"),
		YearMin:  viper.GetInt("screening.year_min"),
		YearMax:  viper.GetInt("screening.year_max"),
	}
	screened, summary, err := screen.ScreenAll(context.Background(), screen.New(cfg), papers, 0, os.Stderr)
	if err != nil {
		return err
	}

	if err := saveScreened(screened, summary); err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d record(s) skipped as invalid", summary.Skipped)
	}
	return nil
}

// --- query subcommand ---

var storeQueryCmd = &cobra.Command{
	Use:   "query [search text]",
	Short: "Query stored papers with full-text search and filters",
	Long: `Query searches stored papers using FTS5 full-text search over titles
and abstracts, structured filters, or both.`,
	RunE: runStoreQuery,
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	opts := store.QueryOptions{Text: strings.Join(args, " ")}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		opts.Status = types.ScreenStatus(v)
	}
	if changed := cmd.Flags().Changed("included"); changed {
		v, _ := cmd.Flags().GetBool("included")
		opts.Included = &v
	}
	opts.MinScore, _ = cmd.Flags().GetFloat64("min-score")
	opts.MaxScore, _ = cmd.Flags().GetFloat64("max-score")
	opts.Year, _ = cmd.Flags().GetInt("year")
	opts.Source, _ = cmd.Flags().GetString("source")
	opts.MaxResults, _ = cmd.Flags().GetInt("limit")

	records, err := s.Query(context.Background(), opts)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	printRecords(records)
	return nil
}

func printRecords(records []store.Record) {
	if len(records) == 0 {
		fmt.Println("No papers found.")
		return
	}

	fmt.Printf("%-5s  %-56s  %-4s  %-5s  %-18s  %s\n",
		"Score", "Title", "Year", "Incl", "Status", "Reason")
	fmt.Println(strings.Repeat("-", 120))
	for _, r := range records {
		title := r.Paper.Title
		if len(title) > 56 {
			title = title[:53] + "..."
		}
		fmt.Printf("%-5.1f  %-56s  %-4d  %-5t  %-18s  %s\n",
			r.Decision.Score, title, r.Paper.Year, r.Decision.Included,
			r.Decision.Status, r.Decision.Reason)
	}
	fmt.Printf("\n%d paper(s)\n", len(records))
}

// --- verify subcommand ---

var storeVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "List the manual verification queue or record a reviewer decision",
	Long: `Verify without flags lists the manual verification worklist: papers
with a borderline score (2.5-3.5 by default) plus the top 20 by score,
excluding already-verified papers.

With --include or --exclude, verify records a reviewer override for one
paper. The automated score and matched categories are preserved as the
audit trail.`,
	RunE: runStoreVerify,
}

func runStoreVerify(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	includeID, _ := cmd.Flags().GetString("include")
	excludeID, _ := cmd.Flags().GetString("exclude")
	qualityID, _ := cmd.Flags().GetString("quality")
	reviewer, _ := cmd.Flags().GetString("reviewer")
	note, _ := cmd.Flags().GetString("note")

	switch {
	case includeID != "" && excludeID != "":
		return fmt.Errorf("--include and --exclude are mutually exclusive")
	case includeID != "":
		if err := s.Override(ctx, includeID, true, reviewer, note); err != nil {
			return err
		}
		fmt.Printf("verified included: %s\n", includeID)
		return nil
	case excludeID != "":
		if err := s.Override(ctx, excludeID, false, reviewer, note); err != nil {
			return err
		}
		fmt.Printf("verified excluded: %s\n", excludeID)
		return nil
	case qualityID != "":
		score, _ := cmd.Flags().GetFloat64("score")
		if err := s.SetQualityScore(ctx, qualityID, score); err != nil {
			return err
		}
		fmt.Printf("quality score %.1f recorded for %s\n", score, qualityID)
		return nil
	}

	cfg := types.DefaultConfig().Verify
	if v, _ := cmd.Flags().GetFloat64("borderline-low"); v > 0 {
		cfg.BorderlineLow = v
	}
	if v, _ := cmd.Flags().GetFloat64("borderline-high"); v > 0 {
		cfg.BorderlineHigh = v
	}
	if v, _ := cmd.Flags().GetInt("top"); v > 0 {
		cfg.TopN = v
	}

	queue, err := s.VerifyQueue(ctx, cfg)
	if err != nil {
		return err
	}
	printRecords(queue)
	return nil
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored papers to CSV, JSON, or YAML",
	Long: `Export writes stored papers (or a filtered subset) into the export
directory. The CSV layout matches the screening output consumed by the
protocol's downstream reporting.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	opts := store.QueryOptions{}
	if changed := cmd.Flags().Changed("included"); changed {
		v, _ := cmd.Flags().GetBool("included")
		opts.Included = &v
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		opts.Status = types.ScreenStatus(v)
	}

	name, _ := cmd.Flags().GetString("name")
	format, _ := cmd.Flags().GetString("format")

	var path string
	switch format {
	case "csv", "":
		path, err = s.ExportCSV(context.Background(), opts, name)
	case "json":
		path, err = s.ExportJSON(context.Background(), opts, name)
	case "yaml":
		path, err = s.ExportYAML(context.Background(), opts, name)
	default:
		return fmt.Errorf("unsupported format %q: use csv, json, or yaml", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}

func init() {
	storeQueryCmd.Flags().String("status", "", "filter by status: pending, auto_included, auto_excluded, verified_included, verified_excluded")
	storeQueryCmd.Flags().Bool("included", false, "filter by inclusion verdict")
	storeQueryCmd.Flags().Float64("min-score", 0, "minimum automated score")
	storeQueryCmd.Flags().Float64("max-score", 0, "maximum automated score")
	storeQueryCmd.Flags().Int("year", 0, "filter by publication year")
	storeQueryCmd.Flags().String("source", "", "filter by source database")
	storeQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeQueryCmd.Flags().Bool("json", false, "output results as JSON")

	storeVerifyCmd.Flags().String("include", "", "mark a paper as verified included by ID")
	storeVerifyCmd.Flags().String("exclude", "", "mark a paper as verified excluded by ID")
	storeVerifyCmd.Flags().String("quality", "", "record a 0-10 quality score for a paper ID")
	storeVerifyCmd.Flags().Float64("score", 0, "quality score value, used with --quality")
	storeVerifyCmd.Flags().String("reviewer", "", "reviewer name recorded with the override")
	storeVerifyCmd.Flags().String("note", "", "reviewer note recorded in the decision reason")
	storeVerifyCmd.Flags().Float64("borderline-low", 0, "lower bound of the borderline band (default 2.5)")
	storeVerifyCmd.Flags().Float64("borderline-high", 0, "upper bound of the borderline band (default 3.5)")
	storeVerifyCmd.Flags().Int("top", 0, "number of top-scoring papers to queue (default 20)")

	storeExportCmd.Flags().String("format", "csv", "export format: csv, json, or yaml")
	storeExportCmd.Flags().String("name", "screened_papers", "export file name (without extension)")
	storeExportCmd.Flags().Bool("included", false, "export only papers with this inclusion verdict")
	storeExportCmd.Flags().String("status", "", "export only papers with this status")

	storeCmd.AddCommand(storeLoadCmd)
	storeCmd.AddCommand(storeQueryCmd)
	storeCmd.AddCommand(storeVerifyCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
