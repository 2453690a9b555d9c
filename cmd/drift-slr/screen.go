// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/drift-slr/internal/ingest"
	"github.com/pdiddy/drift-slr/internal/screen"
	"github.com/pdiddy/drift-slr/internal/store"
	"github.com/pdiddy/drift-slr/pkg/types"
)

var screenCmd = &cobra.Command{
	Use:   "screen [input file]",
	Short: "Screen candidate papers against the relevance criteria",
	Long: `Screen loads candidate papers from a papertable JSON or CSV file,
scores each against the weighted keyword taxonomy, and applies the
inclusion decision: temporal window, abstract presence, hard exclusion
criteria, then the score threshold. Output preserves input order.

Records missing a title or a usable year are skipped and counted; the
command exits non-zero when any record was skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runScreen,
}

func init() {
	screenCmd.Flags().String("out", "", "write annotated results as CSV to this path (default: stdout)")
	screenCmd.Flags().String("json", "", "also write annotated results as JSON to this path")
	screenCmd.Flags().Int("workers", 0, "number of screening workers (default: NumCPU)")
	screenCmd.Flags().Float64("min-score", 0, "inclusion score threshold (default 3.0)")
	screenCmd.Flags().Int("year-min", 0, "first year of the temporal window (default 2019)")
	screenCmd.Flags().Int("year-max", 0, "last year of the temporal window (default 2025)")
	screenCmd.Flags().Bool("store", false, "persist results to the screening database")

	rootCmd.AddCommand(screenCmd)
}

func screeningConfig(cmd *cobra.Command) types.ScreeningConfig {
	cfg := types.ScreeningConfig{
		MinScore: viper.GetFloat64("screening.min_score"),
		YearMin:  viper.GetInt("screening.year_min"),
		YearMax:  viper.GetInt("screening.year_max"),
	}
	if v, _ := cmd.Flags().GetFloat64("min-score"); v > 0 {
		cfg.MinScore = v
	}
	if v, _ := cmd.Flags().GetInt("year-min"); v > 0 {
		cfg.YearMin = v
	}
	if v, _ := cmd.Flags().GetInt("year-max"); v > 0 {
		cfg.YearMax = v
	}
	cfg.Workers, _ = cmd.Flags().GetInt("workers")
	return cfg
}

func runScreen(cmd *cobra.Command, args []string) error {
	papers, err := ingest.Load(args[0])
	if err != nil {
		return err
	}

	cfg := screeningConfig(cmd)
	classifier := screen.New(cfg)

	screened, summary, err := screen.ScreenAll(context.Background(), classifier, papers, cfg.Workers, os.Stderr)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		if err := ingest.WriteScreenedCSV(f, screened); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
	} else {
		if err := ingest.WriteScreenedCSV(os.Stdout, screened); err != nil {
			return err
		}
	}

	if jsonPath, _ := cmd.Flags().GetString("json"); jsonPath != "" {
		data, err := json.MarshalIndent(screened, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON output: %w", err)
		}
		if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
			return fmt.Errorf("writing JSON output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", jsonPath)
	}

	if persist, _ := cmd.Flags().GetBool("store"); persist {
		if err := saveScreened(screened, summary); err != nil {
			return err
		}
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d record(s) skipped as invalid", summary.Skipped)
	}
	return nil
}

func saveScreened(screened []types.ScreenedPaper, summary screen.Summary) error {
	s, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	run := store.NewRun()
	run.Total = summary.Total()
	run.Included = summary.Included
	run.Excluded = summary.Excluded
	run.Skipped = summary.Skipped

	if err := s.SaveBatch(context.Background(), run, screened); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "stored %d paper(s) (run %s)\n", len(screened), run.ID)
	return nil
}
