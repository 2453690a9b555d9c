// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the drift-slr CLI.
// Implements: prd001-identification, prd002-deduplication, prd003-screening,
//             prd004-paper-store, prd005-reporting, prd006-fulltext (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the drift-slr CLI.
var rootCmd = &cobra.Command{
	Use:   "drift-slr",
	Short: "Screening pipeline for the infrastructure drift literature review",
	Long: `drift-slr is the tooling for a systematic literature review on cloud
infrastructure drift detection and remediation. Candidate papers flow
through identification (file imports and API searches), deduplication,
relevance screening, storage, full-text acquisition, and PRISMA reporting.

Each pipeline stage is a subcommand: search, dedup, screen, store, fetch,
and report. The screening decisions are deterministic and auditable; a
reviewer applies manual verification through the store.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./drift-slr.yaml or ~/.drift-slr/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("drift-slr")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".drift-slr"))
		}
	}

	viper.SetEnvPrefix("DRIFT_SLR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Protocol defaults; a config file or environment overrides them.
	viper.SetDefault("screening.min_score", 3.0)
	viper.SetDefault("screening.year_min", 2019)
	viper.SetDefault("screening.year_max", 2025)
	viper.SetDefault("search.max_results", 50)
	viper.SetDefault("search.crossref_mailto", "")
	viper.SetDefault("http.timeout", 60*time.Second)
	viper.SetDefault("http.user_agent", "drift-slr/"+version)
	viper.SetDefault("store.db_path", "data/review.db")
	viper.SetDefault("store.export_dir", "data/exports")
	viper.SetDefault("fetch.papers_dir", "papers")
	viper.SetDefault("fetch.download_delay", time.Second)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	// Missing .env is fine; it only carries local overrides.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
