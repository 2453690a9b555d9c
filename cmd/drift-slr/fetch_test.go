// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func TestFetchConfig_ReadsDownloadDelay(t *testing.T) {
	defer viper.Reset()
	viper.Set("fetch.papers_dir", "papers")
	viper.Set("fetch.download_delay", 250*time.Millisecond)

	cmd := &cobra.Command{}
	cmd.Flags().String("papers-dir", "", "")
	cmd.Flags().Duration("delay", 0, "")

	cfg := fetchConfig(cmd)
	if cfg.DownloadDelay != 250*time.Millisecond {
		t.Errorf("DownloadDelay = %v, want the configured 250ms", cfg.DownloadDelay)
	}
	if cfg.PapersDir != "papers" {
		t.Errorf("PapersDir = %q", cfg.PapersDir)
	}

	// The flag overrides the configured value.
	if err := cmd.Flags().Set("delay", "2s"); err != nil {
		t.Fatal(err)
	}
	if cfg := fetchConfig(cmd); cfg.DownloadDelay != 2*time.Second {
		t.Errorf("DownloadDelay = %v, want flag override 2s", cfg.DownloadDelay)
	}
}
