// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads open-access PDFs for papers included by
// screening, so the review team can run the full-text assessment.
// Implements: prd006-fulltext (R1-R3); docs/ARCHITECTURE § Acquisition.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/drift-slr/internal/httputil"
	"github.com/pdiddy/drift-slr/pkg/types"
)

const rawDir = "raw"

// Summary holds counts from a batch acquisition run (R3.2).
type Summary struct {
	Fetched int
	Skipped int
	Failed  int
}

// Total returns the number of papers processed.
func (s Summary) Total() int {
	return s.Fetched + s.Skipped + s.Failed
}

// HasFailures reports whether any downloads failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Result pairs a paper ID with its downloaded PDF location, for the store
// to record.
type Result struct {
	PaperID string
	PDFPath string
}

// FetchOne resolves a paper's open-access PDF URL and downloads it into
// cfg.PapersDir/raw/. An existing file is not re-downloaded. The skipped
// return reports whether the download was skipped (already present or no
// open-access source).
func FetchOne(ctx context.Context, client *http.Client, p types.Paper, cfg types.FetchConfig, w io.Writer) (pdfPath string, skipped bool, err error) {
	pdfURL := PDFURL(p)
	if pdfURL == "" {
		fmt.Fprintf(w, "skipped: %s (no open-access source)\n", p.ID)
		return "", true, nil
	}

	slug := Slug(p)
	dir := filepath.Join(cfg.PapersDir, rawDir)
	pdfPath = filepath.Join(dir, slug+".pdf")

	// Skip if the PDF already exists (R2.1).
	if _, statErr := os.Stat(pdfPath); statErr == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", slug)
		return pdfPath, true, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	fmt.Fprintf(w, "downloading: %s\n", slug)
	if err := downloadFile(ctx, client, pdfURL, pdfPath, cfg); err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", slug, err)
	}
	return pdfPath, false, nil
}

// FetchAll downloads PDFs for a list of papers, printing per-item status
// and returning the results plus a summary. It continues after individual
// failures (R3.1) and applies a delay between consecutive downloads
// (R2.3).
func FetchAll(ctx context.Context, papers []types.Paper, cfg types.FetchConfig, w io.Writer) ([]Result, Summary) {
	client := httputil.NewClient(cfg.HTTPConfig)

	var results []Result
	var summary Summary
	downloads := 0

	for _, p := range papers {
		if downloads > 0 && cfg.DownloadDelay > 0 {
			time.Sleep(cfg.DownloadDelay)
		}
		pdfPath, skipped, err := FetchOne(ctx, client, p, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", p.ID, err)
			summary.Failed++
			continue
		}
		if skipped {
			summary.Skipped++
		} else {
			summary.Fetched++
			downloads++
		}
		if pdfPath != "" {
			results = append(results, Result{PaperID: p.ID, PDFPath: pdfPath})
		}
	}

	fmt.Fprintf(w, "\n%d fetched, %d skipped, %d failed (of %d)\n",
		summary.Fetched, summary.Skipped, summary.Failed, summary.Total())
	return results, summary
}

// downloadFile fetches url to destPath using a temporary file, renamed on
// success so a partial download never looks complete (R2.2).
func downloadFile(ctx context.Context, client *http.Client, url, destPath string, cfg types.FetchConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", httputil.UserAgent(cfg.HTTPConfig))
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
