//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// corpusFile is the default screening input produced by the dedup stage.
const corpusFile = "data/corpus.json"

// Pipeline runs the screening pipeline end to end against data/corpus.json:
// load and screen the corpus into the store, fetch open-access PDFs for the
// included papers, and render the PRISMA flow.
func Pipeline() error {
	if err := Build(); err != nil {
		return err
	}
	if _, err := os.Stat(corpusFile); err != nil {
		return fmt.Errorf("no corpus at %s: run search and dedup first", corpusFile)
	}

	bin := filepath.Join(binDir, binName)
	for _, stage := range [][]string{
		{"store", "load", corpusFile},
		{"fetch"},
		{"report"},
	} {
		fmt.Printf("==> drift-slr %s\n", stage[0])
		cmd := exec.Command(bin, stage...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("drift-slr %s: %w", stage[0], err)
		}
	}
	return nil
}
