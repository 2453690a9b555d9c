// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest reads and writes the paper interchange formats produced by
// the source databases and consumed by downstream reporting: papertable
// JSON exports (SciSpace-style column/data documents) and CSV.
// Implements: prd001-identification R2, R3; docs/ARCHITECTURE § Ingestion.
package ingest

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/drift-slr/internal/dedup"
	"github.com/pdiddy/drift-slr/pkg/types"
)

// Load reads papers from a file, dispatching on extension: .json is parsed
// as a papertable document, .csv as a header-driven CSV (R2.2).
func Load(path string) ([]types.Paper, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		table, err := ReadTable(path)
		if err != nil {
			return nil, err
		}
		return table.Papers(), nil
	case ".csv":
		return ReadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q: use .json or .csv", filepath.Ext(path))
	}
}

// assignID fills Paper.ID: the normalized DOI when present, otherwise a
// generated UUID, so every record has a stable store key (R2.4).
func assignID(p *types.Paper) {
	if p.ID != "" {
		return
	}
	if doi := dedup.NormalizeDOI(p.DOI); doi != "" {
		p.ID = doi
		return
	}
	p.ID = uuid.New().String()
}

// parseIntCell accepts integer, float ("2021.0"), and string numeric cells.
// Unparseable cells yield zero; for year cells this means the classifier
// rejects the record individually instead of the whole load failing (R2.3).
func parseIntCell(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// splitAuthors splits an author cell on semicolons, falling back to commas
// when the cell has none.
func splitAuthors(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	sep := ";"
	if !strings.Contains(s, ";") {
		sep = ","
	}
	parts := strings.Split(s, sep)
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if a := strings.TrimSpace(p); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// joinAuthors is the inverse of splitAuthors for table output.
func joinAuthors(authors []string) string {
	return strings.Join(authors, "; ")
}
