// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/drift-slr/internal/ingest"
	"github.com/pdiddy/drift-slr/pkg/types"
)

const exportLimit = 100000

// ExportCSV writes matching papers as a screening CSV in the protocol's
// column layout (R6.2). It returns the written path.
func (s *Store) ExportCSV(ctx context.Context, opts QueryOptions, name string) (string, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return "", err
	}

	screened := make([]types.ScreenedPaper, len(records))
	for i, r := range records {
		screened[i] = r.ScreenedPaper
	}

	path, err := s.exportPath(name, ".csv")
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := ingest.WriteScreenedCSV(f, screened); err != nil {
		return "", err
	}
	return path, nil
}

// ExportJSON writes matching papers as indented JSON (R6.3).
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions, name string) (string, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport(name, ".json", data)
}

// ExportYAML writes matching papers as YAML (R6.3).
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions, name string) (string, error) {
	records, err := s.exportRecords(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport(name, ".yaml", data)
}

func (s *Store) exportRecords(ctx context.Context, opts QueryOptions) ([]Record, error) {
	opts.MaxResults = exportLimit
	records, err := s.Query(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return records, nil
}

func (s *Store) exportPath(name, ext string) (string, error) {
	dir := s.exportDir
	if dir == "" {
		dir = "data/exports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	return filepath.Join(dir, name+ext), nil
}

func (s *Store) writeExport(name, ext string, data []byte) (string, error) {
	path, err := s.exportPath(name, ext)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
