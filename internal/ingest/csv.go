// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/drift-slr/pkg/types"
)

// screenedHeader is the column set of the screening output CSV, the format
// consumed by the protocol's downstream reporting (R3.3).
var screenedHeader = []string{
	"Paper Number", "Title", "Year", "Authors", "DOI",
	"Source", "Score", "Included", "Reason", "Status",
}

// ReadCSV parses a header-driven CSV of paper records, using the same
// column aliases as the papertable reader.
func ReadCSV(path string) ([]types.Paper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header %s: %w", path, err)
	}
	fields := make([]string, len(header))
	for i, name := range header {
		fields[i] = columnAliases[strings.ToLower(strings.TrimSpace(name))]
	}

	var papers []types.Paper
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row in %s: %w", path, err)
		}
		var p types.Paper
		for i, cell := range record {
			if i >= len(fields) {
				break
			}
			switch fields[i] {
			case fieldNumber:
				p.Number = parseIntCell(cell)
			case fieldTitle:
				p.Title = strings.TrimSpace(cell)
			case fieldAbstract:
				p.Abstract = strings.TrimSpace(cell)
			case fieldYear:
				p.Year = parseIntCell(cell)
			case fieldAuthors:
				p.Authors = splitAuthors(cell)
			case fieldDOI:
				p.DOI = strings.TrimSpace(cell)
			case fieldURL:
				p.URL = strings.TrimSpace(cell)
			case fieldSource:
				p.Source = strings.TrimSpace(cell)
			case fieldLanguage:
				p.Language = strings.TrimSpace(cell)
			case fieldVenue:
				p.Venue = strings.TrimSpace(cell)
			case fieldCitations:
				p.Citations = parseIntCell(cell)
			}
		}
		assignID(&p)
		papers = append(papers, p)
	}
	return papers, nil
}

// WriteScreenedCSV writes screening results in input order with the
// protocol's column set. Scores print with one decimal place.
func WriteScreenedCSV(w io.Writer, screened []types.ScreenedPaper) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(screenedHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i, sp := range screened {
		number := sp.Paper.Number
		if number == 0 {
			number = i + 1
		}
		row := []string{
			strconv.Itoa(number),
			sp.Paper.Title,
			strconv.Itoa(sp.Paper.Year),
			joinAuthors(sp.Paper.Authors),
			sp.Paper.DOI,
			sp.Paper.Source,
			fmt.Sprintf("%.1f", sp.Decision.Score),
			strconv.FormatBool(sp.Decision.Included),
			sp.Decision.Reason,
			string(sp.Decision.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
