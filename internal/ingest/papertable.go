// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/drift-slr/pkg/types"
)

// Column describes one column of a papertable document.
type Column struct {
	ColumnID string `json:"column_id"`
	Name     string `json:"name"`
}

// Table is a papertable document: a column manifest plus rows keyed by
// column ID, the export format of the source databases (R3.1).
type Table struct {
	Columns        []Column         `json:"columns"`
	Data           []map[string]any `json:"data"`
	SearchMetadata map[string]any   `json:"search_metadata,omitempty"`
}

// Canonical field keys used when mapping column names onto Paper fields.
const (
	fieldNumber    = "number"
	fieldTitle     = "title"
	fieldAbstract  = "abstract"
	fieldYear      = "year"
	fieldAuthors   = "authors"
	fieldDOI       = "doi"
	fieldURL       = "url"
	fieldSource    = "source"
	fieldLanguage  = "language"
	fieldVenue     = "venue"
	fieldCitations = "citations"
)

// columnAliases maps lower-cased column names, as they appear across the
// source exports, to canonical field keys. Unknown columns are ignored.
var columnAliases = map[string]string{
	"paper number":      fieldNumber,
	"number":            fieldNumber,
	"#":                 fieldNumber,
	"title":             fieldTitle,
	"paper title":       fieldTitle,
	"abstract":          fieldAbstract,
	"summary":           fieldAbstract,
	"year":              fieldYear,
	"publication year":  fieldYear,
	"authors":           fieldAuthors,
	"author":            fieldAuthors,
	"author(s)":         fieldAuthors,
	"doi":               fieldDOI,
	"url":               fieldURL,
	"link":              fieldURL,
	"paper url":         fieldURL,
	"source":            fieldSource,
	"database":          fieldSource,
	"language":          fieldLanguage,
	"lang":              fieldLanguage,
	"venue":             fieldVenue,
	"journal":           fieldVenue,
	"publication venue": fieldVenue,
	"cited by":          fieldCitations,
	"citations":         fieldCitations,
	"citation count":    fieldCitations,
}

// ReadTable parses a papertable JSON document.
func ReadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("reading paper table: %w", err)
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("parsing paper table %s: %w", path, err)
	}
	return t, nil
}

// Papers maps the table rows onto Paper records. Column names are matched
// case-insensitively via the alias table; rows missing a title produce a
// record anyway and are rejected later by screening validation.
func (t Table) Papers() []types.Paper {
	fieldByID := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		if f, ok := columnAliases[strings.ToLower(strings.TrimSpace(c.Name))]; ok {
			fieldByID[c.ColumnID] = f
		}
	}

	papers := make([]types.Paper, 0, len(t.Data))
	for _, row := range t.Data {
		var p types.Paper
		for id, cell := range row {
			switch fieldByID[id] {
			case fieldNumber:
				p.Number = cellInt(cell)
			case fieldTitle:
				p.Title = cellString(cell)
			case fieldAbstract:
				p.Abstract = cellString(cell)
			case fieldYear:
				p.Year = cellInt(cell)
			case fieldAuthors:
				p.Authors = splitAuthors(cellString(cell))
			case fieldDOI:
				p.DOI = cellString(cell)
			case fieldURL:
				p.URL = cellString(cell)
			case fieldSource:
				p.Source = cellString(cell)
			case fieldLanguage:
				p.Language = cellString(cell)
			case fieldVenue:
				p.Venue = cellString(cell)
			case fieldCitations:
				p.Citations = cellInt(cell)
			}
		}
		assignID(&p)
		papers = append(papers, p)
	}
	return papers
}

// WriteTable writes papers as a papertable document with the canonical
// column set, carrying metadata through unchanged.
func WriteTable(path string, papers []types.Paper, metadata map[string]any) error {
	names := []string{
		"Paper Number", "Title", "Abstract", "Year", "Authors",
		"DOI", "URL", "Source", "Language", "Venue", "Citations",
	}
	t := Table{SearchMetadata: metadata}
	ids := make([]string, len(names))
	for i, n := range names {
		ids[i] = fmt.Sprintf("c%d", i+1)
		t.Columns = append(t.Columns, Column{ColumnID: ids[i], Name: n})
	}

	for i, p := range papers {
		number := p.Number
		if number == 0 {
			number = i + 1
		}
		row := map[string]any{
			ids[0]:  number,
			ids[1]:  p.Title,
			ids[2]:  p.Abstract,
			ids[3]:  p.Year,
			ids[4]:  joinAuthors(p.Authors),
			ids[5]:  p.DOI,
			ids[6]:  p.URL,
			ids[7]:  p.Source,
			ids[8]:  p.Language,
			ids[9]:  p.Venue,
			ids[10]: p.Citations,
		}
		t.Data = append(t.Data, row)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding paper table: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing paper table: %w", err)
	}
	return nil
}

// cellString renders a JSON cell value as a trimmed string.
func cellString(v any) string {
	switch c := v.(type) {
	case string:
		return strings.TrimSpace(c)
	case float64:
		if c == float64(int64(c)) {
			return strconv.FormatInt(int64(c), 10)
		}
		return strconv.FormatFloat(c, 'f', -1, 64)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(c))
	}
}

// cellInt renders a JSON cell value as an int, tolerating string and float
// encodings. Unparseable cells yield zero.
func cellInt(v any) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case string:
		return parseIntCell(c)
	case nil:
		return 0
	default:
		return parseIntCell(fmt.Sprint(c))
	}
}
