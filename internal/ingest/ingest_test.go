package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/drift-slr/pkg/types"
)

const sampleTable = `{
  "columns": [
    {"column_id": "c1", "name": "Paper Number"},
    {"column_id": "c2", "name": "Paper Title"},
    {"column_id": "c3", "name": "Abstract"},
    {"column_id": "c4", "name": "Year"},
    {"column_id": "c5", "name": "Authors"},
    {"column_id": "c6", "name": "DOI"},
    {"column_id": "c7", "name": "Cited By"},
    {"column_id": "c8", "name": "Reviewer Notes"}
  ],
  "data": [
    {
      "c1": 1,
      "c2": "Terraform drift detection in multi-cloud deployments",
      "c3": "We study configuration drift.",
      "c4": 2023,
      "c5": "Alice Smith; Bob Jones",
      "c6": "10.1145/3510003.3510101",
      "c7": 12,
      "c8": "looks relevant"
    },
    {
      "c1": "2",
      "c2": "GitOps in practice",
      "c3": "",
      "c4": "2021.0",
      "c5": "Carol White",
      "c6": "",
      "c7": ""
    }
  ],
  "search_metadata": {"query": "infrastructure drift", "database": "scispace"}
}`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

// --- Papertable ---

func TestReadTablePapers(t *testing.T) {
	path := writeFixture(t, "scispace.json", sampleTable)

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	papers := table.Papers()
	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2", len(papers))
	}

	p := papers[0]
	if p.Number != 1 {
		t.Errorf("Number = %d, want 1", p.Number)
	}
	if p.Title != "Terraform drift detection in multi-cloud deployments" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Year != 2023 {
		t.Errorf("Year = %d, want 2023", p.Year)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "Alice Smith" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if p.Citations != 12 {
		t.Errorf("Citations = %d, want 12", p.Citations)
	}
	// The DOI doubles as the record ID.
	if p.ID != "10.1145/3510003.3510101" {
		t.Errorf("ID = %q, want the normalized DOI", p.ID)
	}

	// String and float-encoded numeric cells parse too.
	q := papers[1]
	if q.Number != 2 || q.Year != 2021 {
		t.Errorf("string cells: Number = %d, Year = %d", q.Number, q.Year)
	}
	// No DOI: a generated ID still makes the record storable.
	if q.ID == "" {
		t.Errorf("ID empty for DOI-less record")
	}
}

func TestTableRoundTrip(t *testing.T) {
	papers := []types.Paper{
		{
			Number:   1,
			Title:    "Drift detection survey",
			Abstract: "Abstract text.",
			Year:     2022,
			Authors:  []string{"Alice Smith", "Bob Jones"},
			DOI:      "10.1/abc",
			Source:   "arxiv",
		},
	}

	path := filepath.Join(t.TempDir(), "merged.json")
	meta := map[string]any{"query": "drift"}
	if err := WriteTable(path, papers, meta); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	p := got[0]
	if p.Title != "Drift detection survey" || p.Year != 2022 || p.Source != "arxiv" {
		t.Errorf("round trip mismatch: %+v", p)
	}
	if len(p.Authors) != 2 {
		t.Errorf("Authors = %v, want 2 entries", p.Authors)
	}
}

// --- CSV ---

func TestReadCSV(t *testing.T) {
	csvContent := "Paper Number,Title,Abstract,Year,Authors,DOI\n" +
		"1,Drift detection in clouds,Some abstract.,2020,\"Alice Smith, Bob Jones\",10.1/x\n" +
		"2,No year paper,Another abstract.,,Bob Jones,\n"
	path := writeFixture(t, "papers.csv", csvContent)

	papers, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("len = %d, want 2", len(papers))
	}
	if papers[0].Year != 2020 || papers[0].Title != "Drift detection in clouds" {
		t.Errorf("papers[0] = %+v", papers[0])
	}
	// Comma-separated author cell without semicolons splits on commas.
	if len(papers[0].Authors) != 2 {
		t.Errorf("Authors = %v, want 2 entries", papers[0].Authors)
	}
	// Empty year parses to zero; screening rejects it later.
	if papers[1].Year != 0 {
		t.Errorf("missing year = %d, want 0", papers[1].Year)
	}
}

func TestWriteScreenedCSV(t *testing.T) {
	screened := []types.ScreenedPaper{
		{
			Paper: types.Paper{
				Number:  1,
				Title:   "Terraform drift detection",
				Year:    2023,
				Authors: []string{"Alice Smith"},
				DOI:     "10.1/x",
				Source:  "scispace",
			},
			Decision: types.Decision{
				Score:    9.5,
				Included: true,
				Reason:   "Relevant (Score: 9.5)",
				Status:   types.StatusAutoIncluded,
			},
		},
		{
			Paper: types.Paper{Title: "GitOps only", Year: 2020},
			Decision: types.Decision{
				Score:  1.5,
				Reason: "Low relevance (Score: 1.5)",
				Status: types.StatusAutoExcluded,
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteScreenedCSV(&buf, screened); err != nil {
		t.Fatalf("WriteScreenedCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Paper Number,Title,Year,Authors,DOI,Source,Score,Included,Reason,Status" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "9.5,true,Relevant (Score: 9.5),auto_included") {
		t.Errorf("row 1 = %q", lines[1])
	}
	// Zero paper numbers fall back to the row ordinal.
	if !strings.HasPrefix(lines[2], "2,GitOps only") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

// --- Dispatch and helpers ---

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load("papers.xlsx")
	if err == nil {
		t.Fatalf("Load(xlsx) error = nil, want unsupported format error")
	}
}

func TestParseIntCell(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2021", 2021},
		{" 2021 ", 2021},
		{"2021.0", 2021},
		{"", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		if got := parseIntCell(tt.in); got != tt.want {
			t.Errorf("parseIntCell(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSplitAuthors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"semicolons", "Alice Smith; Bob Jones; ", 2},
		{"commas", "Alice Smith, Bob Jones", 2},
		{"semicolons win over commas", "Smith, Alice; Jones, Bob", 2},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitAuthors(tt.in); len(got) != tt.want {
				t.Errorf("splitAuthors(%q) = %v, want %d entries", tt.in, got, tt.want)
			}
		})
	}
}

func TestAssignIDUniqueWithoutDOI(t *testing.T) {
	a := types.Paper{Title: "one"}
	b := types.Paper{Title: "two"}
	assignID(&a)
	assignID(&b)
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Errorf("generated IDs not unique: %q vs %q", a.ID, b.ID)
	}
}
