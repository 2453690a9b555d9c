package screen

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/drift-slr/pkg/types"
)

func TestScreenAllPreservesInputOrder(t *testing.T) {
	c := testClassifier()

	var papers []types.Paper
	for i := 0; i < 30; i++ {
		papers = append(papers, types.Paper{
			Number:   i + 1,
			Title:    fmt.Sprintf("Terraform drift detection study %d", i+1),
			Abstract: "Detecting configuration drift in cloud resources.",
			Year:     2021,
		})
	}

	var buf bytes.Buffer
	screened, summary, err := ScreenAll(context.Background(), c, papers, 4, &buf)
	if err != nil {
		t.Fatalf("ScreenAll() error = %v", err)
	}
	if summary.Included != 30 || summary.Excluded != 0 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v, want 30 included", summary)
	}
	for i, sp := range screened {
		if sp.Paper.Number != i+1 {
			t.Fatalf("screened[%d].Number = %d, output order does not match input", i, sp.Paper.Number)
		}
	}
}

func TestScreenAllSkipsInvalidAndContinues(t *testing.T) {
	c := testClassifier()
	papers := []types.Paper{
		{Title: "Terraform drift detection", Abstract: "Configuration drift in cloud resources.", Year: 2021},
		{Title: "", Abstract: "Missing title.", Year: 2021},
		{Title: "Unparseable year", Abstract: "Some abstract.", Year: 0},
		{Title: "GitOps reconciliation loops with ArgoCD", Abstract: "GitOps practices only.", Year: 2020},
	}

	var buf bytes.Buffer
	screened, summary, err := ScreenAll(context.Background(), c, papers, 2, &buf)
	if err != nil {
		t.Fatalf("ScreenAll() error = %v", err)
	}
	if summary.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", summary.Skipped)
	}
	if !summary.HasFailures() {
		t.Errorf("HasFailures() = false, want true")
	}
	if summary.Total() != 4 {
		t.Errorf("Total() = %d, want 4", summary.Total())
	}
	if len(screened) != 2 {
		t.Fatalf("len(screened) = %d, want 2", len(screened))
	}
	// Valid records keep their relative order.
	if screened[0].Paper.Title != "Terraform drift detection" {
		t.Errorf("screened[0] = %q, want the drift paper first", screened[0].Paper.Title)
	}
	if screened[1].Paper.Title != "GitOps reconciliation loops with ArgoCD" {
		t.Errorf("screened[1] = %q, want the GitOps paper second", screened[1].Paper.Title)
	}

	out := buf.String()
	if !strings.Contains(out, "skipped:") {
		t.Errorf("progress output missing skip lines:\n%s", out)
	}
	if !strings.Contains(out, "1 included, 1 excluded, 2 skipped (of 4)") {
		t.Errorf("progress output missing summary line:\n%s", out)
	}
}

func TestScreenAllEmptyInput(t *testing.T) {
	c := testClassifier()
	var buf bytes.Buffer
	screened, summary, err := ScreenAll(context.Background(), c, nil, 0, &buf)
	if err != nil {
		t.Fatalf("ScreenAll() error = %v", err)
	}
	if len(screened) != 0 || summary.Total() != 0 {
		t.Errorf("expected empty result, got %d papers, summary %+v", len(screened), summary)
	}
}

func TestScreenAllCancelledContext(t *testing.T) {
	c := testClassifier()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	papers := []types.Paper{
		{Title: "Terraform drift detection", Abstract: "Configuration drift.", Year: 2021},
	}

	var buf bytes.Buffer
	_, _, err := ScreenAll(ctx, c, papers, 1, &buf)
	if err == nil {
		t.Fatalf("ScreenAll() with cancelled context returned nil error")
	}
}

func TestDescribePaper(t *testing.T) {
	tests := []struct {
		name  string
		paper types.Paper
		want  string
	}{
		{"title", types.Paper{Title: "A paper"}, "A paper"},
		{"id fallback", types.Paper{ID: "10.1000/x"}, "10.1000/x"},
		{"number fallback", types.Paper{Number: 7}, "paper #7"},
		{"nothing", types.Paper{}, "(untitled)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describePaper(tt.paper); got != tt.want {
				t.Errorf("describePaper() = %q, want %q", got, tt.want)
			}
		})
	}
}
