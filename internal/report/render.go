// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	stageStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(46)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	arrowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			PaddingLeft(22)
)

// Render writes the PRISMA flow as a vertical stage diagram (R2.1).
func Render(w io.Writer, f Flow) {
	stages := []string{
		stage("Identification",
			fmt.Sprintf("%s records identified", count(f.TotalIdentified)),
			sourceLines(f.IdentifiedBySource)...),
	}

	if f.DuplicatesRemoved > 0 {
		stages = append(stages, stage("Deduplication",
			fmt.Sprintf("%s unique records", count(f.AfterDedup)),
			dimStyle.Render(fmt.Sprintf("%d duplicates removed", f.DuplicatesRemoved))))
	}

	stages = append(stages,
		stage("Screening",
			fmt.Sprintf("%s records screened", count(f.Screened)),
			dimStyle.Render(fmt.Sprintf("%d outside temporal scope", f.ExcludedTemporal)),
			dimStyle.Render(fmt.Sprintf("%d without abstract", f.ExcludedNoAbstract)),
			dimStyle.Render(fmt.Sprintf("%d hard exclusion criteria", f.ExcludedHard)),
			dimStyle.Render(fmt.Sprintf("%d low relevance", f.ExcludedLowRelevance))),
		stage("Included",
			fmt.Sprintf("%s records included", count(f.Included)),
			dimStyle.Render(fmt.Sprintf("%d manually verified", f.Verified))),
		stage("Full text",
			fmt.Sprintf("%s PDFs acquired", count(f.FullTextAvailable))),
	)

	arrow := arrowStyle.Render("│") + "\n" + arrowStyle.Render("▼")
	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left,
		interleave(stages, arrow)...))
}

func stage(title, headline string, details ...string) string {
	lines := []string{titleStyle.Render(title), headline}
	lines = append(lines, details...)
	return stageStyle.Render(strings.Join(lines, "\n"))
}

func count(n int) string {
	return countStyle.Render(fmt.Sprintf("%d", n))
}

func sourceLines(bySource map[string]int) []string {
	sources := make([]string, 0, len(bySource))
	for s := range bySource {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	lines := make([]string, 0, len(sources))
	for _, s := range sources {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%s: %d", s, bySource[s])))
	}
	return lines
}

func interleave(stages []string, sep string) []string {
	var out []string
	for i, s := range stages {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, s)
	}
	return out
}
