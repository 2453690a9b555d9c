// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/pdiddy/drift-slr/pkg/types"
)

// Summary holds counts from a batch screening run (R5.3).
type Summary struct {
	Included int
	Excluded int
	Skipped  int
}

// Total returns the number of papers processed.
func (s Summary) Total() int {
	return s.Included + s.Excluded + s.Skipped
}

// HasFailures reports whether any records were skipped as invalid (R5.4).
// Callers map this to a non-zero exit status.
func (s Summary) HasFailures() bool {
	return s.Skipped > 0
}

// ScreenAll classifies every paper, fanning the work out across a bounded
// worker pool. Scoring is pure and papers are independent, so output order
// is restored by index pairing: the returned slice always follows input
// order (R5.2). Records failing validation (ErrInvalidInput) are skipped
// with a progress line and counted; the batch continues (R5.1).
func ScreenAll(ctx context.Context, c *Classifier, papers []types.Paper, workers int, w io.Writer) ([]types.ScreenedPaper, Summary, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(papers) && len(papers) > 0 {
		workers = len(papers)
	}

	decisions := make([]types.Decision, len(papers))
	failures := make([]error, len(papers))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				decisions[i], failures[i] = c.Decide(papers[i])
			}
		}()
	}

	dispatched := 0
dispatch:
	for i := range papers {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
			dispatched++
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, Summary{}, err
	}

	decidedAt := time.Now().UTC()
	var summary Summary
	screened := make([]types.ScreenedPaper, 0, len(papers))
	for i, p := range papers {
		if err := failures[i]; err != nil {
			summary.Skipped++
			fmt.Fprintf(w, "skipped:  %s (%v)\n", describePaper(p), err)
			continue
		}
		d := decisions[i]
		d.DecidedAt = decidedAt
		if d.Included {
			summary.Included++
			fmt.Fprintf(w, "included: %s (%s)\n", p.Title, d.Reason)
		} else {
			summary.Excluded++
			fmt.Fprintf(w, "excluded: %s (%s)\n", p.Title, d.Reason)
		}
		screened = append(screened, types.ScreenedPaper{Paper: p, Decision: d})
	}

	fmt.Fprintf(w, "\n%d included, %d excluded, %d skipped (of %d)\n",
		summary.Included, summary.Excluded, summary.Skipped, summary.Total())

	return screened, summary, nil
}

// describePaper names a paper for progress output when the title may be the
// invalid part.
func describePaper(p types.Paper) string {
	if p.Title != "" {
		return p.Title
	}
	if p.ID != "" {
		return p.ID
	}
	if p.Number > 0 {
		return fmt.Sprintf("paper #%d", p.Number)
	}
	return "(untitled)"
}

// IsInvalidInput reports whether err wraps ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
