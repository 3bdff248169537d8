// internal/assessment/batch.go
package assessment

import (
	"context"
	"sync"

	"assessment-workers/internal/models"
)

// BatchItem is one candidate/job pairing inside a batch run.
type BatchItem struct {
	Candidate *models.CandidateProfile
	Job       *models.JobRequirement
}

// BatchResult pairs an item's result with its position in the input slice.
// Err is set when that item failed; other items are unaffected.
type BatchResult struct {
	Index  int
	Result *models.AssessmentResult
	Err    error
}

// AssessBatch scores every item concurrently with at most parallelism
// in-flight assessments. Results come back in input order regardless of
// completion order, and each item's outcome is independent of the others.
func (e *Engine) AssessBatch(ctx context.Context, items []BatchItem, opts Options, parallelism int) []BatchResult {
	if parallelism < 1 {
		parallelism = 1
	}
	if len(items) == 0 {
		return nil
	}

	results := make([]BatchResult, len(items))
	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item BatchItem) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results[i] = BatchResult{Index: i, Err: err}
				return
			}
			result, err := e.Assess(ctx, item.Candidate, item.Job, opts)
			results[i] = BatchResult{Index: i, Result: result, Err: err}
		}(i, item)
	}
	wg.Wait()

	return results
}
