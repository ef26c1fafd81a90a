package prerun

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/peterservice-rnd/robotframework-testrail/metrics"
	"github.com/peterservice-rnd/robotframework-testrail/testrail"
)

type caseOutcome struct {
	stable bool
	err    error
}

// resolveStability computes the tag set from result history: a case
// makes the cut only when its most recent results form a full window of
// ResultsDepth passes. One fetch per case runs concurrently, bounded as
// a whole by AnalysisTimeout.
func (f *Filter) resolveStability(ctx context.Context) (map[int64]struct{}, error) {
	start := time.Now()

	tests, err := f.tracker.GetTests(ctx, f.runID, []int64{testrail.StatusIDPassed})
	if err != nil {
		return nil, NewResolveError(err)
	}

	caseIDs := make([]int64, 0, len(tests))
	for _, test := range tests {
		if test.CaseID == nil {
			continue
		}
		caseIDs = append(caseIDs, *test.CaseID)
	}
	f.log.Debug("Analyzing case stability", "cases", len(caseIDs), "depth", f.cfg.ResultsDepth)

	ctx, cancel := context.WithTimeout(ctx, f.cfg.AnalysisTimeout)
	defer cancel()

	// Each worker owns its slot; the close(done) below publishes the
	// writes to the reader.
	outcomes := make([]caseOutcome, len(caseIDs))
	var wg sync.WaitGroup
	for i, caseID := range caseIDs {
		wg.Add(1)
		go func(i int, caseID int64) {
			defer wg.Done()
			results, err := f.tracker.GetResultsForCase(ctx, f.runID, caseID, f.cfg.ResultsDepth)
			if err != nil {
				outcomes[i] = caseOutcome{err: err}
				return
			}
			outcomes[i] = caseOutcome{stable: isStable(results, f.cfg.ResultsDepth)}
		}(i, caseID)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// Stragglers are abandoned; nothing reads their slots.
		return nil, NewResolveError(ErrAnalysisTimeout)
	}

	keep := make(map[int64]struct{})
	stable, unstable := 0, 0
	for i, outcome := range outcomes {
		if outcome.err != nil {
			return nil, NewResolveError(fmt.Errorf("case %d: %w", caseIDs[i], outcome.err))
		}
		if outcome.stable {
			keep[caseIDs[i]] = struct{}{}
			stable++
		} else {
			unstable++
		}
	}

	duration := time.Since(start)
	metrics.RecordStability(strconv.FormatInt(f.runID, 10), stable, unstable, duration)
	f.log.Info("Stability analysis complete",
		"cases", len(caseIDs),
		"stable", stable,
		"unstable", unstable,
		"depth", f.cfg.ResultsDepth,
		"duration", duration)
	return keep, nil
}

// isStable reports whether the history is a full window of passes. A
// short window means the case has not yet accumulated enough history to
// be trusted.
func isStable(results []testrail.Result, depth int) bool {
	if len(results) != depth {
		return false
	}
	for _, result := range results {
		if result.StatusID != testrail.StatusIDPassed {
			return false
		}
	}
	return true
}
