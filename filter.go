// Package prerun filters a test execution tree against a TestRail run
// before any test executes. Tests keep their place in the tree only when
// their bound TestRail case id is part of the resolved tag set; the set
// is computed once per filter instance, either from run membership or
// from a stability analysis of recent results.
package prerun

import (
	"context"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/peterservice-rnd/robotframework-testrail/metrics"
	"github.com/peterservice-rnd/robotframework-testrail/testrail"
	"github.com/peterservice-rnd/robotframework-testrail/types"
)

// Tracker is the slice of the TestRail API the filter depends on.
// *testrail.Client satisfies it.
type Tracker interface {
	ResolveRunID(ctx context.Context, runID string, projectID, suiteID int64) (int64, error)
	GetTests(ctx context.Context, runID int64, statusIDs []int64) ([]testrail.Test, error)
	GetResultsForCase(ctx context.Context, runID, caseID int64, limit int) ([]testrail.Result, error)
	GetStatusIDByStatusLabel(ctx context.Context, label string) (int64, error)
	GetStatuses(ctx context.Context) ([]testrail.Status, error)
}

// Visitor is the suite-walk surface the host framework drives: StartSuite
// pre-order, EndSuite post-order. Filter implements it.
type Visitor interface {
	StartSuite(ctx context.Context, suite *types.Suite) error
	EndSuite(ctx context.Context, suite *types.Suite) error
}

// Filter is the pre-run modifier. It is not safe for concurrent use; the
// host framework walks the suite tree sequentially.
type Filter struct {
	cfg     *Config
	tracker Tracker
	runID   int64
	log     log.Logger

	resolved   bool
	keep       map[int64]struct{}
	resolveErr error

	root *types.Suite
}

var _ Visitor = (*Filter)(nil)

// New creates a Filter for the configured run. A run id of "new" creates
// a fresh include-all run in the configured project.
func New(ctx context.Context, cfg *Config, tracker Tracker) (*Filter, error) {
	logger := cfg.Log
	if logger == nil {
		logger = log.Root()
	}

	runID, err := tracker.ResolveRunID(ctx, cfg.RunID, cfg.ProjectID, cfg.SuiteID)
	if err != nil {
		return nil, err
	}

	execID := uuid.New().String()
	return &Filter{
		cfg:     cfg,
		tracker: tracker,
		runID:   runID,
		log:     logger.New("run_id", runID, "execution", execID),
	}, nil
}

// RunID returns the concrete run id the filter operates on.
func (f *Filter) RunID() int64 {
	return f.runID
}

// StartSuite intersects the suite's tests with the resolved tag set,
// keeping only tests bound to a case id that is part of the run plan.
// A transient resolution failure empties the suite instead of crashing
// the run; an unknown status label is a configuration error and aborts.
func (f *Filter) StartSuite(ctx context.Context, suite *types.Suite) error {
	if f.root == nil || suite.TopLevel {
		f.root = suite
	}

	keep, err := f.caseIDs(ctx)
	if err != nil {
		if IsStatusLookupError(err) {
			return err
		}
		suite.Tests = nil
		return nil
	}

	kept := 0
	for _, test := range suite.Tests {
		raw, ok := test.CaseID()
		if !ok {
			continue
		}
		caseID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			f.log.Debug("Ignoring malformed case id tag", "suite", suite.Name, "test", test.Name, "value", raw)
			continue
		}
		if _, found := keep[caseID]; found {
			suite.Tests[kept] = test
			kept++
		}
	}
	dropped := len(suite.Tests) - kept
	suite.Tests = suite.Tests[:kept]

	f.log.Debug("Filtered suite", "suite", suite.Name, "kept", kept, "dropped", dropped)
	metrics.RecordFilterDecision(strconv.FormatInt(f.runID, 10), kept, dropped)
	return nil
}

// EndSuite prunes child suites left without any tests. A top-level suite
// that ends up empty gets a diagnostic, since the whole run will execute
// nothing.
func (f *Filter) EndSuite(ctx context.Context, suite *types.Suite) error {
	children := suite.Suites[:0]
	for _, child := range suite.Suites {
		if child.TestCount() > 0 {
			children = append(children, child)
		}
	}
	suite.Suites = children

	if (suite.TopLevel || suite == f.root) && suite.TestCount() == 0 {
		f.log.Warn("No tests to execute after filtering", "suite", suite.Name)
	}
	return nil
}

// caseIDs resolves the tag set on first use and memoizes the outcome.
// Failures are memoized too so the tracker is never hammered once per
// suite after an outage.
func (f *Filter) caseIDs(ctx context.Context) (map[int64]struct{}, error) {
	if f.resolved {
		return f.keep, f.resolveErr
	}
	f.resolved = true

	if f.cfg.ResultsDepth > 0 {
		f.keep, f.resolveErr = f.resolveStability(ctx)
	} else {
		f.keep, f.resolveErr = f.resolveMembership(ctx)
	}

	if f.resolveErr != nil && !IsStatusLookupError(f.resolveErr) {
		rootName := ""
		if f.root != nil {
			rootName = f.root.Name
		}
		f.log.Error("Tag resolution failed, excluding all tests", "suite", rootName, "err", f.resolveErr)
		metrics.RecordErrorDetails("tag_resolution", f.resolveErr)
	}
	return f.keep, f.resolveErr
}

// resolveMembership computes the tag set from plain run membership,
// optionally restricted to the configured status labels.
func (f *Filter) resolveMembership(ctx context.Context) (map[int64]struct{}, error) {
	var statusIDs []int64
	for _, label := range f.cfg.StatusNames {
		id, err := f.tracker.GetStatusIDByStatusLabel(ctx, label)
		if err != nil {
			if testrail.IsUnknownStatusError(err) {
				return nil, &StatusLookupError{Label: label, Err: err}
			}
			return nil, NewResolveError(err)
		}
		statusIDs = append(statusIDs, id)
	}

	tests, err := f.tracker.GetTests(ctx, f.runID, statusIDs)
	if err != nil {
		return nil, NewResolveError(err)
	}

	keep := make(map[int64]struct{}, len(tests))
	for _, test := range tests {
		if test.CaseID == nil {
			continue
		}
		keep[*test.CaseID] = struct{}{}
	}
	f.log.Info("Resolved run membership", "tests", len(tests), "cases", len(keep), "statuses", f.cfg.StatusNames)
	return keep, nil
}

// Plan is the dry-run outcome of one resolution pass.
type Plan struct {
	RunID   int64
	Mode    string
	CaseIDs []int64
}

// Plan resolves the tag set without mutating any suite tree and reports
// which case ids would survive filtering.
func (f *Filter) Plan(ctx context.Context) (*Plan, error) {
	keep, err := f.caseIDs(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(keep))
	for id := range keep {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	mode := "membership"
	if f.cfg.ResultsDepth > 0 {
		mode = "stability"
	}
	return &Plan{RunID: f.runID, Mode: mode, CaseIDs: ids}, nil
}
