package prerun

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterservice-rnd/robotframework-testrail/testrail"
)

func pass() testrail.Result {
	return testrail.Result{StatusID: testrail.StatusIDPassed}
}

func fail() testrail.Result {
	return testrail.Result{StatusID: 5}
}

func TestIsStable(t *testing.T) {
	tests := []struct {
		name    string
		results []testrail.Result
		depth   int
		want    bool
	}{
		{
			name:    "full window of passes",
			results: []testrail.Result{pass(), pass(), pass()},
			depth:   3,
			want:    true,
		},
		{
			name:    "one failure in the window",
			results: []testrail.Result{pass(), fail(), pass()},
			depth:   3,
			want:    false,
		},
		{
			name:    "short history",
			results: []testrail.Result{pass()},
			depth:   3,
			want:    false,
		},
		{
			name:    "no history",
			results: nil,
			depth:   3,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isStable(tt.results, tt.depth))
		})
	}
}

func TestStabilityKeepsOnlyStableCases(t *testing.T) {
	cfg := testConfig()
	cfg.ResultsDepth = 2
	tracker := &fakeTracker{
		tests: []testrail.Test{
			{ID: 1, CaseID: caseID(1)},
			{ID: 2, CaseID: caseID(2)},
			{ID: 3, CaseID: caseID(3)},
			{ID: 4, CaseID: nil},
		},
		results: map[int64][]testrail.Result{
			1: {pass(), pass()},
			2: {pass(), fail()},
			3: {pass()}, // not enough history yet
		},
	}
	filter, err := New(context.Background(), cfg, tracker)
	require.NoError(t, err)

	suite := suiteOf("smoke", "1", "2", "3")
	require.NoError(t, filter.StartSuite(context.Background(), suite))

	require.Len(t, suite.Tests, 1)
	assert.Equal(t, "test-0", suite.Tests[0].Name)
	// Membership is pre-filtered to passed tests only.
	assert.Equal(t, []int64{testrail.StatusIDPassed}, tracker.lastStatusIDs)
	assert.Equal(t, 3, tracker.resultCalls)
}

func TestStabilityReportsFirstSubmittedError(t *testing.T) {
	cfg := testConfig()
	cfg.ResultsDepth = 2
	tracker := &fakeTracker{
		tests: []testrail.Test{
			{ID: 1, CaseID: caseID(1)},
			{ID: 2, CaseID: caseID(2)},
			{ID: 3, CaseID: caseID(3)},
		},
		results: map[int64][]testrail.Result{
			1: {pass(), pass()},
		},
		resultErr: map[int64]error{
			2: errors.New("gateway timeout"),
			3: errors.New("connection reset"),
		},
	}
	filter, err := New(context.Background(), cfg, tracker)
	require.NoError(t, err)

	_, err = filter.Plan(context.Background())
	require.Error(t, err)
	assert.True(t, IsResolveError(err))
	assert.Contains(t, err.Error(), "case 2")
	assert.Contains(t, err.Error(), "gateway timeout")
}

func TestStabilityErrorEmptiesSuite(t *testing.T) {
	cfg := testConfig()
	cfg.ResultsDepth = 2
	tracker := &fakeTracker{
		tests:     []testrail.Test{{ID: 1, CaseID: caseID(1)}},
		resultErr: map[int64]error{1: errors.New("boom")},
	}
	filter, err := New(context.Background(), cfg, tracker)
	require.NoError(t, err)

	suite := suiteOf("smoke", "1")
	require.NoError(t, filter.StartSuite(context.Background(), suite))
	assert.Empty(t, suite.Tests)
}

func TestStabilityAggregateTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.ResultsDepth = 2
	cfg.AnalysisTimeout = 20 * time.Millisecond
	tracker := &fakeTracker{
		tests: []testrail.Test{
			{ID: 1, CaseID: caseID(1)},
			{ID: 2, CaseID: caseID(2)},
		},
		results: map[int64][]testrail.Result{
			1: {pass(), pass()},
			2: {pass(), pass()},
		},
		resultDelay: 500 * time.Millisecond,
	}
	filter, err := New(context.Background(), cfg, tracker)
	require.NoError(t, err)

	_, err = filter.Plan(context.Background())
	require.Error(t, err)
	assert.True(t, IsResolveError(err))
	assert.True(t, errors.Is(err, ErrAnalysisTimeout))
}
