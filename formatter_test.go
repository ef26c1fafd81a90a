package prerun

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterservice-rnd/robotframework-testrail/testrail"
)

func TestFormatPlan(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewConsolePlanFormatter(log.Root()).WithOutput(&buf)

	plan := &Plan{RunID: 42, Mode: "membership", CaseIDs: []int64{10, 20}}
	require.NoError(t, formatter.FormatPlan(plan))

	out := buf.String()
	assert.Contains(t, out, "Run 42 plan (membership mode)")
	assert.Contains(t, out, "C10")
	assert.Contains(t, out, "C20")
	assert.Contains(t, out, "Total")
}

func TestFormatPlanEmpty(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewConsolePlanFormatter(log.Root()).WithOutput(&buf)

	require.NoError(t, formatter.FormatPlan(&Plan{RunID: 1, Mode: "stability"}))
	assert.Contains(t, buf.String(), "stability mode")
}

func TestFormatStatuses(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewConsolePlanFormatter(log.Root()).WithOutput(&buf)

	statuses := []testrail.Status{
		{ID: 1, Name: "passed", Label: "Passed"},
		{ID: 5, Name: "failed", Label: "Failed"},
	}
	require.NoError(t, formatter.FormatStatuses(statuses))

	out := buf.String()
	assert.Contains(t, out, "Passed")
	assert.Contains(t, out, "Failed")
}
