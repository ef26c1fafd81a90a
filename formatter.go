package prerun

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/peterservice-rnd/robotframework-testrail/testrail"
)

// PlanFormatter is responsible for formatting and displaying resolution
// outcomes.
type PlanFormatter interface {
	FormatPlan(plan *Plan) error
	FormatStatuses(statuses []testrail.Status) error
}

// ConsolePlanFormatter implements the PlanFormatter interface.
type ConsolePlanFormatter struct {
	logger log.Logger
	out    io.Writer
}

// NewConsolePlanFormatter creates a new ConsolePlanFormatter writing to
// stdout.
func NewConsolePlanFormatter(logger log.Logger) *ConsolePlanFormatter {
	return &ConsolePlanFormatter{
		logger: logger,
		out:    os.Stdout,
	}
}

// WithOutput redirects the formatter's output, mainly for tests.
func (f *ConsolePlanFormatter) WithOutput(w io.Writer) *ConsolePlanFormatter {
	f.out = w
	return f
}

// FormatPlan renders which case ids would survive filtering.
func (f *ConsolePlanFormatter) FormatPlan(plan *Plan) error {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle(fmt.Sprintf("Run %d plan (%s mode)", plan.RunID, plan.Mode))

	t.AppendHeader(table.Row{"#", "Case ID"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Case ID", Align: text.AlignRight},
	})

	for i, caseID := range plan.CaseIDs {
		t.AppendRow(table.Row{i + 1, fmt.Sprintf("C%d", caseID)})
	}
	t.AppendFooter(table.Row{"Total", len(plan.CaseIDs)})
	t.Render()

	if len(plan.CaseIDs) == 0 {
		f.logger.Warn("Plan is empty, nothing would execute", "run_id", plan.RunID)
	}
	return nil
}

// FormatStatuses renders the statuses configured on the tracker.
func (f *ConsolePlanFormatter) FormatStatuses(statuses []testrail.Status) error {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("TestRail statuses")

	t.AppendHeader(table.Row{"ID", "Name", "Label"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "ID", Align: text.AlignRight},
	})

	for _, status := range statuses {
		t.AppendRow(table.Row{status.ID, status.Name, status.Label})
	}
	t.Render()
	return nil
}
