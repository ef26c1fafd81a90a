package testrail

// StatusIDPassed is the distinguished TestRail status id for a passed
// result.
const StatusIDPassed int64 = 1

// Test is one entry of a test run, as returned by get_tests. CaseID is a
// pointer because TestRail reports a null case id for tests whose case
// was deleted from the suite.
type Test struct {
	ID       int64  `json:"id"`
	CaseID   *int64 `json:"case_id"`
	StatusID int64  `json:"status_id"`
	RunID    int64  `json:"run_id"`
	Title    string `json:"title"`
}

// Result is one recorded outcome of a case within a run, most recent
// first in get_results_for_case responses.
type Result struct {
	ID       int64  `json:"id"`
	TestID   int64  `json:"test_id"`
	StatusID int64  `json:"status_id"`
	Comment  string `json:"comment,omitempty"`
	Version  string `json:"version,omitempty"`
	Elapsed  string `json:"elapsed,omitempty"`
	Defects  string `json:"defects,omitempty"`
}

// Status describes one of the configured test statuses.
type Status struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Run describes a test run.
type Run struct {
	ID          int64  `json:"id"`
	SuiteID     int64  `json:"suite_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ProjectID   int64  `json:"project_id"`
	IsCompleted bool   `json:"is_completed"`
}

// Case describes a test case definition.
type Case struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	SectionID  int64  `json:"section_id"`
	TypeID     int64  `json:"type_id"`
	PriorityID int64  `json:"priority_id"`
	Refs       string `json:"refs"`
}

// Project describes a TestRail project.
type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SuiteInfo describes a test suite within a project.
type SuiteInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ProjectID int64  `json:"project_id"`
}

// Section describes a section within a suite.
type Section struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	SuiteID  int64  `json:"suite_id"`
	ParentID *int64 `json:"parent_id"`
}

// ResultFields is the request body for add_result_for_case. Zero-valued
// optional fields are omitted from the request.
type ResultFields struct {
	StatusID     int64  `json:"status_id"`
	Comment      string `json:"comment,omitempty"`
	Version      string `json:"version,omitempty"`
	Elapsed      string `json:"elapsed,omitempty"`
	Defects      string `json:"defects,omitempty"`
	AssignedToID int64  `json:"assignedto_id,omitempty"`
}

// CaseFields is the request body for add_case and update_case.
type CaseFields struct {
	Title       string `json:"title"`
	TemplateID  int64  `json:"template_id,omitempty"`
	TypeID      int64  `json:"type_id,omitempty"`
	PriorityID  int64  `json:"priority_id,omitempty"`
	Estimate    string `json:"estimate,omitempty"`
	MilestoneID int64  `json:"milestone_id,omitempty"`
	Refs        string `json:"refs,omitempty"`
	Description string `json:"custom_case_description,omitempty"`
	Steps       string `json:"custom_steps_separated,omitempty"`
}

// RunFields is the request body for add_run.
type RunFields struct {
	SuiteID      int64   `json:"suite_id,omitempty"`
	Name         string  `json:"name,omitempty"`
	Description  string  `json:"description,omitempty"`
	MilestoneID  int64   `json:"milestone_id,omitempty"`
	AssignedToID int64   `json:"assignedto_id,omitempty"`
	IncludeAll   *bool   `json:"include_all,omitempty"`
	CaseIDs      []int64 `json:"case_ids,omitempty"`
}

// SectionFields is the request body for add_section.
type SectionFields struct {
	Name        string `json:"name"`
	SuiteID     int64  `json:"suite_id,omitempty"`
	ParentID    int64  `json:"parent_id,omitempty"`
	Description string `json:"description,omitempty"`
}
