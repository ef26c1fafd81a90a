// Package testrail is a typed HTTP wrapper over the TestRail REST API v2.
package testrail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/peterservice-rnd/robotframework-testrail/metrics"
)

// RunIDNew is the sentinel run id that makes ResolveRunID create a fresh
// run instead of reusing an existing one.
const RunIDNew = "new"

// Client talks to a TestRail instance. It is stateless per call; only
// the credentials are shared between requests.
type Client struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
	log        log.Logger
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	logger     log.Logger
	timeout    time.Duration
	hosted     bool
}

// New creates a Client for the given TestRail server. Protocol must be
// "http" or "https". The API lives under the server's /testrail path
// unless WithHosted is given.
func New(server, user, password, protocol string, opts ...Option) (*Client, error) {
	if server == "" {
		return nil, fmt.Errorf("testrail: server is required")
	}
	if protocol != "http" && protocol != "https" {
		return nil, fmt.Errorf("testrail: protocol must be http or https, got %q", protocol)
	}

	cfg := &clientConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	base := fmt.Sprintf("%s://%s/testrail/index.php?/api/v2/", protocol, server)
	if cfg.hosted {
		base = fmt.Sprintf("%s://%s/index.php?/api/v2/", protocol, server)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.Root()
	}

	return &Client{
		baseURL:    base,
		user:       user,
		password:   password,
		httpClient: httpClient,
		log:        logger.New("component", "testrail-client"),
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures the client's logger.
func WithLogger(l log.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a per-request timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.timeout = d
		return nil
	}
}

// WithHosted targets a TestRail instance served from the domain root
// (cloud-hosted), without the /testrail path segment.
func WithHosted() Option {
	return func(cfg *clientConfig) error {
		cfg.hosted = true
		return nil
	}
}

// errorRS is TestRail's error response shape.
type errorRS struct {
	Error string `json:"error"`
}

// doJSON executes one API call and decodes the JSON response into dst.
// The base URL already carries the "?/api/v2/" routing query, so extra
// parameters are appended with '&'.
func (c *Client) doJSON(ctx context.Context, method, uri, operation string, params url.Values, body, dst any) error {
	endpoint := c.baseURL + uri
	if len(params) > 0 {
		endpoint += "&" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", operation, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("API request", "operation", operation, "method", method, "uri", uri)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordAPIRequest(operation, err, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var errRS errorRS
		if json.Unmarshal(respBody, &errRS) == nil && errRS.Error != "" {
			return newAPIError(operation, resp.StatusCode, errRS.Error)
		}
		msg := string(respBody)
		if msg == "" {
			msg = resp.Status
		}
		return newAPIError(operation, resp.StatusCode, msg)
	}

	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("%s: decode response: %w", operation, err)
		}
	}
	return nil
}

// GetTests lists the tests of a run, optionally restricted to the given
// status ids.
func (c *Client) GetTests(ctx context.Context, runID int64, statusIDs []int64) ([]Test, error) {
	params := url.Values{}
	if len(statusIDs) > 0 {
		ids := make([]string, len(statusIDs))
		for i, id := range statusIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		params.Set("status_id", strings.Join(ids, ","))
	}

	var tests []Test
	uri := fmt.Sprintf("get_tests/%d", runID)
	if err := c.doJSON(ctx, http.MethodGet, uri, "get_tests", params, nil, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

// GetResultsForCase lists results for a case within a run, most recent
// first, truncated to limit entries.
func (c *Client) GetResultsForCase(ctx context.Context, runID, caseID int64, limit int) ([]Result, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var results []Result
	uri := fmt.Sprintf("get_results_for_case/%d/%d", runID, caseID)
	if err := c.doJSON(ctx, http.MethodGet, uri, "get_results_for_case", params, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetStatuses lists the configured test statuses.
func (c *Client) GetStatuses(ctx context.Context) ([]Status, error) {
	var statuses []Status
	if err := c.doJSON(ctx, http.MethodGet, "get_statuses", "get_statuses", nil, nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// GetStatusIDByStatusLabel resolves a status label to its id. The match
// is case-insensitive; an unmatched label yields an UnknownStatusError.
func (c *Client) GetStatusIDByStatusLabel(ctx context.Context, label string) (int64, error) {
	statuses, err := c.GetStatuses(ctx)
	if err != nil {
		return 0, err
	}
	for _, status := range statuses {
		if strings.EqualFold(status.Label, label) {
			return status.ID, nil
		}
	}
	return 0, &UnknownStatusError{Label: label}
}

// GetTestStatusIDByCaseID returns the most recent status id recorded for
// a case within a run, or nil when the case has no results yet.
func (c *Client) GetTestStatusIDByCaseID(ctx context.Context, runID, caseID int64) (*int64, error) {
	results, err := c.GetResultsForCase(ctx, runID, caseID, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0].StatusID, nil
}

// AddResultForCase records a result for a case within a run.
func (c *Client) AddResultForCase(ctx context.Context, runID, caseID int64, fields ResultFields) error {
	uri := fmt.Sprintf("add_result_for_case/%d/%d", runID, caseID)
	return c.doJSON(ctx, http.MethodPost, uri, "add_result_for_case", nil, fields, nil)
}

// UpdateCase updates an existing test case.
func (c *Client) UpdateCase(ctx context.Context, caseID int64, fields CaseFields) (*Case, error) {
	var updated Case
	uri := fmt.Sprintf("update_case/%d", caseID)
	if err := c.doJSON(ctx, http.MethodPost, uri, "update_case", nil, fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// AddRun creates a new test run in the given project.
func (c *Client) AddRun(ctx context.Context, projectID int64, fields RunFields) (*Run, error) {
	var run Run
	uri := fmt.Sprintf("add_run/%d", projectID)
	if err := c.doJSON(ctx, http.MethodPost, uri, "add_run", nil, fields, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ResolveRunID turns a configured run id into a concrete one. The
// sentinel "new" creates an include-all run under the given project and
// suite; anything else must parse as an integer.
func (c *Client) ResolveRunID(ctx context.Context, runID string, projectID, suiteID int64) (int64, error) {
	if runID != RunIDNew {
		id, err := strconv.ParseInt(runID, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("testrail: invalid run id %q: %w", runID, err)
		}
		return id, nil
	}

	if projectID == 0 {
		return 0, fmt.Errorf("testrail: project id is required to create a run")
	}
	includeAll := true
	run, err := c.AddRun(ctx, projectID, RunFields{SuiteID: suiteID, IncludeAll: &includeAll})
	if err != nil {
		return 0, err
	}
	c.log.Info("Created test run", "run_id", run.ID, "project_id", projectID, "suite_id", suiteID)
	return run.ID, nil
}

// GetCase returns a case definition.
func (c *Client) GetCase(ctx context.Context, caseID int64) (*Case, error) {
	var cs Case
	uri := fmt.Sprintf("get_case/%d", caseID)
	if err := c.doJSON(ctx, http.MethodGet, uri, "get_case", nil, nil, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// GetCases lists cases of a suite, optionally restricted to a section.
// Zero-valued suiteID and sectionID are omitted.
func (c *Client) GetCases(ctx context.Context, projectID, suiteID, sectionID int64) ([]Case, error) {
	params := url.Values{}
	if suiteID != 0 {
		params.Set("suite_id", strconv.FormatInt(suiteID, 10))
	}
	if sectionID != 0 {
		params.Set("section_id", strconv.FormatInt(sectionID, 10))
	}

	var cases []Case
	uri := fmt.Sprintf("get_cases/%d", projectID)
	if err := c.doJSON(ctx, http.MethodGet, uri, "get_cases", params, nil, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// AddCase creates a new case under a section.
func (c *Client) AddCase(ctx context.Context, sectionID int64, fields CaseFields) (*Case, error) {
	var created Case
	uri := fmt.Sprintf("add_case/%d", sectionID)
	if err := c.doJSON(ctx, http.MethodPost, uri, "add_case", nil, fields, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetProject returns project info.
func (c *Client) GetProject(ctx context.Context, projectID int64) (*Project, error) {
	var project Project
	uri := fmt.Sprintf("get_project/%d", projectID)
	if err := c.doJSON(ctx, http.MethodGet, uri, "get_project", nil, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetSuite returns suite info.
func (c *Client) GetSuite(ctx context.Context, suiteID int64) (*SuiteInfo, error) {
	var suite SuiteInfo
	uri := fmt.Sprintf("get_suite/%d", suiteID)
	if err := c.doJSON(ctx, http.MethodGet, uri, "get_suite", nil, nil, &suite); err != nil {
		return nil, err
	}
	return &suite, nil
}

// GetSection returns section info.
func (c *Client) GetSection(ctx context.Context, sectionID int64) (*Section, error) {
	var section Section
	uri := fmt.Sprintf("get_section/%d", sectionID)
	if err := c.doJSON(ctx, http.MethodGet, uri, "get_section", nil, nil, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

// GetSections lists the sections of a suite.
func (c *Client) GetSections(ctx context.Context, projectID, suiteID int64) ([]Section, error) {
	params := url.Values{}
	params.Set("suite_id", strconv.FormatInt(suiteID, 10))

	var sections []Section
	uri := fmt.Sprintf("get_sections/%d", projectID)
	if err := c.doJSON(ctx, http.MethodGet, uri, "get_sections", params, nil, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// AddSection creates a new section in the given project.
func (c *Client) AddSection(ctx context.Context, projectID int64, fields SectionFields) (*Section, error) {
	var created Section
	uri := fmt.Sprintf("add_section/%d", projectID)
	if err := c.doJSON(ctx, http.MethodPost, uri, "add_section", nil, fields, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
