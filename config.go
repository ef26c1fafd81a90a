package prerun

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/peterservice-rnd/robotframework-testrail/flags"
)

// DefaultAnalysisTimeout bounds the stability fan-out as a whole.
const DefaultAnalysisTimeout = 60 * time.Second

// Config holds the pre-run filter configuration.
type Config struct {
	Server   string // TestRail server name
	User     string
	Password string
	Protocol string // http or https
	Hosted   bool   // cloud-hosted instance, no /testrail path segment

	RunID     string // numeric id, or "new" to create a run
	ProjectID int64  // required when RunID is "new"
	SuiteID   int64  // suite for a newly created run

	ResultsDepth    int           // >0 enables stability analysis
	StatusNames     []string      // membership-mode status filters
	AnalysisTimeout time.Duration // aggregate deadline for the fan-out

	Log log.Logger
}

// fileConfig is the optional yaml config file shape. Explicit flags take
// precedence over file values.
type fileConfig struct {
	Server          string        `yaml:"server"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Protocol        string        `yaml:"protocol"`
	Hosted          bool          `yaml:"hosted"`
	Run             string        `yaml:"run"`
	ProjectID       int64         `yaml:"project_id"`
	SuiteID         int64         `yaml:"suite_id"`
	ResultsDepth    string   `yaml:"results_depth"`
	Statuses        []string `yaml:"statuses"`
	AnalysisTimeout string   `yaml:"analysis_timeout"`
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	cfg := &Config{
		Server:          ctx.String(flags.Server.Name),
		User:            ctx.String(flags.User.Name),
		Password:        ctx.String(flags.Password.Name),
		Protocol:        ctx.String(flags.Protocol.Name),
		Hosted:          ctx.Bool(flags.Hosted.Name),
		RunID:           ctx.String(flags.RunID.Name),
		ProjectID:       ctx.Int64(flags.ProjectID.Name),
		SuiteID:         ctx.Int64(flags.SuiteID.Name),
		ResultsDepth:    ParseResultsDepth(ctx.String(flags.ResultsDepth.Name)),
		StatusNames:     ctx.StringSlice(flags.Statuses.Name),
		AnalysisTimeout: ctx.Duration(flags.AnalysisTimeout.Name),
		Log:             logger,
	}

	if path := ctx.String(flags.ConfigFile.Name); path != "" {
		if err := cfg.applyFile(path, ctx); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile loads a yaml config file and fills in values not set on the
// command line.
func (c *Config) applyFile(path string, ctx *cli.Context) error {
	logger := c.Log
	if logger == nil {
		logger = log.Root()
	}
	logger.Debug("Reading config file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if c.Server == "" {
		c.Server = fc.Server
	}
	if c.User == "" {
		c.User = fc.User
	}
	if c.Password == "" {
		c.Password = fc.Password
	}
	if !ctx.IsSet(flags.Protocol.Name) && fc.Protocol != "" {
		c.Protocol = fc.Protocol
	}
	if !c.Hosted {
		c.Hosted = fc.Hosted
	}
	if c.RunID == "" {
		c.RunID = fc.Run
	}
	if c.ProjectID == 0 {
		c.ProjectID = fc.ProjectID
	}
	if c.SuiteID == 0 {
		c.SuiteID = fc.SuiteID
	}
	if !ctx.IsSet(flags.ResultsDepth.Name) && fc.ResultsDepth != "" {
		c.ResultsDepth = ParseResultsDepth(fc.ResultsDepth)
	}
	if len(c.StatusNames) == 0 {
		c.StatusNames = fc.Statuses
	}
	if !ctx.IsSet(flags.AnalysisTimeout.Name) && fc.AnalysisTimeout != "" {
		d, err := time.ParseDuration(fc.AnalysisTimeout)
		if err != nil {
			return fmt.Errorf("parsing analysis_timeout: %w", err)
		}
		c.AnalysisTimeout = d
	}
	return nil
}

// Validate checks the configuration for completeness.
func (c *Config) Validate() error {
	if c.Server == "" {
		return errors.New("server is required")
	}
	if c.User == "" {
		return errors.New("user is required")
	}
	if c.Password == "" {
		return errors.New("password is required")
	}
	if c.Protocol != "http" && c.Protocol != "https" {
		return fmt.Errorf("protocol must be http or https, got %q", c.Protocol)
	}
	if c.RunID == "" {
		return errors.New("run id is required")
	}
	if c.AnalysisTimeout <= 0 {
		c.AnalysisTimeout = DefaultAnalysisTimeout
	}
	return nil
}

// ParseResultsDepth parses the results-analysis depth. Non-numeric or
// negative input disables stability analysis by coercing to zero.
func ParseResultsDepth(raw string) int {
	depth, err := strconv.Atoi(raw)
	if err != nil || depth < 0 {
		return 0
	}
	return depth
}
