package flags

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "TESTRAIL"

func prefixEnvVar(name string) []string {
	return []string{fmt.Sprintf("%s_%s", EnvVarPrefix, name)}
}

var (
	Server = &cli.StringFlag{
		Name:    "server",
		Value:   "",
		EnvVars: prefixEnvVar("SERVER"),
		Usage:   "TestRail server name (eg. 'testrail.example.com')",
	}
	User = &cli.StringFlag{
		Name:    "user",
		Value:   "",
		EnvVars: prefixEnvVar("USER"),
		Usage:   "TestRail user name",
	}
	Password = &cli.StringFlag{
		Name:    "password",
		Value:   "",
		EnvVars: prefixEnvVar("PASSWORD"),
		Usage:   "TestRail user password or API key",
	}
	Protocol = &cli.StringFlag{
		Name:    "protocol",
		Value:   "http",
		EnvVars: prefixEnvVar("PROTOCOL"),
		Usage:   "Protocol to reach the server with ('http' or 'https')",
	}
	Hosted = &cli.BoolFlag{
		Name:    "hosted",
		Value:   false,
		EnvVars: prefixEnvVar("HOSTED"),
		Usage:   "Target a cloud-hosted TestRail instance served from the domain root",
	}
	RunID = &cli.StringFlag{
		Name:    "run",
		Value:   "",
		EnvVars: prefixEnvVar("RUN"),
		Usage:   "TestRail run id, or 'new' to create a run",
	}
	ProjectID = &cli.Int64Flag{
		Name:    "project-id",
		Value:   0,
		EnvVars: prefixEnvVar("PROJECT_ID"),
		Usage:   "Project to create the run in (required with --run=new)",
	}
	SuiteID = &cli.Int64Flag{
		Name:    "suite-id",
		Value:   0,
		EnvVars: prefixEnvVar("SUITE_ID"),
		Usage:   "Suite to create the run from (with --run=new)",
	}
	ResultsDepth = &cli.StringFlag{
		Name:    "results-depth",
		Value:   "0",
		EnvVars: prefixEnvVar("RESULTS_DEPTH"),
		Usage:   "Number of recent passes a case needs to count as stable; 0 disables stability analysis",
	}
	Statuses = &cli.StringSliceFlag{
		Name:    "statuses",
		EnvVars: prefixEnvVar("STATUSES"),
		Usage:   "Status labels to restrict run membership to (eg. 'Passed,Retest')",
	}
	AnalysisTimeout = &cli.DurationFlag{
		Name:    "analysis-timeout",
		Value:   60 * time.Second,
		EnvVars: prefixEnvVar("ANALYSIS_TIMEOUT"),
		Usage:   "Aggregate deadline for the stability analysis",
	}
	ConfigFile = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: prefixEnvVar("CONFIG"),
		Usage:   "Path to a yaml config file supplying connection parameters",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVar("LOG_LEVEL"),
		Usage:   "Log level (trace, debug, info, warn, error)",
	}
)

var Flags = []cli.Flag{
	Server,
	User,
	Password,
	Protocol,
	Hosted,
	RunID,
	ProjectID,
	SuiteID,
	ResultsDepth,
	Statuses,
	AnalysisTimeout,
	ConfigFile,
	LogLevel,
}

// CheckRequired verifies connection parameters come from somewhere:
// either explicit flags or a config file. Completeness is validated when
// the Config is built.
func CheckRequired(ctx *cli.Context) error {
	if ctx.String(Server.Name) == "" && ctx.String(ConfigFile.Name) == "" {
		return fmt.Errorf("flag %s or %s is required", Server.Name, ConfigFile.Name)
	}
	return nil
}
