package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	prerun "github.com/peterservice-rnd/robotframework-testrail"
	"github.com/peterservice-rnd/robotframework-testrail/exitcodes"
	"github.com/peterservice-rnd/robotframework-testrail/flags"
	"github.com/peterservice-rnd/robotframework-testrail/service"
	"github.com/peterservice-rnd/robotframework-testrail/testrail"
)

var (
	Version   = "v2.0.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "testrail-prerun"
	app.Usage = "TestRail run filtering for automated test execution"
	app.Description = "testrail-prerun resolves which TestRail cases a run should execute"
	app.Flags = flags.Flags
	app.Commands = []*cli.Command{
		{
			Name:   "plan",
			Usage:  "Resolve the run plan and print the case ids that would execute",
			Action: runPlan,
		},
		{
			Name:   "statuses",
			Usage:  "List the statuses configured on the tracker",
			Action: runStatuses,
		},
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			cli.HandleExitCoder(cli.Exit(err.Error(), exitCode(err)))
		}
	}

	// Start telemetry
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer otelShutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start healthz and metrics servers
	svc := service.New()
	svc.Start(ctx)
	defer svc.Shutdown()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

// exitCode maps typed errors onto the process exit code. Configuration
// mistakes are distinguished from transient tracker failures.
func exitCode(err error) int {
	if prerun.IsStatusLookupError(err) {
		return exitcodes.ConfigErr
	}
	return exitcodes.Failure
}

func initLogger(ctx *cli.Context) log.Logger {
	level, err := log.LvlFromString(ctx.String(flags.LogLevel.Name))
	if err != nil {
		level = log.LevelInfo
	}
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, level, false)
	logger := log.NewLogger(handler)
	log.SetDefault(logger)
	return logger
}

func setup(ctx *cli.Context) (*prerun.Config, *testrail.Client, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, nil, err
	}
	logger := initLogger(ctx)

	cfg, err := prerun.NewConfig(ctx, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config: %w", err)
	}
	cfg.Log.Debug("Config", "server", cfg.Server, "run", cfg.RunID, "depth", cfg.ResultsDepth)

	opts := []testrail.Option{testrail.WithLogger(cfg.Log)}
	if cfg.Hosted {
		opts = append(opts, testrail.WithHosted())
	}
	client, err := testrail.New(cfg.Server, cfg.User, cfg.Password, cfg.Protocol, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracker client: %w", err)
	}
	return cfg, client, nil
}

func runPlan(ctx *cli.Context) error {
	cfg, client, err := setup(ctx)
	if err != nil {
		return err
	}

	filter, err := prerun.New(ctx.Context, cfg, client)
	if err != nil {
		return fmt.Errorf("failed to create filter: %w", err)
	}

	plan, err := filter.Plan(ctx.Context)
	if err != nil {
		return err
	}
	return prerun.NewConsolePlanFormatter(cfg.Log).FormatPlan(plan)
}

func runStatuses(ctx *cli.Context) error {
	cfg, client, err := setup(ctx)
	if err != nil {
		return err
	}

	statuses, err := client.GetStatuses(ctx.Context)
	if err != nil {
		return err
	}
	return prerun.NewConsolePlanFormatter(cfg.Log).FormatStatuses(statuses)
}
