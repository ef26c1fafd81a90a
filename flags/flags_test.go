package flags

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// TestUniqueFlags asserts that all flag names are unique, to avoid accidental conflicts between the many flags.
func TestUniqueFlags(t *testing.T) {
	seenCLI := make(map[string]struct{})
	for _, flag := range Flags {
		name := flag.Names()[0]
		if _, ok := seenCLI[name]; ok {
			t.Errorf("duplicate flag %s", name)
			continue
		}
		seenCLI[name] = struct{}{}
	}
}

func TestHasEnvVar(t *testing.T) {
	for _, flag := range Flags {
		flagName := flag.Names()[0]

		t.Run(flagName, func(t *testing.T) {
			envFlag, ok := flag.(interface {
				GetEnvVars() []string
			})
			require.True(t, ok, "flag %s must support env vars", flagName)
			envVars := envFlag.GetEnvVars()
			require.Len(t, envVars, 1, "flag %s must have exactly one env var", flagName)
			require.True(t, strings.HasPrefix(envVars[0], EnvVarPrefix+"_"),
				"flag %s env var must carry the %s prefix", flagName, EnvVarPrefix)
		})
	}
}

func TestCheckRequired(t *testing.T) {
	run := func(args ...string) error {
		app := &cli.App{
			Flags: Flags,
			Action: func(ctx *cli.Context) error {
				return CheckRequired(ctx)
			},
		}
		return app.Run(append([]string{"prerun"}, args...))
	}

	require.Error(t, run())
	require.NoError(t, run("--server", "testrail.example.com"))
	require.NoError(t, run("--config", "config.yaml"))
}
