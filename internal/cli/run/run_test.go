package run_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/clitest"
	"github.com/nightconcept/webpackext/internal/cli/create"
	"github.com/nightconcept/webpackext/internal/cli/run"
	"github.com/nightconcept/webpackext/internal/core/npm/npmtest"
)

func setup(t *testing.T) (*clitest.Host, []*cli.Command) {
	t.Helper()
	host := clitest.NewHost(t, npmtest.Options{}, "")
	cmds := []*cli.Command{create.NewCreateCommand(), run.NewRunCommand()}
	require.NoError(t, host.Run(t, cmds, "create").Err)
	return host, cmds
}

func TestRunCommand(t *testing.T) {
	host, cmds := setup(t)

	res := host.Run(t, cmds, "run", "build", "--watch")
	require.NoError(t, res.Err)
	assert.Equal(t, "Executed script \"build\".\n", res.Stdout)
	assert.Equal(t, [][]string{{"run-script", "build", "--watch"}}, host.Fake.Calls(t))
}

func TestRunCommand_UnknownScript(t *testing.T) {
	host, cmds := setup(t)

	res := host.Run(t, cmds, "run", "nope")
	require.Error(t, res.Err)
	assert.Equal(t, 2, res.ExitCode())
	assert.Equal(t, `Error: Invalid script name "nope".`, res.Err.Error())
	assert.Empty(t, host.Fake.Calls(t), "undeclared scripts never reach the package manager")
}

func TestRunCommand_ScriptFails(t *testing.T) {
	host, cmds := setup(t)

	res := host.Run(t, cmds, "run", "fail")
	assert.Equal(t, 1, res.ExitCode())
	assert.Contains(t, res.Stderr, "webpack crashed")
	assert.NotContains(t, res.Stdout, "Executed")
}

func TestRunCommand_MissingName(t *testing.T) {
	host, cmds := setup(t)

	res := host.Run(t, cmds, "run")
	assert.Equal(t, 2, res.ExitCode())
}
