package create_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/clitest"
	"github.com/nightconcept/webpackext/internal/cli/create"
	"github.com/nightconcept/webpackext/internal/core/npm/npmtest"
)

func TestCreateCommand(t *testing.T) {
	host := clitest.NewHost(t, npmtest.Options{}, "")
	cmds := []*cli.Command{create.NewCreateCommand()}

	res := host.Run(t, cmds, "create")
	require.NoError(t, res.Err)
	assert.Equal(t, "Created webpack project.\n", res.Stdout)
	assert.FileExists(t, filepath.Join(host.BuildDir(), "package.json"))
	assert.FileExists(t, filepath.Join(host.BuildDir(), "config.json"))

	res = host.Run(t, cmds, "create")
	require.NoError(t, res.Err)
	assert.Equal(t, "Nothing to do.\n", res.Stdout)

	require.NoError(t, os.WriteFile(filepath.Join(host.Dir, "assets", "js", "app.js"), []byte("changed\n"), 0644))
	res = host.Run(t, cmds, "create")
	require.NoError(t, res.Err)
	assert.Equal(t, "Updated webpack project.\n", res.Stdout)

	assert.Empty(t, host.Fake.Calls(t), "create never runs the package manager")
}

func TestCreateCommand_MissingConfig(t *testing.T) {
	host := clitest.NewHost(t, npmtest.Options{}, "")
	require.NoError(t, os.Remove(host.ConfigPath))

	res := host.Run(t, []*cli.Command{create.NewCreateCommand()}, "create")
	require.Error(t, res.Err)
	assert.Equal(t, 1, res.ExitCode())
	assert.Contains(t, res.Err.Error(), "Error:")
	assert.Empty(t, res.Stdout)
}

func TestCreateCommand_InvalidConfig(t *testing.T) {
	host := clitest.NewHost(t, npmtest.Options{}, "storage = \"ftp\"\n")

	res := host.Run(t, []*cli.Command{create.NewCreateCommand()}, "create")
	assert.Equal(t, 1, res.ExitCode())
	assert.Contains(t, res.Err.Error(), "webpack.storage")
}
