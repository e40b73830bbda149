package install_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/clitest"
	"github.com/nightconcept/webpackext/internal/cli/create"
	"github.com/nightconcept/webpackext/internal/cli/install"
	"github.com/nightconcept/webpackext/internal/core/npm/npmtest"
)

func commands() []*cli.Command {
	return []*cli.Command{create.NewCreateCommand(), install.NewInstallCommand()}
}

func TestInstallCommand_ForwardsArgs(t *testing.T) {
	host := clitest.NewHost(t, npmtest.Options{}, "")
	require.NoError(t, host.Run(t, commands(), "create").Err)

	res := host.Run(t, commands(), "install", "--frozen-lockfile", "--verbose")
	require.NoError(t, res.Err)
	assert.Equal(t, "Installed webpack project.\n", res.Stdout)
	assert.DirExists(t, filepath.Join(host.BuildDir(), "node_modules"))
	assert.Equal(t, [][]string{{"install", "--frozen-lockfile", "--verbose"}}, host.Fake.Calls(t))
}

func TestInstallCommand_NotCreated(t *testing.T) {
	host := clitest.NewHost(t, npmtest.Options{}, "")

	res := host.Run(t, commands(), "install")
	assert.Equal(t, 1, res.ExitCode())
	assert.Contains(t, res.Err.Error(), "project not created")
	assert.Empty(t, host.Fake.Calls(t))
}

func TestInstallCommand_ToolFailure(t *testing.T) {
	host := clitest.NewHost(t, npmtest.Options{InstallExitCode: 2}, "")
	require.NoError(t, host.Run(t, commands(), "create").Err)

	res := host.Run(t, commands(), "install")
	assert.Equal(t, 1, res.ExitCode())
	assert.Contains(t, res.Err.Error(), "exited with code 2")
	assert.Contains(t, res.Stderr, "install failed")
	assert.NotContains(t, res.Stdout, "Installed")
}

func TestInstallCommand_VersionConstraint(t *testing.T) {
	host := clitest.NewHost(t, npmtest.Options{Version: "8.19.4"}, "package_manager_version = \">=9\"\n")
	require.NoError(t, host.Run(t, commands(), "create").Err)

	res := host.Run(t, commands(), "install")
	assert.Equal(t, 1, res.ExitCode())
	assert.Contains(t, res.Err.Error(), "version mismatch")
	assert.Equal(t, [][]string{{"--version"}}, host.Fake.Calls(t))
}
