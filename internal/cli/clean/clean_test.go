package clean_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/clean"
	"github.com/nightconcept/webpackext/internal/cli/clitest"
	"github.com/nightconcept/webpackext/internal/cli/create"
	"github.com/nightconcept/webpackext/internal/core/npm/npmtest"
)

func TestCleanCommand(t *testing.T) {
	host := clitest.NewHost(t, npmtest.Options{}, "")
	cmds := []*cli.Command{create.NewCreateCommand(), clean.NewCleanCommand()}

	res := host.Run(t, cmds, "clean")
	require.NoError(t, res.Err)
	assert.Equal(t, "Nothing to do.\n", res.Stdout)

	require.NoError(t, host.Run(t, cmds, "create").Err)
	assert.DirExists(t, host.BuildDir())

	res = host.Run(t, cmds, "clean")
	require.NoError(t, res.Err)
	assert.Equal(t, "Removed webpack project.\n", res.Stdout)
	assert.NoDirExists(t, host.BuildDir())
}

func TestCleanCommand_StaticProject(t *testing.T) {
	host := clitest.NewHost(t, npmtest.Options{}, "\n[project]\nkind = \"static\"\n")

	res := host.Run(t, []*cli.Command{clean.NewCleanCommand()}, "clean")
	require.NoError(t, res.Err)
	assert.Equal(t, "Nothing to do.\n", res.Stdout)
	assert.DirExists(t, filepath.Join(host.Dir, "assets"))
}
