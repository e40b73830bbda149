package global

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/core/npm"
)

func exitCode(t *testing.T, err error) (int, string) {
	t.Helper()
	var ec cli.ExitCoder
	require.True(t, errors.As(err, &ec))
	return ec.ExitCode(), ec.Error()
}

func TestExit(t *testing.T) {
	color.NoColor = true

	code, msg := exitCode(t, Exit(fmt.Errorf("running: %w", &npm.UnknownScriptError{Script: "lint"})))
	assert.Equal(t, ExitUsage, code)
	assert.Equal(t, `Error: Invalid script name "lint".`, msg)

	code, msg = exitCode(t, Exit(&npm.ToolError{Command: "npm", Args: []string{"install"}, ExitCode: 7}))
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, msg, "exited with code 7")

	already := cli.Exit("custom", 5)
	assert.Same(t, already, Exit(already))
}

func TestFlags(t *testing.T) {
	names := map[string]bool{}
	for _, f := range Flags() {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, n := range []string{"config", "c", "verbose", "debug"} {
		assert.True(t, names[n], n)
	}
}
