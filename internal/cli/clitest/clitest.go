// Package clitest sets up a host application on disk and runs webpackext
// commands against it in memory.
package clitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/global"
	"github.com/nightconcept/webpackext/internal/core/config"
	"github.com/nightconcept/webpackext/internal/core/npm/npmtest"
)

// PackageJSON is the template package.json written by NewHost.
const PackageJSON = `{
  "name": "assets",
  "private": true,
  "scripts": {
    "build": "webpack",
    "fail": "exit 3"
  }
}
`

// Host is a host application with a template project and a fake package
// manager.
type Host struct {
	Dir        string
	ConfigPath string
	Fake       *npmtest.Fake
}

// NewHost writes webpackext.toml, a template project under assets/ and a
// fake package manager. extra is appended to the generated TOML.
func NewHost(t *testing.T, opts npmtest.Options, extra string) *Host {
	t.Helper()
	dir := t.TempDir()
	fake := npmtest.New(t, opts)

	tpl := filepath.Join(dir, "assets")
	require.NoError(t, os.MkdirAll(filepath.Join(tpl, "js"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tpl, "package.json"), []byte(PackageJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tpl, "js", "app.js"), []byte("console.log('app');\n"), 0644))
	npmtest.WriteScript(t, tpl, "build", "mkdir -p build && echo \"$*\" > build/args.txt\n")
	npmtest.WriteScript(t, tpl, "fail", "echo 'webpack crashed' >&2\nexit 3\n")

	toml := fmt.Sprintf("[webpack]\npackage_manager_bin = %q\n%s", fake.Binary, extra)
	cfgPath := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte(toml), 0644))

	return &Host{Dir: dir, ConfigPath: cfgPath, Fake: fake}
}

// BuildDir is the default build directory of the host.
func (h *Host) BuildDir() string {
	return filepath.Join(h.Dir, "instance", "assets")
}

// Result is the captured outcome of a command run.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// ExitCode returns the exit code carried by Err, 0 for success.
func (r Result) ExitCode() int {
	if r.Err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(r.Err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

// NewApp returns an in-memory app with the global flags and cmds. Exit
// errors are returned instead of terminating the test binary.
func NewApp(cmds ...*cli.Command) (*cli.App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &cli.App{
		Name:           "webpackext",
		Version:        "v0.0.0",
		Flags:          global.Flags(),
		Before:         global.Before,
		Commands:       cmds,
		Writer:         &stdout,
		ErrWriter:      &stderr,
		ExitErrHandler: func(*cli.Context, error) {},
	}, &stdout, &stderr
}

// Run runs one command line against the host's config file.
func (h *Host) Run(t *testing.T, cmds []*cli.Command, args ...string) Result {
	t.Helper()
	color.NoColor = true
	app, stdout, stderr := NewApp(cmds...)
	full := append([]string{"webpackext", "--config", h.ConfigPath}, args...)
	err := app.RunContext(context.Background(), full)
	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}
