// Package npm drives a JavaScript package manager (npm, yarn or pnpm) as an
// external process.
package npm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/nightconcept/webpackext/internal/core/output"
)

// Kind selects the command line dialect.
type Kind string

const (
	NPM  Kind = "npm"
	Yarn Kind = "yarn"
	PNPM Kind = "pnpm"
)

// stderrTail bounds how much stderr a ToolError carries.
const stderrTail = 8 << 10

// Runner invokes the package manager. Calls block until the process exits;
// there is no timeout.
type Runner struct {
	Kind   Kind
	Binary string // defaults to the Kind name looked up in PATH
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner returns a runner for kind that streams to the process's stdout
// and stderr.
func NewRunner(kind Kind) *Runner {
	return &Runner{Kind: kind, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *Runner) binary() string {
	if r.Binary != "" {
		return r.Binary
	}
	if r.Kind == "" {
		return string(NPM)
	}
	return string(r.Kind)
}

// Install runs "<pm> install args..." in dir.
func (r *Runner) Install(ctx context.Context, dir string, args ...string) error {
	return r.exec(ctx, dir, append([]string{"install"}, args...)...)
}

// RunScript runs a package.json script in dir. The script must be declared;
// otherwise a *UnknownScriptError is returned without starting a process.
func (r *Runner) RunScript(ctx context.Context, dir, name string, args ...string) error {
	scripts, err := r.Scripts(dir)
	if err != nil {
		return err
	}
	if _, ok := scripts[name]; !ok {
		return &UnknownScriptError{Script: name, Available: sortedKeys(scripts)}
	}
	return r.exec(ctx, dir, r.runArgs(name, args)...)
}

func (r *Runner) runArgs(name string, args []string) []string {
	sub := "run"
	if r.Kind == NPM || r.Kind == "" {
		sub = "run-script"
	}
	return append([]string{sub, name}, args...)
}

// Scripts returns the scripts declared in dir/package.json.
func (r *Runner) Scripts(dir string) (map[string]string, error) {
	pkg, err := ReadPackageJSON(dir)
	if err != nil {
		return nil, err
	}
	return pkg.Scripts(), nil
}

// Version asks the binary for its version.
func (r *Runner) Version(ctx context.Context) (*semver.Version, error) {
	cmd := exec.CommandContext(ctx, r.binary(), "--version")
	cmd.Env = r.environ()
	out, err := cmd.Output()
	if err != nil {
		return nil, r.toolError(cmd, []string{"--version"}, "", err)
	}
	raw := strings.TrimSpace(string(out))
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s version %q: %w", r.binary(), raw, err)
	}
	return v, nil
}

// CheckVersion fails with ErrVersionMismatch unless the installed version
// satisfies constraint. An empty constraint always passes.
func (r *Runner) CheckVersion(ctx context.Context, constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid package manager version constraint %q: %w", constraint, err)
	}
	v, err := r.Version(ctx)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s %s does not satisfy %q", ErrVersionMismatch, r.binary(), v, constraint)
	}
	return nil
}

func (r *Runner) environ() []string {
	if len(r.Env) == 0 {
		return nil
	}
	return append(os.Environ(), r.Env...)
}

func (r *Runner) exec(ctx context.Context, dir string, args ...string) error {
	tail := newTailBuffer(stderrTail)
	cmd := exec.CommandContext(ctx, r.binary(), args...)
	cmd.Dir = dir
	cmd.Env = r.environ()
	cmd.Stdout = r.Stdout
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, tail)
	} else {
		cmd.Stderr = tail
	}

	output.Debug("running package manager", "cmd", r.binary(), "args", strings.Join(args, " "), "dir", dir)
	if err := cmd.Run(); err != nil {
		return r.toolError(cmd, args, tail.String(), err)
	}
	return nil
}

func (r *Runner) toolError(cmd *exec.Cmd, args []string, stderr string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if stderr == "" {
			stderr = string(exitErr.Stderr)
		}
		return &ToolError{
			Command:  r.binary(),
			Args:     args,
			Dir:      cmd.Dir,
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr,
		}
	}
	return fmt.Errorf("failed to run %s: %w", r.binary(), err)
}
