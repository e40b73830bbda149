// Package app assembles the webpackext command line application and runs
// chained commands such as "webpackext create install build".
package app

import (
	"context"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/build"
	"github.com/nightconcept/webpackext/internal/cli/buildall"
	"github.com/nightconcept/webpackext/internal/cli/clean"
	"github.com/nightconcept/webpackext/internal/cli/configcmd"
	"github.com/nightconcept/webpackext/internal/cli/create"
	"github.com/nightconcept/webpackext/internal/cli/global"
	"github.com/nightconcept/webpackext/internal/cli/install"
	"github.com/nightconcept/webpackext/internal/cli/manifest"
	"github.com/nightconcept/webpackext/internal/cli/run"
	"github.com/nightconcept/webpackext/internal/cli/self"
)

// New returns the application. version is reported by --version and used
// by "self update".
func New(version string) *cli.App {
	return &cli.App{
		Name:    "webpackext",
		Usage:   "Build webpack projects and resolve their manifests",
		Version: version,
		Flags:   global.Flags(),
		Before:  global.Before,
		Action: func(c *cli.Context) error {
			return cli.ShowAppHelp(c)
		},
		Commands: []*cli.Command{
			create.NewCreateCommand(),
			clean.NewCleanCommand(),
			install.NewInstallCommand(),
			build.NewBuildCommand(),
			buildall.NewBuildAllCommand(),
			run.NewRunCommand(),
			manifest.NewManifestCommand(),
			configcmd.NewConfigCommand(),
			self.NewSelfCommand(),
		},
	}
}

// Run executes args (including the program name) on a, one chained command
// at a time, stopping at the first failure.
func Run(ctx context.Context, a *cli.App, args []string) error {
	if len(args) == 0 {
		return a.RunContext(ctx, args)
	}
	for _, seg := range Split(a, args[1:]) {
		if err := a.RunContext(ctx, append([]string{args[0]}, seg...)); err != nil {
			return err
		}
	}
	return nil
}

// Split breaks the arguments after the program name into one argument list
// per command. Global flags before the first command are repeated in every
// list. A command that skips flag parsing takes the rest of the line; any
// other command ends where the next command name starts.
func Split(a *cli.App, args []string) [][]string {
	first := -1
	for i := 0; i < len(args); i++ {
		if a.Command(args[i]) != nil {
			first = i
			break
		}
		if takesValue(a, args[i]) {
			i++
		}
	}
	if first < 0 {
		return [][]string{args}
	}

	globals := args[:first]
	var segments [][]string
	for i := first; i < len(args); {
		cmd := a.Command(args[i])
		end := len(args)
		if !cmd.SkipFlagParsing && !hasSubcommands(cmd) {
			for j := i + 1; j < len(args); j++ {
				if a.Command(args[j]) != nil {
					end = j
					break
				}
			}
		}
		seg := make([]string, 0, len(globals)+end-i)
		seg = append(seg, globals...)
		seg = append(seg, args[i:end]...)
		segments = append(segments, seg)
		i = end
	}
	return segments
}

// takesValue reports whether arg is a global flag whose value is the next
// argument, as in "-c webpackext.toml".
func takesValue(a *cli.App, arg string) bool {
	if !strings.HasPrefix(arg, "-") || strings.Contains(arg, "=") {
		return false
	}
	name := strings.TrimLeft(arg, "-")
	for _, f := range a.Flags {
		if _, ok := f.(*cli.BoolFlag); ok {
			continue
		}
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}

// hasSubcommands ignores the help command urfave/cli adds on first run.
func hasSubcommands(cmd *cli.Command) bool {
	for _, sub := range cmd.Subcommands {
		if sub.Name != "help" {
			return true
		}
	}
	return false
}
