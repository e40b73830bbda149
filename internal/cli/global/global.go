// Package global holds the flags shared by every webpackext command and the
// helpers commands use to load the extension and report failures.
package global

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/core/config"
	"github.com/nightconcept/webpackext/internal/core/ext"
	"github.com/nightconcept/webpackext/internal/core/npm"
	"github.com/nightconcept/webpackext/internal/core/output"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// Flags returns the application-level flags.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the configuration file",
			Value:   config.FileName,
			EnvVars: []string{"WEBPACKEXT_CONFIG"},
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable verbose output",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Force debug mode in the generated webpack config",
		},
	}
}

// Before configures logging from the --verbose flag.
func Before(c *cli.Context) error {
	output.SetupLogging(c.App.ErrWriter, c.Bool("verbose"))
	return nil
}

// Load builds the extension from the file named by --config. Package
// manager output is streamed to the app's writers.
func Load(c *cli.Context) (*ext.Extension, error) {
	path := c.String("config")
	output.Debug("loading configuration", "path", path)
	e, err := ext.Load(path, ext.WithOutput(c.App.Writer, c.App.ErrWriter))
	if err != nil {
		return nil, Exit(err)
	}
	if c.Bool("debug") {
		e.SetDebug(true)
	}
	return e, nil
}

// Exit converts err into a cli.ExitCoder. Undeclared scripts exit with
// ExitUsage, everything else with ExitFailure.
func Exit(err error) error {
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		return err
	}
	var unknown *npm.UnknownScriptError
	if errors.As(err, &unknown) {
		return cli.Exit(output.Failure("Error: Invalid script name %q.", unknown.Script), ExitUsage)
	}
	return cli.Exit(output.Failure("Error: %v", err), ExitFailure)
}
