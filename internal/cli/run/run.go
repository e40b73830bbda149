// Package run implements "webpackext run".
package run

import (
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/global"
	"github.com/nightconcept/webpackext/internal/core/output"
)

// NewRunCommand creates the cli.Command for "run".
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:            "run",
		Usage:           "Run a package.json script of the webpack project",
		ArgsUsage:       "<script> [script args...]",
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit(output.Failure("Error: A script name is required."), global.ExitUsage)
			}
			script := c.Args().First()

			e, err := global.Load(c)
			if err != nil {
				return err
			}
			if err := e.Project().Run(c.Context, script, c.Args().Tail()...); err != nil {
				return global.Exit(err)
			}
			output.Success(c.App.Writer, "Executed script %q.", script)
			return nil
		},
	}
}
