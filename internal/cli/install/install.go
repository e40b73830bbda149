// Package install implements "webpackext install".
package install

import (
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/global"
	"github.com/nightconcept/webpackext/internal/core/output"
)

// NewInstallCommand creates the cli.Command for "install". Every argument
// after the command name goes to the package manager untouched.
func NewInstallCommand() *cli.Command {
	return &cli.Command{
		Name:            "install",
		Usage:           "Install the webpack project's packages",
		ArgsUsage:       "[package manager args...]",
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			e, err := global.Load(c)
			if err != nil {
				return err
			}
			if err := e.Project().Install(c.Context, c.Args().Slice()...); err != nil {
				return global.Exit(err)
			}
			output.Success(c.App.Writer, "Installed webpack project.")
			return nil
		},
	}
}
