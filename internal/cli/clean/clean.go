// Package clean implements "webpackext clean".
package clean

import (
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/global"
	"github.com/nightconcept/webpackext/internal/core/output"
	"github.com/nightconcept/webpackext/internal/core/project"
)

// NewCleanCommand creates the cli.Command for "clean".
func NewCleanCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Remove the webpack project build directory",
		Action: func(c *cli.Context) error {
			e, err := global.Load(c)
			if err != nil {
				return err
			}
			res, err := e.Project().Clean(c.Context)
			if err != nil {
				return global.Exit(err)
			}
			if res == project.Removed {
				output.Success(c.App.Writer, "Removed webpack project.")
			} else {
				output.NothingToDo(c.App.Writer)
			}
			return nil
		},
	}
}
