// Package create implements "webpackext create".
package create

import (
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/global"
	"github.com/nightconcept/webpackext/internal/core/output"
	"github.com/nightconcept/webpackext/internal/core/project"
)

// NewCreateCommand creates the cli.Command for "create".
func NewCreateCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create the webpack project in the build directory",
		Action: func(c *cli.Context) error {
			e, err := global.Load(c)
			if err != nil {
				return err
			}
			res, err := e.Project().Create(c.Context)
			if err != nil {
				return global.Exit(err)
			}
			Report(c, res)
			return nil
		},
	}
}

// Report prints the status line for a create result.
func Report(c *cli.Context, res project.Result) {
	switch res {
	case project.Created:
		output.Success(c.App.Writer, "Created webpack project.")
	case project.Updated:
		output.Success(c.App.Writer, "Updated webpack project.")
	default:
		output.NothingToDo(c.App.Writer)
	}
}
