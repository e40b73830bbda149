// Package buildall implements "webpackext buildall".
package buildall

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/global"
	"github.com/nightconcept/webpackext/internal/core/output"
	"github.com/nightconcept/webpackext/internal/core/project"
)

// NewBuildAllCommand creates the cli.Command for "buildall".
func NewBuildAllCommand() *cli.Command {
	return &cli.Command{
		Name:  "buildall",
		Usage: "Create, install and build the webpack project",
		Action: func(c *cli.Context) error {
			e, err := global.Load(c)
			if err != nil {
				return err
			}
			if _, err := e.Project().BuildAll(c.Context); err != nil {
				var stageErr *project.StageError
				if errors.As(err, &stageErr) {
					output.Warn("buildall stopped", "stage", stageErr.Stage)
				}
				return global.Exit(err)
			}
			output.Success(c.App.Writer, "Created, installed and built webpack project.")
			return nil
		},
	}
}
