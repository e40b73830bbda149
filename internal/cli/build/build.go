// Package build implements "webpackext build".
package build

import (
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/global"
	"github.com/nightconcept/webpackext/internal/core/output"
)

// NewBuildCommand creates the cli.Command for "build".
func NewBuildCommand() *cli.Command {
	return &cli.Command{
		Name:            "build",
		Usage:           "Run the build script of the webpack project",
		ArgsUsage:       "[script args...]",
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			e, err := global.Load(c)
			if err != nil {
				return err
			}
			if err := e.Project().Build(c.Context, c.Args().Slice()...); err != nil {
				return global.Exit(err)
			}
			output.Success(c.App.Writer, "Built webpack project.")
			return nil
		},
	}
}
