// Package configcmd implements "webpackext config", which prints the
// generated webpack config as create would write it.
package configcmd

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/global"
)

// NewConfigCommand creates the cli.Command for "config".
func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the generated webpack config",
		Action: func(c *cli.Context) error {
			e, err := global.Load(c)
			if err != nil {
				return err
			}
			payload, err := e.Project().Payload()
			if err != nil {
				return global.Exit(err)
			}
			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return global.Exit(err)
			}
			_, _ = fmt.Fprintln(c.App.Writer, string(data))
			return nil
		},
	}
}
