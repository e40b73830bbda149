// Package manifest implements "webpackext manifest", which shows what the
// template function resolves for given asset names.
package manifest

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/global"
	coremanifest "github.com/nightconcept/webpackext/internal/core/manifest"
)

// NewManifestCommand creates the cli.Command for "manifest". With names it
// prints the markup for each; without names it lists every entry.
func NewManifestCommand() *cli.Command {
	return &cli.Command{
		Name:            "manifest",
		Usage:           "Render manifest entries or list them",
		ArgsUsage:       "[name...]",
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			e, err := global.Load(c)
			if err != nil {
				return err
			}
			m, err := e.Manifest()
			if err != nil {
				return global.Exit(err)
			}
			if m == nil {
				return global.Exit(coremanifest.ErrNoManifest)
			}

			w := c.App.Writer
			if c.NArg() == 0 {
				for _, name := range m.Names() {
					entry, _ := m.Lookup(name)
					_, _ = fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(entry.Paths, " "))
				}
				return nil
			}
			for _, name := range c.Args().Slice() {
				entry, err := m.Lookup(name)
				if err != nil {
					return global.Exit(err)
				}
				markup, err := entry.Render()
				if err != nil {
					return global.Exit(err)
				}
				_, _ = fmt.Fprintln(w, markup)
			}
			return nil
		},
	}
}
