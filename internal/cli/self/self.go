// Package self implements "webpackext self update", which replaces the
// running binary with the latest GitHub release.
package self

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/webpackext/internal/cli/global"
	"github.com/nightconcept/webpackext/internal/core/output"
)

// DefaultRepository is the GitHub repository releases are fetched from.
const DefaultRepository = "nightconcept/webpackext"

// NewSelfCommand creates the "self" command and its "update" subcommand.
func NewSelfCommand() *cli.Command {
	return &cli.Command{
		Name:  "self",
		Usage: "Manage the webpackext binary itself",
		Subcommands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Update webpackext to the latest release",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Update without asking for confirmation",
					},
					&cli.BoolFlag{
						Name:  "check",
						Usage: "Only report whether an update is available",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "GitHub repository to update from, as 'owner/repo'",
						Value: DefaultRepository,
					},
				},
				Action: updateAction,
			},
		},
	}
}

// ParseVersion accepts versions with or without a leading "v".
func ParseVersion(v string) (*semver.Version, error) {
	parsed, err := semver.NewVersion(strings.TrimPrefix(v, "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", v, err)
	}
	return parsed, nil
}

// ValidateSlug checks the 'owner/repo' form of --source.
func ValidateSlug(slug string) error {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid --source %q: expected 'owner/repo'", slug)
	}
	return nil
}

func updateAction(c *cli.Context) error {
	w := c.App.Writer
	current, err := ParseVersion(c.App.Version)
	if err != nil {
		return global.Exit(err)
	}
	slug := c.String("source")
	if err := ValidateSlug(slug); err != nil {
		return cli.Exit(output.Failure("Error: %v", err), global.ExitUsage)
	}
	output.Debug("checking for updates", "current", current, "source", slug)

	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return global.Exit(fmt.Errorf("failed to create GitHub source: %w", err))
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: source})
	if err != nil {
		return global.Exit(fmt.Errorf("failed to initialize updater: %w", err))
	}

	latest, found, err := updater.DetectLatest(c.Context, selfupdate.ParseSlug(slug))
	if err != nil {
		return global.Exit(fmt.Errorf("failed to detect latest version: %w", err))
	}
	if !found || !latest.GreaterThan(current.String()) {
		output.NothingToDo(w)
		return nil
	}

	_, _ = fmt.Fprintf(w, "New version available: %s (current: %s)\n", latest.Version(), current)
	if c.Bool("check") {
		return nil
	}

	if !c.Bool("yes") {
		_, _ = fmt.Fprint(w, "Do you want to update? (y/N): ")
		input, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(strings.ToLower(input)) != "y" {
			_, _ = fmt.Fprintln(w, "Update cancelled.")
			return nil
		}
	}

	exe, err := os.Executable()
	if err != nil {
		return global.Exit(fmt.Errorf("could not locate executable: %w", err))
	}
	if err := updater.UpdateTo(c.Context, latest, exe); err != nil {
		return global.Exit(fmt.Errorf("failed to update: %w", err))
	}
	output.Success(w, "Updated webpackext to %s.", latest.Version())
	return nil
}
