package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/sluice/types"
)

// VersionCommand returns the version command. It performs no work and
// contacts nothing.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "sluice %s (commit: %s)\n", types.Version, commit)
			return nil
		},
	}
}
