package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/syncx-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			s, err := setup(c)
			if err != nil {
				return err
			}
			return s.emit(c, buildinfo.Get())
		},
	}
}
