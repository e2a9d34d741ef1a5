package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nspcc-dev/binrw/cli/codec"
	"github.com/nspcc-dev/binrw/cli/db"
	"github.com/nspcc-dev/binrw/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "binrw\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a binrw instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "binrw"
	ctl.Version = config.Version
	ctl.Usage = "Binary serialization toolkit"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, codec.NewCommands()...)
	ctl.Commands = append(ctl.Commands, db.NewCommands()...)
	return ctl
}
