package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdmeta/cmd/mdmeta/commands"
	"git.home.luguber.info/inful/mdmeta/internal/errors"
)

// version is stamped by the build.
var version = "dev"

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("mdmeta"),
		kong.Description("Maintain metadata blocks in markdown files: authorship, semantic versions, and content fingerprints."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli)
	if err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		adapter.HandleError(err)
	}
}
