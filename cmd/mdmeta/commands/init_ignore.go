package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/mdmeta/internal/discovery"
	"git.home.luguber.info/inful/mdmeta/internal/errors"
)

// InitIgnoreCmd implements the 'init-mdignore' command.
type InitIgnoreCmd struct {
	Path  string `arg:"" optional:"" default:".mdignore" help:"Where to write the ignore file"`
	Force bool   `help:"Overwrite an existing ignore file"`
}

func (i *InitIgnoreCmd) Run(_ *Global, _ *CLI) error {
	if _, err := os.Stat(i.Path); err == nil && !i.Force {
		return errors.New(errors.CategoryValidation, errors.SeverityFatal,
			fmt.Sprintf("%s already exists (use --force to overwrite)", i.Path))
	}

	if err := discovery.WriteIgnoreFile(i.Path); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", i.Path)
	return nil
}
