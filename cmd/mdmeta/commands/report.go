package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/mdmeta/internal/config"
	"git.home.luguber.info/inful/mdmeta/internal/report"
)

// ReportCmd implements the 'report' command.
type ReportCmd struct {
	Root       string   `arg:"" optional:"" default:"." help:"Directory to analyze"`
	Output     string   `short:"o" help:"Write the report to a file instead of stdout only"`
	Ignore     []string `short:"i" help:"Additional ignore pattern (repeatable)"`
	IgnoreFile string   `help:"Ignore file to read patterns from (gitignore format)"`
}

func (r *ReportCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	matcher := buildMatcher(cfg, r.IgnoreFile, r.Ignore)
	content, err := report.Generate(r.Root, matcher, r.Output, time.Now())
	if err != nil {
		return err
	}

	fmt.Print(content)
	return nil
}
