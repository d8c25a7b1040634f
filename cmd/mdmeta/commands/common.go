package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdmeta/internal/author"
	"git.home.luguber.info/inful/mdmeta/internal/config"
	"git.home.luguber.info/inful/mdmeta/internal/discovery"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default .mdmeta.yaml if present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Update       UpdateCmd     `cmd:"" help:"Create or update metadata blocks in markdown files"`
	Report       ReportCmd     `cmd:"" help:"Generate a metadata coverage report for the project"`
	InitMdignore InitIgnoreCmd `cmd:"" name:"init-mdignore" help:"Create a default .mdignore file"`
	Watch        WatchCmd      `cmd:"" help:"Watch the tree and keep metadata blocks current"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// newResolver builds the author resolution chain from config.
func newResolver(cfg *config.Config) *author.Resolver {
	r := author.NewResolver()
	if cfg.AuthorTimeout > 0 {
		r = r.WithTimeout(cfg.AuthorTimeout)
	}
	return r
}

// buildMatcher combines default, config, ignore-file, and CLI patterns.
func buildMatcher(cfg *config.Config, ignoreFile string, extra []string) *discovery.Matcher {
	if ignoreFile == "" {
		ignoreFile = cfg.IgnoreFile
	}
	patterns := discovery.LoadIgnorePatterns(ignoreFile)
	patterns = append(patterns, cfg.IgnorePatterns...)
	patterns = append(patterns, extra...)
	return discovery.NewMatcher(patterns)
}
