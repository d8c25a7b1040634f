package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/mdmeta/internal/config"
	"git.home.luguber.info/inful/mdmeta/internal/updater"
	"git.home.luguber.info/inful/mdmeta/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Root       string        `arg:"" optional:"" default:"." help:"Directory to watch"`
	Rescan     time.Duration `help:"Interval for periodic full rescans (0 disables)"`
	Debounce   time.Duration `help:"Quiet period before processing a burst of changes" default:"2s"`
	UID        bool          `name:"uid" help:"Ensure a generated uid field exists"`
	Ignore     []string      `short:"i" help:"Additional ignore pattern (repeatable)"`
	IgnoreFile string        `help:"Ignore file to read patterns from (gitignore format)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	fields, err := buildFields(cfg, nil)
	if err != nil {
		return err
	}

	watcher, err := watch.New(updater.New(newResolver(cfg)), watch.Options{
		Root:    w.Root,
		Matcher: buildMatcher(cfg, w.IgnoreFile, w.Ignore),
		Request: updater.Request{
			Fields:     fields,
			AutoAuthor: cfg.AutoAuthorEnabled(),
			EnsureUID:  w.UID,
		},
		Debounce: w.Debounce,
		Rescan:   w.Rescan,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return watcher.Run(ctx)
}
