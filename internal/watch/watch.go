// Package watch keeps metadata blocks current while documents are edited.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/mdmeta/internal/discovery"
	"git.home.luguber.info/inful/mdmeta/internal/logfields"
	"git.home.luguber.info/inful/mdmeta/internal/updater"
)

// DefaultDebounce batches rapid editor save bursts into one pass.
const DefaultDebounce = 2 * time.Second

// DefaultMaxDelay caps how long a sustained event stream can keep resetting
// the debounce before a flush is forced anyway.
const DefaultMaxDelay = 30 * time.Second

// Options configures a Watcher.
type Options struct {
	Root     string
	Matcher  *discovery.Matcher
	Request  updater.Request
	Debounce time.Duration
	// MaxDelay bounds how long pending work can wait while debounce keeps
	// getting reset by new events.
	MaxDelay time.Duration
	// Rescan, when non-zero, schedules a full tree pass at the given interval
	// to catch changes fsnotify missed.
	Rescan time.Duration
}

// Watcher reacts to filesystem events by re-running the updater on the
// changed markdown files.
type Watcher struct {
	updater *updater.Updater
	opts    Options
	fsw     *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	kick    chan struct{}
}

// New creates a watcher over opts.Root. Call Run to start it.
func New(u *updater.Updater, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = DefaultMaxDelay
	}
	if opts.Matcher == nil {
		opts.Matcher = discovery.NewMatcher(discovery.DefaultIgnorePatterns())
	}

	abs, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch root: %w", err)
	}
	opts.Root = abs

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		updater: u,
		opts:    opts,
		fsw:     fsw,
		pending: map[string]struct{}{},
		kick:    make(chan struct{}, 1),
	}, nil
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.addTree(w.opts.Root); err != nil {
		return err
	}
	slog.Info("watching for markdown changes", logfields.Path(w.opts.Root))

	var scheduler gocron.Scheduler
	if w.opts.Rescan > 0 {
		s, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("failed to create rescan scheduler: %w", err)
		}
		if _, err := s.NewJob(
			gocron.DurationJob(w.opts.Rescan),
			gocron.NewTask(w.rescan, ctx),
			gocron.WithName("markdown-rescan"),
		); err != nil {
			return fmt.Errorf("failed to schedule rescan: %w", err)
		}
		s.Start()
		scheduler = s
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Error("error stopping rescan scheduler", logfields.Error(err))
			}
		}()
	}

	go w.flushLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", logfields.Error(err))
		}
	}
}

// addTree registers root and every non-ignored subdirectory with fsnotify.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.opts.Root, path)
	if err != nil || rel == "." {
		return false
	}
	return w.opts.Matcher.Match(filepath.ToSlash(rel))
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	// New directories need to be picked up for further events.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.ignored(event.Name) {
				if err := w.addTree(event.Name); err != nil {
					slog.Warn("failed to watch new directory",
						logfields.Path(event.Name), logfields.Error(err))
				}
			}
			return
		}
	}

	if !discovery.IsMarkdownFile(event.Name) || w.ignored(event.Name) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = struct{}{}
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// flushLoop debounces queued paths and runs them through the updater. Each
// kick resets the quiet period, but a flush deadline set by the first kick of
// a burst caps the total wait: a sustained event stream cannot postpone
// flushing past MaxDelay. Our own rewrite fires one more event; that rerun
// finds nothing to change and settles.
func (w *Watcher) flushLoop(ctx context.Context) {
	var timer *time.Timer
	var deadline time.Time
	flushed := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-flushed:
			deadline = time.Time{}
		case <-w.kick:
			now := time.Now()
			if deadline.IsZero() {
				deadline = now.Add(w.opts.MaxDelay)
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(nextWait(w.opts.Debounce, now, deadline), func() {
				w.flush(ctx)
				select {
				case flushed <- struct{}{}:
				default:
				}
			})
		}
	}
}

// nextWait is the quiet period for the next flush, clamped so the flush never
// lands after deadline.
func nextWait(debounce time.Duration, now, deadline time.Time) time.Duration {
	if remaining := deadline.Sub(now); remaining < debounce {
		if remaining < 0 {
			return 0
		}
		return remaining
	}
	return debounce
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = map[string]struct{}{}
	w.mu.Unlock()

	summary, _ := w.updater.ProcessBatch(ctx, paths, w.opts.Request)
	if summary.Modified > 0 || summary.Errored > 0 {
		slog.Info("processed changed documents",
			logfields.Count(summary.Processed),
			logfields.Modified(summary.Modified),
			logfields.Errored(summary.Errored))
	}
}

// rescan runs a full discovery pass, catching anything event delivery missed.
func (w *Watcher) rescan(ctx context.Context) {
	files, err := discovery.FindMarkdownFiles(w.opts.Root, w.opts.Matcher, true)
	if err != nil {
		slog.Error("rescan discovery failed", logfields.Error(err))
		return
	}
	summary, _ := w.updater.ProcessBatch(ctx, files, w.opts.Request)
	slog.Debug("rescan complete",
		logfields.Count(summary.Processed),
		logfields.Modified(summary.Modified),
		logfields.Errored(summary.Errored))
}
