package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdmeta/internal/discovery"
	"git.home.luguber.info/inful/mdmeta/internal/updater"
)

type noopResolver struct{}

func (noopResolver) Resolve(context.Context, string) string { return "" }

func newTestWatcher(t *testing.T, root string, patterns []string) *Watcher {
	t.Helper()
	u := updater.New(noopResolver{}).
		WithClock(func() time.Time { return time.Date(2026, 4, 1, 10, 0, 0, 0, time.Local) })

	w, err := New(u, Options{Root: root, Matcher: discovery.NewMatcher(patterns)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fsw.Close() })
	return w
}

func TestIgnoredPaths(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, []string{"build/*", ".git/*"})

	assert.False(t, w.ignored(root))
	assert.False(t, w.ignored(filepath.Join(root, "docs")))
	assert.True(t, w.ignored(filepath.Join(root, "build", "out.md")))
	assert.True(t, w.ignored(filepath.Join(root, ".git", "HEAD")))
}

func TestHandleEventQueuesMarkdownOnly(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, nil)

	md := filepath.Join(root, "doc.md")
	w.handleEvent(fsnotify.Event{Name: md, Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "main.go"), Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "other.md"), Op: fsnotify.Chmod})

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Equal(t, map[string]struct{}{md: {}}, w.pending)
}

func TestFlushProcessesPending(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nbody"), 0o644))

	w := newTestWatcher(t, root, nil)
	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.flush(context.Background())

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(onDisk), "<!-- METADATA")

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Empty(t, w.pending)
}

func TestNextWait(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("quiet period wins when deadline is far", func(t *testing.T) {
		assert.Equal(t, 2*time.Second, nextWait(2*time.Second, now, now.Add(time.Minute)))
	})

	t.Run("deadline clamps the quiet period", func(t *testing.T) {
		assert.Equal(t, 500*time.Millisecond, nextWait(2*time.Second, now, now.Add(500*time.Millisecond)))
	})

	t.Run("overdue deadline flushes immediately", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), nextWait(2*time.Second, now, now.Add(-time.Second)))
	})
}

func TestSustainedEventsStillFlush(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nbody"), 0o644))

	u := updater.New(noopResolver{}).
		WithClock(func() time.Time { return time.Date(2026, 4, 1, 10, 0, 0, 0, time.Local) })
	w, err := New(u, Options{
		Root:     root,
		Matcher:  discovery.NewMatcher(nil),
		Debounce: time.Hour, // never quiets down on its own
		MaxDelay: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fsw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.flushLoop(ctx)

	// Keep kicking faster than any quiet period could elapse.
	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
			}
		}
	}()

	assert.Eventually(t, func() bool {
		onDisk, err := os.ReadFile(path)
		return err == nil && strings.Contains(string(onDisk), "<!-- METADATA")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRescanCoversWholeTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	a := filepath.Join(root, "a.md")
	b := filepath.Join(root, "docs", "b.md")
	require.NoError(t, os.WriteFile(a, []byte("# A\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("# B\n"), 0o644))

	w := newTestWatcher(t, root, nil)
	w.rescan(context.Background())

	for _, p := range []string{a, b} {
		onDisk, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Contains(t, string(onDisk), "<!-- METADATA")
	}
}
