// Package discovery finds markdown documents under a root directory, honoring
// gitignore-style glob patterns.
package discovery

import (
	"bufio"
	"log/slog"
	"os"
	"strings"

	"github.com/gobwas/glob"

	"git.home.luguber.info/inful/mdmeta/internal/logfields"
)

// defaultIgnorePatterns is the baseline ignore list. Never handed out
// directly: DefaultIgnorePatterns returns a copy so callers cannot mutate
// shared state.
var defaultIgnorePatterns = []string{
	"node_modules",
	".git",
	".vscode",
	".idea",
	"__pycache__",
	"*.pyc",
	"*.pyo",
	".DS_Store",
	"Thumbs.db",
	"*.tmp",
	"*.temp",
	".env",
	".env.local",
	"dist",
	"build",
	"target",
	"*.log",
}

// DefaultIgnoreFile is the ignore file consulted when none is specified.
const DefaultIgnoreFile = ".gitignore"

// DefaultIgnorePatterns returns a fresh copy of the baseline ignore list.
func DefaultIgnorePatterns() []string {
	out := make([]string, len(defaultIgnorePatterns))
	copy(out, defaultIgnorePatterns)
	return out
}

// LoadIgnorePatterns returns the defaults plus the patterns from ignoreFile
// (gitignore format: blank lines and '#' comments skipped). An empty path
// falls back to .gitignore; a missing file is not an error.
func LoadIgnorePatterns(ignoreFile string) []string {
	patterns := DefaultIgnorePatterns()

	if ignoreFile == "" {
		ignoreFile = DefaultIgnoreFile
	}

	f, err := os.Open(ignoreFile)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("could not read ignore file", logfields.Path(ignoreFile), logfields.Error(err))
		}
		return patterns
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("could not read ignore file", logfields.Path(ignoreFile), logfields.Error(err))
	}

	return patterns
}

// Matcher checks relative paths against a compiled set of glob patterns with
// fnmatch semantics ('*' crosses path separators).
type Matcher struct {
	globs []glob.Glob
}

// NewMatcher compiles patterns. Leading slashes are stripped; patterns that
// fail to compile are logged and skipped.
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.TrimLeft(p, "/")
		if p == "" {
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			slog.Warn("invalid ignore pattern skipped", slog.String("pattern", p), logfields.Error(err))
			continue
		}
		m.globs = append(m.globs, g)
	}
	return m
}

// Match reports whether relPath (slash-separated, relative to the scan root)
// is ignored. A pattern matches against the whole path, any leading path
// prefix, or any single path segment, so "build" ignores build/ anywhere in
// the tree.
func (m *Matcher) Match(relPath string) bool {
	relPath = strings.TrimPrefix(strings.ReplaceAll(relPath, "\\", "/"), "./")
	if relPath == "" || relPath == "." {
		return false
	}

	parts := strings.Split(relPath, "/")
	for _, g := range m.globs {
		if g.Match(relPath) {
			return true
		}
		prefix := ""
		for _, part := range parts {
			if prefix == "" {
				prefix = part
			} else {
				prefix = prefix + "/" + part
			}
			if g.Match(prefix) || g.Match(part) {
				return true
			}
		}
	}
	return false
}
