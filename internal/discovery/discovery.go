package discovery

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/mdmeta/internal/logfields"
)

// markdownExtensions lists the recognized document extensions, lower-case.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// IsMarkdownFile reports whether path has a markdown extension.
func IsMarkdownFile(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}

// FindMarkdownFiles walks root and returns every markdown file not excluded by
// the matcher, sorted for deterministic processing. Ignored directories are
// pruned without descending. When includeRoot is false, files directly under
// root are skipped.
func FindMarkdownFiles(root string, matcher *Matcher, includeRoot bool) ([]string, error) {
	if matcher == nil {
		matcher = NewMatcher(DefaultIgnorePatterns())
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if matcher.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsMarkdownFile(path) {
			return nil
		}
		if matcher.Match(rel) {
			slog.Debug("ignoring file", logfields.Path(path))
			return nil
		}
		if !includeRoot && filepath.Dir(rel) == "." {
			slog.Debug("skipping root file", logfields.Path(path))
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// defaultIgnoreFileContent is written by init-mdignore: the baseline patterns
// plus commented sections users commonly extend.
var defaultIgnoreFileContent = []string{
	"# Markdown processing ignore file",
	"# Add patterns to ignore when processing markdown files",
	"",
	"# Common build/cache directories",
	"*.cache",
	".pytest_cache",
	".mypy_cache",
	"",
	"# Documentation build outputs",
	"docs/_build",
	"site/",
	"",
	"# Add your custom patterns below:",
}

// WriteIgnoreFile creates an .mdignore-style file at path with the default
// pattern set.
func WriteIgnoreFile(path string) error {
	var b strings.Builder
	for _, p := range DefaultIgnorePatterns() {
		b.WriteString(p)
		b.WriteString("\n")
	}
	for _, line := range defaultIgnoreFileContent {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
