package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("# doc\n"), 0o644))
	}
}

func TestMatcher(t *testing.T) {
	m := NewMatcher([]string{"node_modules", "*.log", "docs/drafts", "/rooted"})

	cases := []struct {
		path string
		want bool
	}{
		{"node_modules", true},
		{"node_modules/pkg/readme.md", true}, // directory name matches a segment
		{"deep/node_modules/x.md", true},
		{"debug.log", true},
		{"sub/dir/trace.log", true}, // '*' crosses separators, fnmatch-style
		{"docs/drafts/wip.md", true},
		{"docs/published/ok.md", false},
		{"rooted/file.md", true}, // leading slash stripped from pattern
		{"readme.md", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, m.Match(tc.path), tc.path)
	}
}

func TestMatcherInvalidPatternSkipped(t *testing.T) {
	m := NewMatcher([]string{"[", "good.md"})
	assert.True(t, m.Match("good.md"))
	assert.False(t, m.Match("other.md"))
}

func TestFindMarkdownFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"README.md",
		"docs/guide.md",
		"docs/deep/notes.markdown",
		"docs/deep/data.json",
		"node_modules/pkg/readme.md",
		"build/out.md",
	)

	matcher := NewMatcher(DefaultIgnorePatterns())
	got, err := FindMarkdownFiles(root, matcher, true)
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "docs", "deep", "notes.markdown"),
		filepath.Join(root, "docs", "guide.md"),
	}
	assert.Equal(t, want, got)
}

func TestFindMarkdownFilesExcludeRoot(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "README.md", "docs/guide.md")

	got, err := FindMarkdownFiles(root, NewMatcher(nil), false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "docs", "guide.md")}, got)
}

func TestFindMarkdownFilesExtensionCase(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "UPPER.MD", "lower.md", "not-md.txt")

	got, err := FindMarkdownFiles(root, NewMatcher(nil), true)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestLoadIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	ignoreFile := filepath.Join(dir, ".mdignore")
	require.NoError(t, os.WriteFile(ignoreFile, []byte("# comment\n\ncustom_dir\n*.bak\n"), 0o644))

	patterns := LoadIgnorePatterns(ignoreFile)
	assert.Contains(t, patterns, "custom_dir")
	assert.Contains(t, patterns, "*.bak")
	assert.Contains(t, patterns, "node_modules") // defaults still present
	assert.NotContains(t, patterns, "# comment")
}

func TestLoadIgnorePatternsMissingFile(t *testing.T) {
	patterns := LoadIgnorePatterns(filepath.Join(t.TempDir(), "absent"))
	assert.Equal(t, DefaultIgnorePatterns(), patterns)
}

func TestDefaultIgnorePatternsIsCopy(t *testing.T) {
	a := DefaultIgnorePatterns()
	a[0] = "mutated"
	assert.NotEqual(t, "mutated", DefaultIgnorePatterns()[0])
}

func TestWriteIgnoreFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mdignore")
	require.NoError(t, WriteIgnoreFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "node_modules\n")
	assert.Contains(t, string(data), "# Add your custom patterns below:")
}
