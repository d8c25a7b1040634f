// Package report summarizes metadata coverage across a documentation tree.
package report

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdmeta/internal/author"
	"git.home.luguber.info/inful/mdmeta/internal/discovery"
	"git.home.luguber.info/inful/mdmeta/internal/fileio"
	"git.home.luguber.info/inful/mdmeta/internal/logfields"
	"git.home.luguber.info/inful/mdmeta/internal/metadata"
)

// Document is one markdown file as seen by the report.
type Document struct {
	Path    string
	Title   string
	Author  string
	Version string
}

// Status aggregates per-tree metadata statistics.
type Status struct {
	Root               string
	TotalFiles         int
	WithMetadata       int
	WithoutMetadata    int
	Authors            []string
	Versions           map[string]int
	LastUpdated        string
	FilesByAuthor      map[string][]string
	FilesWithoutAuthor []string
	Documents          []Document
}

// Collect scans root for markdown files and gathers their metadata state.
// Files that cannot be read are logged and skipped.
func Collect(root string, matcher *discovery.Matcher) (*Status, error) {
	files, err := discovery.FindMarkdownFiles(root, matcher, true)
	if err != nil {
		return nil, err
	}

	status := &Status{
		Root:          root,
		TotalFiles:    len(files),
		Versions:      map[string]int{},
		FilesByAuthor: map[string][]string{},
	}

	for _, path := range files {
		raw, err := fileio.ReadDocument(path)
		if err != nil {
			slog.Warn("skipping unreadable document", logfields.Path(path), logfields.Error(err))
			continue
		}

		rel := path
		if r, err := filepath.Rel(root, path); err == nil {
			rel = filepath.ToSlash(r)
		}

		body, block := metadata.Extract(raw)
		doc := Document{Path: rel, Title: firstHeading(body)}

		if block == nil {
			status.WithoutMetadata++
			status.FilesWithoutAuthor = append(status.FilesWithoutAuthor, rel)
			status.Documents = append(status.Documents, doc)
			continue
		}

		status.WithMetadata++

		doc.Author = block.Get(metadata.FieldAuthor)
		if doc.Author != "" && doc.Author != author.Unknown {
			status.FilesByAuthor[doc.Author] = append(status.FilesByAuthor[doc.Author], rel)
		} else {
			status.FilesWithoutAuthor = append(status.FilesWithoutAuthor, rel)
		}

		doc.Version = block.Get(metadata.FieldVersion)
		if doc.Version == "" {
			doc.Version = "0.0.0"
		}
		status.Versions[doc.Version]++

		// The timestamp layout sorts lexicographically.
		if updated := block.Get(metadata.FieldUpdatedAt); updated > status.LastUpdated {
			status.LastUpdated = updated
		}

		status.Documents = append(status.Documents, doc)
	}

	for a := range status.FilesByAuthor {
		status.Authors = append(status.Authors, a)
	}
	sort.Strings(status.Authors)

	return status, nil
}

// firstHeading returns the text of the first level-1 heading in body, if any.
func firstHeading(body string) string {
	source := []byte(body)
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		heading, ok := n.(*gmast.Heading)
		if !ok || heading.Level != 1 {
			return gmast.WalkContinue, nil
		}
		var sb strings.Builder
		for c := heading.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*gmast.Text); ok {
				sb.Write(t.Segment.Value(source))
			}
		}
		title = sb.String()
		return gmast.WalkStop, nil
	})
	return title
}

// Render formats the collected status as a markdown report.
func Render(status *Status, now time.Time) string {
	var sb strings.Builder

	abs, err := filepath.Abs(status.Root)
	if err != nil {
		abs = status.Root
	}

	coverage := 0.0
	if status.TotalFiles > 0 {
		coverage = float64(status.WithMetadata) / float64(status.TotalFiles) * 100
	}

	fmt.Fprintf(&sb, "# Markdown Files Metadata Report\n\n")
	fmt.Fprintf(&sb, "Generated on: %s\n", now.Format(metadata.TimeLayout))
	fmt.Fprintf(&sb, "Project directory: %s\n\n", abs)
	fmt.Fprintf(&sb, "## Summary\n")
	fmt.Fprintf(&sb, "- Total markdown files: %d\n", status.TotalFiles)
	fmt.Fprintf(&sb, "- Files with metadata: %d\n", status.WithMetadata)
	fmt.Fprintf(&sb, "- Files without metadata: %d\n", status.WithoutMetadata)
	fmt.Fprintf(&sb, "- Coverage: %.1f%%\n\n", coverage)

	fmt.Fprintf(&sb, "## Authors\nTotal authors: %d\n", len(status.Authors))
	for _, a := range status.Authors {
		fmt.Fprintf(&sb, "- %s: %d files\n", a, len(status.FilesByAuthor[a]))
	}

	fmt.Fprintf(&sb, "\n## Version Distribution\n")
	versions := make([]string, 0, len(status.Versions))
	for v := range status.Versions {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	for _, v := range versions {
		fmt.Fprintf(&sb, "- v%s: %d files\n", v, status.Versions[v])
	}

	if len(status.Documents) > 0 {
		fmt.Fprintf(&sb, "\n## Documents\n")
		for _, doc := range status.Documents {
			title := doc.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(&sb, "- %s: %s\n", doc.Path, title)
		}
	}

	if len(status.FilesWithoutAuthor) > 0 {
		fmt.Fprintf(&sb, "\n## Files Without Author (%d)\n", len(status.FilesWithoutAuthor))
		sorted := append([]string(nil), status.FilesWithoutAuthor...)
		sort.Strings(sorted)
		for _, f := range sorted {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
	}

	if status.LastUpdated != "" {
		fmt.Fprintf(&sb, "\n## Last Updated\n%s\n", status.LastUpdated)
	}

	return sb.String()
}

// Generate collects, renders, and optionally writes the report to outputFile.
func Generate(root string, matcher *discovery.Matcher, outputFile string, now time.Time) (string, error) {
	status, err := Collect(root, matcher)
	if err != nil {
		return "", err
	}

	content := Render(status, now)
	if outputFile != "" {
		if err := fileio.WriteDocument(outputFile, content); err != nil {
			return "", err
		}
		slog.Info("report written", logfields.Path(outputFile))
	}
	return content, nil
}
