package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"git.home.luguber.info/inful/mdmeta/internal/config"
	"git.home.luguber.info/inful/mdmeta/internal/discovery"
	"git.home.luguber.info/inful/mdmeta/internal/errors"
	"git.home.luguber.info/inful/mdmeta/internal/metadata"
	"git.home.luguber.info/inful/mdmeta/internal/updater"
	"git.home.luguber.info/inful/mdmeta/internal/util/sets"
)

// UpdateCmd implements the 'update' command.
type UpdateCmd struct {
	Files []string `arg:"" optional:"" help:"Markdown files to process (default: whole tree)"`

	Set          []string `short:"s" help:"Set a metadata field (key=value, repeatable)"`
	Remove       bool     `help:"Remove the metadata block instead of updating it"`
	Overwrite    bool     `help:"Discard existing metadata and start from a fresh block"`
	DryRun       bool     `help:"Show what would change without writing files"`
	UID          bool     `name:"uid" help:"Ensure a generated uid field exists"`
	NoAutoAuthor bool     `help:"Do not resolve a document author automatically"`
	Ignore       []string `short:"i" help:"Additional ignore pattern (repeatable)"`
	IgnoreFile   string   `help:"Ignore file to read patterns from (gitignore format)"`
	ExcludeRoot  bool     `help:"Skip markdown files directly in the root directory"`
	Yes          bool     `short:"y" help:"Process the whole tree without confirmation"`
}

func (u *UpdateCmd) Run(_ *Global, root *CLI) error {
	// Refuse a do-nothing invocation before touching any file.
	if len(u.Set) == 0 && !u.Remove && !u.Overwrite && !u.UID {
		return errors.New(errors.CategoryValidation, errors.SeverityFatal,
			"nothing to do: specify --set, --remove, --overwrite, or --uid")
	}

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	fields, err := buildFields(cfg, u.Set)
	if err != nil {
		return err
	}

	req := updater.Request{
		Fields:     fields,
		Remove:     u.Remove,
		Overwrite:  u.Overwrite,
		DryRun:     u.DryRun,
		AutoAuthor: !u.NoAutoAuthor && cfg.AutoAuthorEnabled() && !u.Remove,
		EnsureUID:  u.UID,
	}

	files := u.Files
	if len(files) == 0 {
		matcher := buildMatcher(cfg, u.IgnoreFile, u.Ignore)
		files, err = discovery.FindMarkdownFiles(".", matcher, !u.ExcludeRoot)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No markdown files found")
			return nil
		}
		if !u.Yes && !u.DryRun && !confirm(fmt.Sprintf("Process %d markdown files?", len(files))) {
			fmt.Println("Aborted")
			return nil
		}
	}

	eng := updater.New(newResolver(cfg))
	summary, results := eng.ProcessBatch(context.Background(), files, req)

	if u.DryRun {
		printDryRun(results)
	}
	fmt.Printf("Processed %d files: %d modified, %d unchanged, %d failed\n",
		summary.Processed, summary.Modified,
		summary.Processed-summary.Modified-summary.Errored, summary.Errored)

	if summary.Errored > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Errored, summary.Processed)
	}
	return nil
}

// buildFields layers config-declared fields under the CLI --set overrides.
func buildFields(cfg *config.Config, set []string) (*metadata.Block, error) {
	fields := metadata.NewBlock()
	keys := sets.New[string]()
	for k := range cfg.Fields {
		keys.Add(k)
	}
	for _, k := range sets.SortedStrings(keys) {
		fields.Set(k, cfg.Fields[k])
	}
	if cfg.Author != "" {
		fields.Set(metadata.FieldAuthor, cfg.Author)
	}

	for _, pair := range set {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.New(errors.CategoryValidation, errors.SeverityFatal,
				fmt.Sprintf("invalid --set %q: expected key=value", pair))
		}
		fields.Set(strings.ToLower(key), value)
	}

	if fields.Len() == 0 {
		return nil, nil
	}
	return fields, nil
}

func printDryRun(results []updater.Result) {
	for _, r := range results {
		if !r.Modified {
			continue
		}
		switch {
		case r.Action == updater.ActionRemoved:
			fmt.Printf("would remove metadata from %s\n", r.Path)
		case r.NewVersion != "":
			fmt.Printf("would update %s (%s -> %s, %s)\n", r.Path, r.OldVersion, r.NewVersion, r.Tier)
		default:
			fmt.Printf("would update %s\n", r.Path)
		}
	}
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
