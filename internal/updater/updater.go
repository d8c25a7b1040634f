// Package updater orchestrates the metadata codec, fingerprint engine, change
// classifier, and version sequencer for single documents and batches.
package updater

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/mdmeta/internal/change"
	"git.home.luguber.info/inful/mdmeta/internal/fingerprint"
	"git.home.luguber.info/inful/mdmeta/internal/metadata"
	"git.home.luguber.info/inful/mdmeta/internal/semver"
)

// AuthorResolver resolves the author for a document path. Resolution never
// fails hard; implementations degrade to a fallback value.
type AuthorResolver interface {
	Resolve(ctx context.Context, path string) string
}

// Request describes one metadata operation. Exactly one of the remove/update
// interpretations applies: Remove wins when set.
type Request struct {
	// Fields is the requested field overlay. Nil means no explicit fields.
	Fields *metadata.Block
	// Remove strips the metadata block instead of updating it.
	Remove bool
	// Overwrite discards the existing block and starts from the default skeleton.
	Overwrite bool
	// DryRun computes the result without writing.
	DryRun bool
	// AutoAuthor enables author auto-detection when no author is overlaid.
	AutoAuthor bool
	// EnsureUID generates a uid field when the document has none.
	EnsureUID bool
}

// Action describes what happened to a document.
type Action string

const (
	ActionUpdated   Action = "updated"
	ActionRemoved   Action = "removed"
	ActionUnchanged Action = "unchanged"
)

// Result reports the outcome for one document.
type Result struct {
	Path     string
	Action   Action
	Modified bool
	// OldVersion/NewVersion are set when a version bump occurred.
	OldVersion string
	NewVersion string
	Tier       change.Tier
	// Before/After hold the rendered blocks for dry-run reporting. Before is
	// empty when no block existed.
	Before string
	After  string
	// Content is the full recomposed document text when Modified.
	Content string
}

// Updater applies metadata operations to documents.
type Updater struct {
	resolver AuthorResolver
	now      func() time.Time
	newUID   func() string
}

// New creates an Updater using the given author resolver.
func New(resolver AuthorResolver) *Updater {
	return &Updater{
		resolver: resolver,
		now:      time.Now,
		newUID:   uuid.NewString,
	}
}

// WithClock overrides the time source; intended for tests.
func (u *Updater) WithClock(now func() time.Time) *Updater {
	u.now = now
	return u
}

// WithUIDSource overrides uid generation; intended for tests.
func (u *Updater) WithUIDSource(gen func() string) *Updater {
	u.newUID = gen
	return u
}

// Apply transforms a document's raw text according to the request. It is a
// pure text transformation: no file I/O happens here.
func (u *Updater) Apply(ctx context.Context, path, raw string, req Request) (Result, error) {
	body, prior := metadata.Extract(raw)

	if req.Remove {
		return u.applyRemove(path, raw, prior), nil
	}
	return u.applyUpdate(ctx, path, raw, body, prior, req)
}

func (u *Updater) applyRemove(path, raw string, prior *metadata.Block) Result {
	if prior == nil {
		return Result{Path: path, Action: ActionUnchanged}
	}
	return Result{
		Path:     path,
		Action:   ActionRemoved,
		Modified: true,
		Before:   prior.Render(),
		Content:  metadata.Remove(raw),
	}
}

func (u *Updater) applyUpdate(ctx context.Context, path, raw, body string, prior *metadata.Block, req Request) (Result, error) {
	now := u.now()

	// Canonicalize before hashing: the extracted body carries the separator
	// that sat between it and the old block, and the recomposed document
	// trims it again. Fingerprinting the trimmed form makes
	// extract-then-recompose hash to the same bytes, so an unchanged
	// document stays a no-op run after run.
	body = strings.TrimRight(body, " \t\r\n")

	overlay := metadata.NewBlock()
	if req.Fields != nil {
		overlay = req.Fields.Clone()
	}
	if req.AutoAuthor && !overlay.Has(metadata.FieldAuthor) {
		overlay.Set(metadata.FieldAuthor, u.resolver.Resolve(ctx, path))
	}
	if req.EnsureUID && !overlay.Has(metadata.FieldUID) && (prior == nil || prior.Get(metadata.FieldUID) == "") {
		overlay.Set(metadata.FieldUID, u.newUID())
	}

	var merged *metadata.Block
	if prior != nil && !req.Overwrite {
		merged = prior.Merge(overlay)
	} else {
		merged = metadata.DefaultSkeleton().Merge(overlay)
	}
	if merged.Get(metadata.FieldCreatedAt) == "" {
		merged.Set(metadata.FieldCreatedAt, now.Format(metadata.TimeLayout))
	}

	currentFP, err := fingerprint.Compute(body)
	if err != nil {
		return Result{}, err
	}

	var priorFP fingerprint.Fingerprint
	havePrior := false
	if prior != nil {
		priorFP, havePrior = fingerprint.Decode(prior.Get(metadata.FieldFingerprint))
	}

	result := Result{Path: path, Action: ActionUpdated}
	if prior != nil {
		result.Before = prior.Render()
	}

	if havePrior && priorFP.ContentHash == currentFP.ContentHash {
		// Body unchanged. A true no-op must not move updated_at.
		if merged.EqualExcluding(prior, metadata.FieldUpdatedAt) {
			result.Action = ActionUnchanged
			return result, nil
		}
		// Fields changed (author, custom keys) without a body change:
		// re-serialize without a version bump.
	} else if havePrior {
		// Body changed against a known fingerprint: classify and bump.
		tier := change.Classify(priorFP.HeadingList(), fingerprint.Headings(body))
		oldVersion := merged.Get(metadata.FieldVersion)
		newVersion, bumpErr := semver.Bump(oldVersion, tier)
		if bumpErr != nil {
			return Result{}, bumpErr
		}
		merged.Set(metadata.FieldVersion, newVersion)
		result.Tier = tier
		result.OldVersion = oldVersion
		result.NewVersion = newVersion
	}
	// No prior fingerprint: first-time metadata keeps the merged version
	// untouched; there is nothing trustworthy to diff against.

	encoded, err := currentFP.Encode()
	if err != nil {
		return Result{}, err
	}
	merged.Set(metadata.FieldFingerprint, encoded)

	content := metadata.ComposeDocument(body, metadata.Serialize(merged, now))
	result.After = merged.Render()

	if content == raw {
		result.Action = ActionUnchanged
		return result, nil
	}

	result.Modified = true
	result.Content = content
	return result, nil
}
