// Package author resolves document authorship from a ranked chain of
// capability providers: git history, git user config, environment, and
// filesystem ownership. Each provider is independently fallible; the first
// success wins and failures degrade to the next provider instead of aborting.
package author

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/mdmeta/internal/logfields"
)

// Unknown is the terminal fallback when every provider fails.
const Unknown = "Unknown"

// DefaultProviderTimeout bounds each provider attempt. Git history walks can
// crawl on large repositories; a slow provider must not block the batch.
const DefaultProviderTimeout = 5 * time.Second

// Provider is one author-resolution capability.
type Provider struct {
	Name    string
	Resolve func(ctx context.Context, path string) (string, error)
}

// Resolver runs providers in rank order with a per-provider timeout.
type Resolver struct {
	providers []Provider
	timeout   time.Duration
}

// NewResolver returns the default chain: git last commit, git user config,
// environment, filesystem owner.
func NewResolver() *Resolver {
	return &Resolver{
		providers: []Provider{
			{Name: "git-log", Resolve: gitLastCommitAuthor},
			{Name: "git-config", Resolve: gitConfigAuthor},
			{Name: "environment", Resolve: environmentAuthor},
			{Name: "file-owner", Resolve: fileOwner},
		},
		timeout: DefaultProviderTimeout,
	}
}

// WithTimeout overrides the per-provider timeout (fluent helper).
func (r *Resolver) WithTimeout(d time.Duration) *Resolver {
	r.timeout = d
	return r
}

// WithProviders replaces the chain; intended for tests and config overrides.
func (r *Resolver) WithProviders(providers ...Provider) *Resolver {
	r.providers = providers
	return r
}

// Resolve returns the best available author string for path, or Unknown.
func (r *Resolver) Resolve(ctx context.Context, path string) string {
	for _, p := range r.providers {
		if ctx.Err() != nil {
			return Unknown
		}
		author, err := r.tryProvider(ctx, p, path)
		if err != nil {
			slog.Debug("author provider failed",
				slog.String("provider", p.Name), logfields.Path(path), logfields.Error(err))
			continue
		}
		if author != "" {
			slog.Debug("author resolved",
				slog.String("provider", p.Name), logfields.Path(path), logfields.Author(author))
			return author
		}
	}
	return Unknown
}

// tryProvider runs one provider under the per-provider timeout. A provider that
// overruns is abandoned; its eventual result is discarded.
func (r *Resolver) tryProvider(ctx context.Context, p Provider, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		author string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		author, err := p.Resolve(ctx, path)
		done <- result{author, err}
	}()

	select {
	case res := <-done:
		return res.author, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("provider %s: %w", p.Name, ctx.Err())
	}
}

var loadDotenvOnce sync.Once

// environmentAuthor reads AUTHOR_NAME/AUTHOR_EMAIL (or USER_NAME/USER_EMAIL)
// from the environment, loading a .env file once if one exists, and falls
// back to the OS username.
func environmentAuthor(_ context.Context, _ string) (string, error) {
	loadDotenvOnce.Do(func() {
		// Absent .env is the normal case; existing env vars keep precedence.
		_ = godotenv.Load()
	})

	name := firstEnv("AUTHOR_NAME", "USER_NAME")
	email := firstEnv("AUTHOR_EMAIL", "USER_EMAIL")

	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s <%s>", name, email), nil
	case name != "":
		return name, nil
	}

	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}
	if u.Username == "" {
		return "", errors.New("empty username")
	}
	return u.Username, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// fileOwner resolves the owning user of the file itself.
func fileOwner(_ context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	return ownerOf(info)
}
