package author

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
)

// gitLastCommitAuthor returns "Name <email>" from the newest commit touching
// the file, walking history in-process via go-git.
func gitLastCommitAuthor(_ context.Context, path string) (string, error) {
	repo, root, err := openRepository(path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)

	iter, err := repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return "", fmt.Errorf("git log: %w", err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", errors.New("no commits touch this file")
		}
		return "", fmt.Errorf("git log: %w", err)
	}

	if commit.Author.Name == "" {
		return "", errors.New("commit has no author name")
	}
	if commit.Author.Email == "" {
		return commit.Author.Name, nil
	}
	return fmt.Sprintf("%s <%s>", commit.Author.Name, commit.Author.Email), nil
}

// gitConfigAuthor returns "Name <email>" from the merged git configuration
// (local, global, system) of the repository containing the file.
func gitConfigAuthor(_ context.Context, path string) (string, error) {
	repo, _, err := openRepository(path)
	if err != nil {
		return "", err
	}

	cfg, err := repo.ConfigScoped(gitconfig.SystemScope)
	if err != nil {
		return "", fmt.Errorf("git config: %w", err)
	}

	if cfg.User.Name == "" || cfg.User.Email == "" {
		return "", errors.New("user.name or user.email not configured")
	}
	return fmt.Sprintf("%s <%s>", cfg.User.Name, cfg.User.Email), nil
}

// openRepository detects the enclosing repository of path and returns it with
// its worktree root.
func openRepository(path string) (*git.Repository, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, "", fmt.Errorf("not inside a git repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, "", fmt.Errorf("worktree: %w", err)
	}
	return repo, wt.Filesystem.Root(), nil
}
