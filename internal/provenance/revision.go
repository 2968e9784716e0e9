// Package provenance looks up the git revision an input file was last
// committed at.
package provenance

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Revision returns the hash of the last commit touching path, or "" when the
// file is outside a repository, untracked, or the repository has no commits.
func Revision(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}

	rel, err := repoRelative(repo, abs)
	if err != nil {
		return "", err
	}
	if rel == "" {
		return "", nil
	}

	iter, err := repo.Log(&git.LogOptions{FileName: &rel})
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("git log %s: %w", rel, err)
	}
	defer iter.Close()

	c, err := iter.Next()
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("git log %s: %w", rel, err)
	}
	return c.Hash.String(), nil
}

// repoRelative returns abs as a slash path relative to the worktree root, or
// "" for bare repositories and paths outside the worktree.
func repoRelative(repo *git.Repository, abs string) (string, error) {
	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	root := wt.Filesystem.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", nil
	}
	return rel, nil
}
