package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/randalmurphal/promptkit/prompt"
)

// Local is a filesystem-backed Store. Each repository is a directory
// under the root; documents are files inside it. The filesystem keeps
// no history, so revisions are ignored.
type Local struct {
	root string
}

// NewLocal creates a filesystem store rooted at the given directory.
// The directory must exist.
func NewLocal(root string) (*Local, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store root %s: %w", root, prompt.ErrNotFound)
		}
		return nil, fmt.Errorf("store root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store root %s is not a directory", root)
	}
	return &Local{root: root}, nil
}

// Root returns the store's root directory.
func (l *Local) Root() string { return l.root }

func (l *Local) path(repoID, filename string) (string, error) {
	for _, part := range []string{repoID, filename} {
		if part == "" || part != filepath.Base(part) || strings.HasPrefix(part, ".") {
			return "", fmt.Errorf("invalid document address %q/%q", repoID, filename)
		}
	}
	return filepath.Join(l.root, repoID, filename), nil
}

// Fetch reads the document bytes. Revision is ignored.
func (l *Local) Fetch(ctx context.Context, repoID, filename, revision string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.path(repoID, filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s/%s: %w", repoID, filename, prompt.ErrNotFound)
		}
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	return data, nil
}

// Push writes the document bytes, creating the repository directory if
// needed.
func (l *Local) Push(ctx context.Context, repoID, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := l.path(repoID, filename)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create repository: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("push document: %w", err)
	}
	return nil
}

// List returns the document filenames in a repository, sorted. Files
// whose extension is not a known document format are skipped.
func (l *Local) List(ctx context.Context, repoID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.path(repoID, "placeholder")
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("repository %s: %w", repoID, prompt.ErrNotFound)
		}
		return nil, fmt.Errorf("list repository: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := prompt.FormatForPath(entry.Name()); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
