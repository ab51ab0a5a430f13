// Package adapter contains the infrastructure adapters the workflow is
// composed from: filesystem access, the model endpoint, the external test
// runner and the run-manifest store.
package adapter

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	m "testforge.dev/pkg/testforge/internal/model"
)

// Directories the walker never descends into. Generated output folders are
// skipped so a rerun does not feed artifacts back into generation.
var skippedDirs = map[string]bool{
	".git":         true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"node_modules": true,
	"tests":        true,
	"docs":         true,
}

// SourceFSAdapter abstracts the filesystem operations the workflow relies on
// when scanning projects and writing artifacts. Hiding direct `os` access
// keeps the workflow testable without touching the disk.
type SourceFSAdapter interface {
	// WalkSources traverses root recursively and calls fn once for every
	// regular file whose extension is in exts and whose path matches none of
	// the exclude patterns. Returning an error from fn stops the walk.
	WalkSources(root m.Path, exts []string, exclude []string, fn SourceWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// EnsureDir creates the directory (and parents) if it does not exist.
	EnsureDir(path m.Path) error

	// FileInfo returns metadata so callers can check existence.
	FileInfo(path m.Path) (os.FileInfo, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// SourceWalkFunc receives each matched source file path along with its path
// relative to the walk root.
type SourceWalkFunc func(path, relPath m.Path) error

// LocalSourceFSAdapter is the os-backed SourceFSAdapter implementation.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter ready to be
// wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// WalkSources iterates over matching files under root.
func (a *LocalSourceFSAdapter) WalkSources(root m.Path, exts []string, exclude []string, fn SourceWalkFunc) error {
	rootStr := string(root)

	excludeRes, err := compilePatterns(exclude)
	if err != nil {
		return err
	}

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// An unreadable directory below the root is skipped like any
			// other filtered-out folder. Errors on the root itself abort.
			if path != rootStr && info != nil && info.IsDir() {
				slog.Warn("Skipping unreadable directory", "path", path, "error", err)
				return filepath.SkipDir
			}

			return err
		}

		if info.IsDir() {
			if path != rootStr && skippedDirs[filepath.Base(path)] {
				return filepath.SkipDir
			}

			return nil
		}

		if !info.Mode().IsRegular() || !hasExt(path, exts) {
			return nil
		}

		rel, relErr := filepath.Rel(rootStr, path)
		if relErr != nil {
			return relErr
		}

		for _, re := range excludeRes {
			if re.MatchString(rel) {
				return nil
			}
		}

		return fn(m.Path(path), m.Path(rel))
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// EnsureDir creates the directory and any missing parents.
func (a *LocalSourceFSAdapter) EnsureDir(path m.Path) error {
	return os.MkdirAll(string(path), 0o750)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range exts {
		if ext == strings.ToLower(want) {
			return true
		}
	}

	return false
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}

		res = append(res, re)
	}

	return res, nil
}
