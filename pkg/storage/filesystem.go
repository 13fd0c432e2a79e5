// Package storage holds rendered report exports on local disk and signs
// the download tokens that reference them. Files live under one root,
// keyed by the job-relative paths embedded in the tokens.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Archive is the on-disk export store. Relative paths never escape the
// root; an absolute or traversing path is rejected.
type Archive struct {
	root string
}

// NewArchive ensures the root directory exists and returns the store.
func NewArchive(root string) (*Archive, error) {
	if root == "" {
		root = "./exports"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create export archive: %w", err)
	}
	return &Archive{root: root}, nil
}

// Save writes a rendered export under the given relative path, creating
// the job's directory as needed.
func (a *Archive) Save(relPath string, data []byte) error {
	path, err := a.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// Open returns a read-only handle on a stored export.
func (a *Archive) Open(relPath string) (*os.File, error) {
	path, err := a.resolve(relPath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	return file, nil
}

// Remove deletes a stored export; a missing file is not an error.
func (a *Archive) Remove(relPath string) error {
	path, err := a.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete export file: %w", err)
	}
	return nil
}

// Sweep deletes exports whose files are older than maxAge and returns the
// number removed. Exports outlive their download tokens for no reason, so
// callers sweep at the token lifetime.
func (a *Archive) Sweep(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	err := filepath.WalkDir(a.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("sweep export archive: %w", err)
	}
	return removed, nil
}

// Path reports where a relative path lands on disk.
func (a *Archive) Path(relPath string) string {
	path, err := a.resolve(relPath)
	if err != nil {
		return ""
	}
	return path
}

func (a *Archive) resolve(relPath string) (string, error) {
	if relPath == "" || filepath.IsAbs(relPath) {
		return "", fmt.Errorf("invalid export path %q", relPath)
	}
	path := filepath.Join(a.root, relPath)
	if rel, err := filepath.Rel(a.root, path); err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid export path %q", relPath)
	}
	return path, nil
}
