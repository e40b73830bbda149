// Package storage materializes a source tree into the build directory.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nightconcept/webpackext/internal/core/hasher"
	"github.com/nightconcept/webpackext/internal/core/output"
)

// Storage copies or links the files under src into dst and reports how many
// destination files were written. Paths in exclude are relative to src and
// are left alone.
type Storage interface {
	Sync(src, dst string, exclude ...string) (int, error)
}

// skipDirs are never materialized; they belong to the package manager.
var skipDirs = map[string]bool{
	"node_modules": true,
}

// walkFiles calls fn for every file under src with its path relative to
// src, skipping excluded paths.
func walkFiles(src string, exclude []string, fn func(rel string, info fs.FileInfo) error) error {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[filepath.Clean(e)] = true
	}
	return filepath.Walk(src, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p != src && skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if skip[rel] {
			return nil
		}
		return fn(rel, info)
	})
}

// FileStorage copies files whose content differs from the destination.
type FileStorage struct {
	Guard Guard
}

// NewFileStorage returns a copying storage restricted to guard.
func NewFileStorage(guard Guard) *FileStorage {
	return &FileStorage{Guard: guard}
}

// Sync implements Storage.
func (s *FileStorage) Sync(src, dst string, exclude ...string) (int, error) {
	changed := 0
	err := walkFiles(src, exclude, func(rel string, info fs.FileInfo) error {
		target := filepath.Join(dst, rel)
		if err := s.Guard.Check(target); err != nil {
			return err
		}
		n, err := CopyFile(filepath.Join(src, rel), target, info.Mode().Perm())
		changed += n
		return err
	})
	if err != nil {
		return changed, err
	}
	return changed, nil
}

// CopyFile copies src to dst unless dst already holds the same content. It
// returns 1 when it wrote dst and 0 when it did not.
func CopyFile(src, dst string, perm fs.FileMode) (int, error) {
	// A previous LinkStorage run may have left a symlink here.
	if fi, err := os.Lstat(dst); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(dst); err != nil {
			return 0, err
		}
	} else {
		same, err := hasher.SameContent(src, dst)
		if err != nil {
			return 0, err
		}
		if same {
			return 0, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return 0, fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	output.Debug("copied", "src", src, "dst", dst)
	return 1, nil
}

// LinkStorage symlinks files instead of copying them, so edits to the
// source tree are visible to a running watcher without another create.
type LinkStorage struct {
	Guard Guard
}

// NewLinkStorage returns a linking storage restricted to guard.
func NewLinkStorage(guard Guard) *LinkStorage {
	return &LinkStorage{Guard: guard}
}

// Sync implements Storage.
func (s *LinkStorage) Sync(src, dst string, exclude ...string) (int, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return 0, err
	}
	changed := 0
	err = walkFiles(absSrc, exclude, func(rel string, _ fs.FileInfo) error {
		target := filepath.Join(dst, rel)
		if err := s.Guard.Check(target); err != nil {
			return err
		}
		n, err := linkFile(filepath.Join(absSrc, rel), target)
		changed += n
		return err
	})
	return changed, err
}

func linkFile(src, dst string) (int, error) {
	current, err := os.Readlink(dst)
	switch {
	case err == nil && current == src:
		return 0, nil
	case err == nil:
		if err := os.Remove(dst); err != nil {
			return 0, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		// dst exists but is not a symlink: replace the regular file.
		if err := os.Remove(dst); err != nil {
			return 0, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	if err := os.Symlink(src, dst); err != nil {
		return 0, err
	}
	output.Debug("linked", "src", src, "dst", dst)
	return 1, nil
}
