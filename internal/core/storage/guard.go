package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrDisallowedPath indicates a write outside the sanctioned directories.
var ErrDisallowedPath = errors.New("disallowed copy path")

// DisallowedPathError carries the rejected path.
type DisallowedPathError struct {
	Path    string
	Allowed []string
}

func (e *DisallowedPathError) Error() string {
	return fmt.Sprintf("%s: %s is outside %s", ErrDisallowedPath, e.Path, strings.Join(e.Allowed, ", "))
}

// Is makes errors.Is(err, ErrDisallowedPath) work.
func (e *DisallowedPathError) Is(target error) bool {
	return target == ErrDisallowedPath
}

// Guard is the set of directories a storage may write into.
type Guard struct {
	roots []string
}

// NewGuard builds a guard from absolute directory paths. Relative entries
// are resolved against base.
func NewGuard(base string, roots ...string) Guard {
	g := Guard{}
	for _, r := range roots {
		if r == "" {
			continue
		}
		if !filepath.IsAbs(r) {
			r = filepath.Join(base, r)
		}
		g.roots = append(g.roots, filepath.Clean(r))
	}
	return g
}

// Roots returns the allowed directories.
func (g Guard) Roots() []string {
	return append([]string(nil), g.roots...)
}

// Check returns a *DisallowedPathError unless p is one of the roots or lies
// beneath one.
func (g Guard) Check(p string) error {
	clean := filepath.Clean(p)
	for _, root := range g.roots {
		rel, err := filepath.Rel(root, clean)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return nil
		}
	}
	return &DisallowedPathError{Path: clean, Allowed: g.Roots()}
}
