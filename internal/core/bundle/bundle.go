// Package bundle merges the asset bundles declared by independent modules
// into the single entry table, alias table and dependency set of one
// webpack project.
package bundle

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrEntryConflict indicates two bundles declaring one entry name with
	// different paths.
	ErrEntryConflict = errors.New("conflicting bundle entry")

	// ErrDependencyConflict indicates two bundles requiring one package with
	// constraints that cannot be ordered.
	ErrDependencyConflict = errors.New("conflicting bundle dependency")
)

// Dependency groups as they appear in package.json.
const (
	Dependencies     = "dependencies"
	DevDependencies  = "devDependencies"
	PeerDependencies = "peerDependencies"
)

// Groups lists the dependency groups in package.json order.
var Groups = []string{Dependencies, DevDependencies, PeerDependencies}

// Copy is a file or directory a bundle wants placed in the build tree.
type Copy struct {
	From string
	To   string
}

// Bundle is one module's assets: a folder plus the entry points and npm
// packages it needs.
type Bundle struct {
	Name         string
	Path         string
	Entry        map[string]string
	Dependencies map[string]map[string]string // group -> package -> constraint
	Aliases      map[string]string
	Copy         []Copy
}

// Merged is the combination of several bundles.
type Merged struct {
	Entry        map[string]string
	Aliases      map[string]string
	Dependencies map[string]map[string]string
}

// Merge combines bundles in order. Entries and aliases are unioned; a
// repeated name is fine as long as it maps to the same value. Dependencies
// on the same package keep the constraint with the higher minimum version.
func Merge(bundles []Bundle) (*Merged, error) {
	m := &Merged{
		Entry:        map[string]string{},
		Aliases:      map[string]string{},
		Dependencies: map[string]map[string]string{},
	}
	for _, b := range bundles {
		if err := mergeTable(m.Entry, b.Entry, "entry", b.Name); err != nil {
			return nil, err
		}
		if err := mergeTable(m.Aliases, b.Aliases, "alias", b.Name); err != nil {
			return nil, err
		}
		for group, deps := range b.Dependencies {
			if m.Dependencies[group] == nil {
				m.Dependencies[group] = map[string]string{}
			}
			if err := MergeDependencies(m.Dependencies[group], deps); err != nil {
				return nil, fmt.Errorf("bundle %q %s: %w", b.Name, group, err)
			}
		}
	}
	return m, nil
}

func mergeTable(dst, src map[string]string, what, bundle string) error {
	for _, k := range sortedKeys(src) {
		v := src[k]
		if prev, ok := dst[k]; ok && prev != v {
			return fmt.Errorf("%w: bundle %q redefines %s %q as %q (was %q)", ErrEntryConflict, bundle, what, k, v, prev)
		}
		dst[k] = v
	}
	return nil
}

// MergeDependencies folds src into dst.
func MergeDependencies(dst, src map[string]string) error {
	for _, name := range sortedKeys(src) {
		want := src[name]
		have, ok := dst[name]
		if !ok || have == want {
			dst[name] = want
			continue
		}
		winner, err := higherConstraint(have, want)
		if err != nil {
			return fmt.Errorf("%w: %s wants both %q and %q", ErrDependencyConflict, name, have, want)
		}
		dst[name] = winner
	}
	return nil
}

// higherConstraint picks the constraint whose lowest admissible version is
// higher. Both must parse as semver constraints.
func higherConstraint(a, b string) (string, error) {
	va, err := floor(a)
	if err != nil {
		return "", err
	}
	vb, err := floor(b)
	if err != nil {
		return "", err
	}
	if vb.GreaterThan(va) {
		return b, nil
	}
	return a, nil
}

// floor approximates the lowest version a constraint admits by probing the
// version literals it mentions.
func floor(constraint string) (*semver.Version, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, err
	}
	var best *semver.Version
	for _, lit := range versionLiterals(constraint) {
		v, err := semver.NewVersion(lit)
		if err != nil || !c.Check(v) {
			continue
		}
		if best == nil || v.LessThan(best) {
			best = v
		}
	}
	if best == nil {
		// "*", "x" and friends admit everything.
		if zero := semver.MustParse("0.0.0"); c.Check(zero) {
			return zero, nil
		}
		return nil, fmt.Errorf("cannot determine lower bound of %q", constraint)
	}
	return best, nil
}

// versionLiterals extracts the digit-and-dot runs of a constraint string.
func versionLiterals(s string) []string {
	var out []string
	start := -1
	for i := 0; i <= len(s); i++ {
		isVer := i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.' && start >= 0)
		if isVer && start < 0 {
			start = i
		}
		if !isVer && start >= 0 {
			out = append(out, trimDots(s[start:i]))
			start = -1
		}
	}
	return out
}

func trimDots(s string) string {
	for len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
