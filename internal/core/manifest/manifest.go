// Package manifest loads the asset manifest written by webpack and resolves
// logical asset names to the tags that reference their content-hashed files.
package manifest

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Manifest maps logical asset names to entries. It is immutable after
// parsing.
type Manifest struct {
	path    string
	entries map[string]*Entry
}

// Path returns the absolute path the manifest was loaded from, or "" for a
// manifest built in memory.
func (m *Manifest) Path() string {
	return m.path
}

// Lookup resolves an asset name. Undeclared names fail with a
// *KeyNotFoundError.
func (m *Manifest) Lookup(name string) (*Entry, error) {
	e, ok := m.entries[name]
	if !ok {
		return nil, &KeyNotFoundError{Key: name}
	}
	return e, nil
}

// Has reports whether name is declared.
func (m *Manifest) Has(name string) bool {
	_, ok := m.entries[name]
	return ok
}

// Names returns the declared asset names in sorted order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of declared assets.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// New builds a manifest from an in-memory mapping.
func New(entries map[string][]string) *Manifest {
	m := &Manifest{entries: make(map[string]*Entry, len(entries))}
	for name, paths := range entries {
		m.entries[name] = &Entry{Name: name, Paths: append([]string(nil), paths...)}
	}
	return m
}

// Parse decodes manifest JSON. It understands the flat layout written by
// webpack-manifest-plugin, webpack-bundle-tracker and webpack-yam-plugin.
func Parse(data []byte) (*Manifest, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedManifest, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: top level must be an object", ErrMalformedManifest)
	}

	if _, ok := doc["status"]; ok {
		if _, ok := doc["chunks"]; ok {
			return parseBundleTracker(doc)
		}
		if _, ok := doc["files"]; ok {
			return parseYam(doc)
		}
	}
	return parseFlat(doc)
}

func parseFlat(doc map[string]json.RawMessage) (*Manifest, error) {
	entries := make(map[string][]string, len(doc))
	for name, raw := range doc {
		paths, err := decodePaths(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrMalformedManifest, name, err)
		}
		entries[name] = paths
	}
	return New(entries), nil
}

// decodePaths accepts either "path" or ["path", ...].
func decodePaths(raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("expected a string or a list of strings")
	}
	return many, nil
}

func readStatus(doc map[string]json.RawMessage) (string, error) {
	var status string
	if err := json.Unmarshal(doc["status"], &status); err != nil {
		return "", fmt.Errorf("%w: status must be a string", ErrMalformedManifest)
	}
	return status, nil
}

type trackerChunk struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	PublicPath string `json:"publicPath"`
}

func parseBundleTracker(doc map[string]json.RawMessage) (*Manifest, error) {
	status, err := readStatus(doc)
	if err != nil {
		return nil, err
	}
	switch status {
	case "done":
	case "compiling", "initialization":
		return nil, fmt.Errorf("%w: bundle tracker status %q", ErrManifestNotReady, status)
	default:
		return nil, fmt.Errorf("%w: bundle tracker status %q", ErrMalformedManifest, status)
	}

	var chunks map[string][]trackerChunk
	if err := json.Unmarshal(doc["chunks"], &chunks); err != nil {
		return nil, fmt.Errorf("%w: chunks: %v", ErrMalformedManifest, err)
	}
	entries := make(map[string][]string, len(chunks))
	for name, files := range chunks {
		paths := make([]string, 0, len(files))
		for _, f := range files {
			p := f.PublicPath
			if p == "" {
				p = f.Name
			}
			paths = append(paths, p)
		}
		entries[name] = paths
	}
	return New(entries), nil
}

func parseYam(doc map[string]json.RawMessage) (*Manifest, error) {
	status, err := readStatus(doc)
	if err != nil {
		return nil, err
	}
	switch status {
	case "built":
	case "building":
		return nil, fmt.Errorf("%w: yam status %q", ErrManifestNotReady, status)
	default:
		return nil, fmt.Errorf("%w: yam status %q", ErrMalformedManifest, status)
	}

	var files map[string][]string
	if err := json.Unmarshal(doc["files"], &files); err != nil {
		return nil, fmt.Errorf("%w: files: %v", ErrMalformedManifest, err)
	}
	return New(files), nil
}
