package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Loader reads manifests from disk and keeps parsed results keyed by
// absolute path. In debug mode, or when caching is disabled, every Load
// reads and parses the file again so a rebuilt manifest is picked up
// without a restart.
type Loader struct {
	mu      sync.RWMutex
	cache   map[string]*Manifest
	debug   bool
	noCache bool

	readFile func(string) ([]byte, error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithDebug bypasses the cache on every Load.
func WithDebug(debug bool) Option {
	return func(l *Loader) { l.debug = debug }
}

// WithoutCache builds a loader that never memoizes, regardless of mode.
func WithoutCache() Option {
	return func(l *Loader) { l.noCache = true }
}

// NewLoader returns a caching loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		cache:    make(map[string]*Manifest),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetDebug switches between cached and fresh reads at runtime.
func (l *Loader) SetDebug(debug bool) {
	l.mu.Lock()
	l.debug = debug
	l.mu.Unlock()
}

// Debug reports whether the cache is currently bypassed by debug mode.
func (l *Loader) Debug() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.debug
}

// Load returns the manifest at path.
func (l *Loader) Load(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path %s: %w", path, err)
	}

	l.mu.RLock()
	bypass := l.debug || l.noCache
	cached, ok := l.cache[abs]
	l.mu.RUnlock()
	if ok && !bypass {
		return cached, nil
	}

	m, err := l.load(abs)
	if err != nil {
		return nil, err
	}
	if !l.noCache {
		l.mu.Lock()
		l.cache[abs] = m
		l.mu.Unlock()
	}
	return m, nil
}

func (l *Loader) load(abs string) (*Manifest, error) {
	data, err := l.readFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrManifestNotFound, abs, err)
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", abs, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}
	m.path = abs
	return m, nil
}

// Invalidate drops the cached manifest for path, if any.
func (l *Loader) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	l.mu.Lock()
	delete(l.cache, abs)
	l.mu.Unlock()
}

// Reset drops every cached manifest.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.cache = make(map[string]*Manifest)
	l.mu.Unlock()
}

// Cached reports whether a parsed manifest for path is held in memory.
func (l *Loader) Cached(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.cache[abs]
	return ok
}
