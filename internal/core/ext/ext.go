// Package ext assembles the webpack integration from a config.Config: the
// manifest loader used by templates, and the project driven by the CLI.
package ext

import (
	"fmt"
	"html/template"
	"io"

	"github.com/nightconcept/webpackext/internal/core/bundle"
	"github.com/nightconcept/webpackext/internal/core/config"
	"github.com/nightconcept/webpackext/internal/core/manifest"
	"github.com/nightconcept/webpackext/internal/core/npm"
	"github.com/nightconcept/webpackext/internal/core/project"
	"github.com/nightconcept/webpackext/internal/core/storage"
)

// Extension is the configured integration.
type Extension struct {
	cfg     *config.Config
	loader  *manifest.Loader
	runner  *npm.Runner
	project *project.Project
}

// Option adjusts an Extension while it is built.
type Option func(*Extension)

// WithOutput sends package manager output to stdout and stderr instead of
// the process's own streams.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(e *Extension) {
		e.runner.Stdout = stdout
		e.runner.Stderr = stderr
	}
}

// New builds the extension. cfg must already have defaults applied and
// paths resolved; config.Load does both.
func New(cfg *config.Config, opts ...Option) (*Extension, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Extension{cfg: cfg}

	switch cfg.Webpack.ManifestLoader {
	case config.LoaderPlain:
		e.loader = manifest.NewLoader(manifest.WithoutCache())
	default:
		e.loader = manifest.NewLoader(manifest.WithDebug(cfg.Debug))
	}

	e.runner = npm.NewRunner(npm.Kind(cfg.Webpack.PackageManager))
	e.runner.Binary = cfg.Webpack.PackageManagerBin
	for _, opt := range opts {
		opt(e)
	}

	p, err := project.New(project.Options{
		Kind:                  project.Kind(cfg.Project.Kind),
		Source:                cfg.Project.Path,
		BuildDir:              cfg.Webpack.BuildDir,
		ConfigPath:            cfg.Project.ConfigPath,
		Bundles:               bundles(cfg.Bundles),
		AllowedCopyPaths:      cfg.Webpack.AllowedCopyPaths,
		Config:                project.FromConfig(cfg),
		PackageManager:        e.runner,
		Storage:               storageFactory(cfg.Webpack.Storage),
		BuildScript:           cfg.Webpack.BuildScript,
		PackageManagerVersion: cfg.Webpack.PackageManagerVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up webpack project: %w", err)
	}
	e.project = p
	return e, nil
}

// Load reads the config file at path and builds the extension from it.
func Load(path string, opts ...Option) (*Extension, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

func storageFactory(kind string) project.StorageFactory {
	if kind == config.StorageLink {
		return func(g storage.Guard) storage.Storage { return storage.NewLinkStorage(g) }
	}
	return func(g storage.Guard) storage.Storage { return storage.NewFileStorage(g) }
}

func bundles(in []config.Bundle) []bundle.Bundle {
	out := make([]bundle.Bundle, 0, len(in))
	for _, b := range in {
		deps := map[string]map[string]string{}
		for group, m := range map[string]map[string]string{
			bundle.Dependencies:     b.Dependencies,
			bundle.DevDependencies:  b.DevDependencies,
			bundle.PeerDependencies: b.PeerDependencies,
		} {
			if len(m) > 0 {
				deps[group] = m
			}
		}
		copies := make([]bundle.Copy, 0, len(b.Copy))
		for _, c := range b.Copy {
			copies = append(copies, bundle.Copy{From: c.From, To: c.To})
		}
		out = append(out, bundle.Bundle{
			Name:         b.Name,
			Path:         b.Path,
			Entry:        b.Entry,
			Dependencies: deps,
			Aliases:      b.Aliases,
			Copy:         copies,
		})
	}
	return out
}

// Config returns the configuration the extension was built from.
func (e *Extension) Config() *config.Config {
	return e.cfg
}

// Project returns the webpack project.
func (e *Extension) Project() *project.Project {
	return e.project
}

// Loader returns the manifest loader.
func (e *Extension) Loader() *manifest.Loader {
	return e.loader
}

// Manifest loads the configured manifest. It returns nil, nil when
// manifest_path is empty.
func (e *Extension) Manifest() (*manifest.Manifest, error) {
	p := e.cfg.ManifestFile()
	if p == "" {
		return nil, nil
	}
	return e.loader.Load(p)
}

// SetDebug toggles debug mode on the loader and in the generated config.
func (e *Extension) SetDebug(debug bool) {
	e.cfg.Debug = debug
	e.loader.SetDebug(debug)
}

// TemplateFuncs returns the functions to install with template.Funcs.
func (e *Extension) TemplateFuncs() template.FuncMap {
	return manifest.FuncMap(e.Manifest)
}
