// Package project manages a webpack project on disk and drives the package
// manager through its lifecycle: create, install, build, run and clean.
//
// There is no persisted state machine. Every call looks at the filesystem
// to decide what to do.
package project

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nightconcept/webpackext/internal/core/bundle"
	"github.com/nightconcept/webpackext/internal/core/npm"
	"github.com/nightconcept/webpackext/internal/core/output"
	"github.com/nightconcept/webpackext/internal/core/storage"
)

// Kind tells how the project directory comes to exist.
type Kind string

const (
	// Static projects already live on disk; create and clean do nothing.
	Static Kind = "static"
	// Template projects are copied from a template folder into the build
	// directory.
	Template Kind = "template"
	// Bundle projects are a template plus the folders of several bundles.
	Bundle Kind = "bundle"
)

// Result reports what a create or clean call did.
type Result int

const (
	NothingToDo Result = iota
	Created
	Updated
	Removed
)

func (r Result) String() string {
	switch r {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	default:
		return "nothing to do"
	}
}

// ErrNotCreated indicates install, build or run on a project whose build
// directory does not exist yet.
var ErrNotCreated = errors.New("project not created")

// PackageManager is the subset of *npm.Runner the project uses.
type PackageManager interface {
	Install(ctx context.Context, dir string, args ...string) error
	RunScript(ctx context.Context, dir, name string, args ...string) error
	Scripts(dir string) (map[string]string, error)
	CheckVersion(ctx context.Context, constraint string) error
}

// StorageFactory builds the storage used to materialize files. It receives
// the guard of allowed destinations.
type StorageFactory func(storage.Guard) storage.Storage

// Options configure a Project. Everything is passed explicitly.
type Options struct {
	Kind Kind
	// Source is the template folder, or the project itself for Static.
	Source string
	// BuildDir is where Template and Bundle projects are materialized.
	BuildDir string
	// ConfigPath is the generated config file, relative to the project
	// directory. Empty disables the file.
	ConfigPath string
	Bundles    []bundle.Bundle
	// AllowedCopyPaths extends the set of directories writes may touch.
	// The build directory is always included.
	AllowedCopyPaths []string

	Config         ConfigFunc
	PackageManager PackageManager
	Storage        StorageFactory

	BuildScript           string
	PackageManagerVersion string
}

// Project is a webpack project.
type Project struct {
	opts  Options
	guard storage.Guard
	store storage.Storage
}

// New validates opts and returns a Project.
func New(opts Options) (*Project, error) {
	switch opts.Kind {
	case Static, Template, Bundle:
	default:
		return nil, fmt.Errorf("unknown project kind %q", opts.Kind)
	}
	if opts.Source == "" {
		return nil, fmt.Errorf("project source directory is required")
	}
	if opts.Kind != Static && opts.BuildDir == "" {
		return nil, fmt.Errorf("%s project requires a build directory", opts.Kind)
	}
	if opts.Kind != Bundle && len(opts.Bundles) > 0 {
		return nil, fmt.Errorf("bundles require a %s project", Bundle)
	}
	if opts.PackageManager == nil {
		return nil, fmt.Errorf("package manager is required")
	}
	if opts.BuildScript == "" {
		opts.BuildScript = "build"
	}
	if opts.Storage == nil {
		opts.Storage = func(g storage.Guard) storage.Storage { return storage.NewFileStorage(g) }
	}

	p := &Project{opts: opts}
	root := p.Path()
	p.guard = storage.NewGuard(root, append([]string{root}, opts.AllowedCopyPaths...)...)
	p.store = opts.Storage(p.guard)
	return p, nil
}

// Kind returns the project kind.
func (p *Project) Kind() Kind {
	return p.opts.Kind
}

// Path is the directory the package manager runs in.
func (p *Project) Path() string {
	if p.opts.Kind == Static {
		return p.opts.Source
	}
	return p.opts.BuildDir
}

// ConfigFile returns the absolute path of the generated config, or "".
func (p *Project) ConfigFile() string {
	if p.opts.ConfigPath == "" {
		return ""
	}
	return filepath.Join(p.Path(), filepath.FromSlash(p.opts.ConfigPath))
}

// Allowed returns the directories writes are restricted to.
func (p *Project) Allowed() []string {
	return p.guard.Roots()
}

// Payload computes the generated config from the current host settings.
func (p *Project) Payload() (*Payload, error) {
	var build BuildConfig
	if p.opts.Config != nil {
		var err error
		if build, err = p.opts.Config(p.Path()); err != nil {
			return nil, err
		}
	}
	payload := &Payload{Build: build}
	if p.opts.Kind == Bundle {
		merged, err := bundle.Merge(p.opts.Bundles)
		if err != nil {
			return nil, err
		}
		payload.Entry = merged.Entry
		if len(merged.Aliases) > 0 {
			payload.Aliases = merged.Aliases
		}
	}
	return payload, nil
}

// Create materializes the project in its build directory and writes the
// generated config. Unchanged files are not rewritten, so a second call on
// an up-to-date project reports NothingToDo.
func (p *Project) Create(ctx context.Context) (Result, error) {
	if p.opts.Kind == Static {
		return NothingToDo, nil
	}
	existed, err := exists(p.opts.BuildDir)
	if err != nil {
		return NothingToDo, err
	}
	if err := p.guard.Check(p.opts.BuildDir); err != nil {
		return NothingToDo, err
	}

	changed := 0
	n, err := p.store.Sync(p.opts.Source, p.opts.BuildDir, p.generatedFiles()...)
	changed += n
	if err != nil {
		return NothingToDo, fmt.Errorf("failed to copy project template: %w", err)
	}

	if p.opts.Kind == Bundle {
		n, err := p.collect(ctx)
		changed += n
		if err != nil {
			return NothingToDo, err
		}
	}

	if p.opts.ConfigPath != "" {
		wrote, err := p.WriteConfig()
		if err != nil {
			return NothingToDo, err
		}
		if wrote {
			changed++
		}
	}

	output.Debug("project materialized", "dir", p.opts.BuildDir, "changed", changed)
	switch {
	case !existed:
		return Created, nil
	case changed > 0:
		return Updated, nil
	default:
		return NothingToDo, nil
	}
}

// generatedFiles are written by Create itself and must not be overwritten
// by the template copy.
func (p *Project) generatedFiles() []string {
	var files []string
	if p.opts.ConfigPath != "" {
		files = append(files, filepath.FromSlash(p.opts.ConfigPath))
	}
	if p.opts.Kind == Bundle {
		files = append(files, npm.PackageJSONName)
	}
	return files
}

// collect copies every bundle folder into the build directory, runs the
// bundles' copy instructions and writes the merged package.json.
func (p *Project) collect(ctx context.Context) (int, error) {
	changed := 0
	for _, b := range p.opts.Bundles {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		n, err := p.store.Sync(b.Path, p.opts.BuildDir, npm.PackageJSONName)
		changed += n
		if err != nil {
			return changed, fmt.Errorf("failed to collect bundle %q: %w", b.Name, err)
		}
		for _, c := range b.Copy {
			n, err := p.copyInstruction(b, c)
			changed += n
			if err != nil {
				return changed, fmt.Errorf("bundle %q copy %s: %w", b.Name, c.From, err)
			}
		}
	}

	wrote, err := p.writePackageJSON()
	if err != nil {
		return changed, err
	}
	if wrote {
		changed++
	}
	return changed, nil
}

func (p *Project) copyInstruction(b bundle.Bundle, c bundle.Copy) (int, error) {
	src := c.From
	if !filepath.IsAbs(src) {
		src = filepath.Join(b.Path, src)
	}
	dst := c.To
	if !filepath.IsAbs(dst) {
		dst = filepath.Join(p.opts.BuildDir, dst)
	}
	if err := p.guard.Check(dst); err != nil {
		return 0, err
	}

	info, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return p.store.Sync(src, dst)
	}
	return storage.CopyFile(src, dst, info.Mode().Perm())
}

// writePackageJSON merges the bundles' dependencies into the template's
// package.json.
func (p *Project) writePackageJSON() (bool, error) {
	pkg, err := npm.ReadPackageJSON(p.opts.Source)
	if errors.Is(err, fs.ErrNotExist) {
		pkg = npm.PackageJSON{}
	} else if err != nil {
		return false, err
	}

	merged, err := bundle.Merge(p.opts.Bundles)
	if err != nil {
		return false, err
	}
	for _, group := range bundle.Groups {
		deps := pkg.StringMap(group)
		if err := bundle.MergeDependencies(deps, merged.Dependencies[group]); err != nil {
			return false, fmt.Errorf("%s: %w", group, err)
		}
		pkg.SetStringMap(group, deps)
	}

	data, err := pkg.Marshal()
	if err != nil {
		return false, err
	}
	return p.writeIfChanged(filepath.Join(p.opts.BuildDir, npm.PackageJSONName), data)
}

// WriteConfig writes the generated config file. It reports whether the file
// content changed.
func (p *Project) WriteConfig() (bool, error) {
	payload, err := p.Payload()
	if err != nil {
		return false, err
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return false, err
	}
	return p.writeIfChanged(p.ConfigFile(), append(data, '\n'))
}

func (p *Project) writeIfChanged(path string, data []byte) (bool, error) {
	if err := p.guard.Check(path); err != nil {
		return false, err
	}
	current, err := os.ReadFile(path)
	if err == nil && bytes.Equal(current, data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, err
	}
	return true, nil
}

// Clean removes the build directory.
func (p *Project) Clean(_ context.Context) (Result, error) {
	if p.opts.Kind == Static {
		return NothingToDo, nil
	}
	ok, err := exists(p.opts.BuildDir)
	if err != nil || !ok {
		return NothingToDo, err
	}
	if err := p.guard.Check(p.opts.BuildDir); err != nil {
		return NothingToDo, err
	}
	if err := os.RemoveAll(p.opts.BuildDir); err != nil {
		return NothingToDo, fmt.Errorf("failed to remove %s: %w", p.opts.BuildDir, err)
	}
	return Removed, nil
}

// Install runs the package manager's install in the project directory,
// forwarding args unchanged.
func (p *Project) Install(ctx context.Context, args ...string) error {
	if err := p.ready(); err != nil {
		return err
	}
	if err := p.opts.PackageManager.CheckVersion(ctx, p.opts.PackageManagerVersion); err != nil {
		return err
	}
	return p.opts.PackageManager.Install(ctx, p.Path(), args...)
}

// Build runs the configured build script.
func (p *Project) Build(ctx context.Context, args ...string) error {
	return p.Run(ctx, p.opts.BuildScript, args...)
}

// Run runs a script declared in package.json. Undeclared names fail with
// npm.ErrUnknownScript; a script exiting non-zero fails with
// npm.ErrToolFailed.
func (p *Project) Run(ctx context.Context, script string, args ...string) error {
	if err := p.ready(); err != nil {
		return err
	}
	return p.opts.PackageManager.RunScript(ctx, p.Path(), script, args...)
}

// Scripts lists the scripts declared by the project's package.json.
func (p *Project) Scripts() (map[string]string, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	return p.opts.PackageManager.Scripts(p.Path())
}

func (p *Project) ready() error {
	ok, err := exists(p.Path())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s does not exist", ErrNotCreated, p.Path())
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
