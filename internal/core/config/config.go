// Package config loads the host application settings that drive the webpack
// integration from webpackext.toml.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the default name of the configuration file.
const FileName = "webpackext.toml"

// Selector values accepted in the [webpack] table.
const (
	LoaderCached = "cached"
	LoaderPlain  = "plain"

	StorageFile = "file"
	StorageLink = "link"

	PackageManagerNPM  = "npm"
	PackageManagerYarn = "yarn"
	PackageManagerPNPM = "pnpm"

	KindStatic   = "static"
	KindTemplate = "template"
	KindBundle   = "bundle"
)

// Config is the full webpackext.toml document.
type Config struct {
	// Debug mirrors the host application's debug flag. It bypasses the
	// manifest cache and is written into the generated bundler config.
	Debug bool `toml:"debug"`

	InstancePath  string `toml:"instance_path"`
	StaticFolder  string `toml:"static_folder"`
	StaticURLPath string `toml:"static_url_path"`

	Webpack Webpack  `toml:"webpack"`
	Project Project  `toml:"project"`
	Bundles []Bundle `toml:"bundles,omitempty"`
}

// Webpack holds the integration settings.
type Webpack struct {
	ManifestLoader        string   `toml:"manifest_loader"`
	ManifestPath          string   `toml:"manifest_path"` // relative to StaticFolder; empty disables lookups
	DistDir               string   `toml:"dist_dir"`
	DistURL               string   `toml:"dist_url"`
	BuildDir              string   `toml:"build_dir"`
	Storage               string   `toml:"storage"`
	PackageManager        string   `toml:"package_manager"`
	PackageManagerBin     string   `toml:"package_manager_bin,omitempty"`
	PackageManagerVersion string   `toml:"package_manager_version,omitempty"` // semver constraint
	BuildScript           string   `toml:"build_script"`
	AllowedCopyPaths      []string `toml:"allowed_copy_paths,omitempty"`
}

// Project describes where the bundler project comes from.
type Project struct {
	Kind       string `toml:"kind"`
	Path       string `toml:"path"`
	ConfigPath string `toml:"config_path"` // relative to the build directory
}

// Bundle is one module's contribution to a bundle project.
type Bundle struct {
	Name             string            `toml:"name"`
	Path             string            `toml:"path"`
	Entry            map[string]string `toml:"entry,omitempty"`
	Dependencies     map[string]string `toml:"dependencies,omitempty"`
	DevDependencies  map[string]string `toml:"dev_dependencies,omitempty"`
	PeerDependencies map[string]string `toml:"peer_dependencies,omitempty"`
	Aliases          map[string]string `toml:"aliases,omitempty"`
	Copy             []Copy            `toml:"copy,omitempty"`
}

// Copy is a copy instruction declared by a bundle. From is relative to the
// bundle folder, To to the build directory.
type Copy struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Default returns the baseline configuration. The project kind and derived
// paths are left to ApplyDefaults.
func Default() *Config {
	return &Config{
		InstancePath:  "instance",
		StaticFolder:  "static",
		StaticURLPath: "/static",
		Webpack: Webpack{
			ManifestLoader: LoaderCached,
			ManifestPath:   "dist/manifest.json",
			Storage:        StorageFile,
			PackageManager: PackageManagerNPM,
			BuildScript:    "build",
		},
		Project: Project{
			Path:       "assets",
			ConfigPath: "config.json",
		},
	}
}

// ApplyDefaults fills derived settings that were left empty: the dist
// directory and URL live under the static folder, the build directory under
// the instance path.
func (c *Config) ApplyDefaults() {
	if c.Webpack.DistDir == "" {
		c.Webpack.DistDir = filepath.Join(c.StaticFolder, "dist")
	}
	if c.Webpack.DistURL == "" {
		c.Webpack.DistURL = path.Join(c.StaticURLPath, "dist")
	}
	if c.Webpack.BuildDir == "" {
		c.Webpack.BuildDir = filepath.Join(c.InstancePath, "assets")
	}
	if c.Webpack.ManifestLoader == "" {
		c.Webpack.ManifestLoader = LoaderCached
	}
	if c.Webpack.Storage == "" {
		c.Webpack.Storage = StorageFile
	}
	if c.Webpack.PackageManager == "" {
		c.Webpack.PackageManager = PackageManagerNPM
	}
	if c.Webpack.BuildScript == "" {
		c.Webpack.BuildScript = "build"
	}
	if c.Project.Kind == "" {
		c.Project.Kind = KindTemplate
		if len(c.Bundles) > 0 {
			c.Project.Kind = KindBundle
		}
	}
	if c.Project.ConfigPath == "" {
		c.Project.ConfigPath = "config.json"
	}
}

// Resolve makes every filesystem path absolute, interpreting relative paths
// against baseDir (normally the directory holding webpackext.toml). The
// manifest path and project config path keep their documented anchors.
func (c *Config) Resolve(baseDir string) error {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory %s: %w", baseDir, err)
	}
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	c.InstancePath = abs(c.InstancePath)
	c.StaticFolder = abs(c.StaticFolder)
	c.Webpack.DistDir = abs(c.Webpack.DistDir)
	c.Webpack.BuildDir = abs(c.Webpack.BuildDir)
	c.Project.Path = abs(c.Project.Path)
	for i := range c.Bundles {
		c.Bundles[i].Path = abs(c.Bundles[i].Path)
	}
	return nil
}

// Validate rejects unknown selector values.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		allow []string
	}{
		{"webpack.manifest_loader", c.Webpack.ManifestLoader, []string{LoaderCached, LoaderPlain}},
		{"webpack.storage", c.Webpack.Storage, []string{StorageFile, StorageLink}},
		{"webpack.package_manager", c.Webpack.PackageManager, []string{PackageManagerNPM, PackageManagerYarn, PackageManagerPNPM}},
		{"project.kind", c.Project.Kind, []string{KindStatic, KindTemplate, KindBundle}},
	}
	for _, chk := range checks {
		if !contains(chk.allow, chk.value) {
			return fmt.Errorf("invalid %s %q: expected one of %s", chk.field, chk.value, strings.Join(chk.allow, ", "))
		}
	}
	if c.Project.Path == "" {
		return fmt.Errorf("project.path is required")
	}
	if c.Project.Kind != KindBundle && len(c.Bundles) > 0 {
		return fmt.Errorf("bundles are only allowed for project.kind %q", KindBundle)
	}
	for i, b := range c.Bundles {
		if b.Name == "" || b.Path == "" {
			return fmt.Errorf("bundles[%d]: name and path are required", i)
		}
	}
	return nil
}

// ManifestFile returns the absolute manifest path, or "" when lookups are
// disabled.
func (c *Config) ManifestFile() string {
	if c.Webpack.ManifestPath == "" {
		return ""
	}
	if filepath.IsAbs(c.Webpack.ManifestPath) {
		return c.Webpack.ManifestPath
	}
	return filepath.Join(c.StaticFolder, filepath.FromSlash(c.Webpack.ManifestPath))
}

// Load reads the configuration file at path, applies defaults, resolves
// relative paths against the file's directory, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Resolve(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Write marshals cfg and writes it to path, overwriting any existing file.
func Write(path string, cfg *Config) error {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
