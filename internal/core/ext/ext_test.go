package ext_test

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/webpackext/internal/core/config"
	"github.com/nightconcept/webpackext/internal/core/ext"
	"github.com/nightconcept/webpackext/internal/core/manifest"
	"github.com/nightconcept/webpackext/internal/core/project"
)

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Resolve(t.TempDir()))
	return cfg
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)

	e, err := ext.New(cfg)
	require.NoError(t, err)
	assert.Same(t, cfg, e.Config())
	assert.Equal(t, project.Template, e.Project().Kind())
	assert.Equal(t, cfg.Webpack.BuildDir, e.Project().Path())
	assert.False(t, e.Loader().Debug())
}

func TestNew_InvalidSelector(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.Webpack.Storage = "ftp"

	_, err := ext.New(cfg)
	assert.ErrorContains(t, err, "webpack.storage")
}

func TestNew_BundleProject(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.Project.Kind = config.KindBundle
	cfg.Bundles = []config.Bundle{{
		Name:            "theme",
		Path:            t.TempDir(),
		Entry:           map[string]string{"theme": "./theme.js"},
		Dependencies:    map[string]string{"bootstrap": "^5.3.0"},
		DevDependencies: map[string]string{"sass": "^1.69.0"},
		Aliases:         map[string]string{"@theme": "./theme"},
	}}

	e, err := ext.New(cfg)
	require.NoError(t, err)
	payload, err := e.Project().Payload()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "./theme.js"}, payload.Entry)
	assert.Equal(t, map[string]string{"@theme": "./theme"}, payload.Aliases)
}

func TestManifest_Disabled(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.Webpack.ManifestPath = ""

	e, err := ext.New(cfg)
	require.NoError(t, err)
	m, err := e.Manifest()
	require.NoError(t, err)
	assert.Nil(t, m)

	tpl := template.Must(template.New("page").Funcs(e.TemplateFuncs()).Parse(`{{ webpack "app" }}`))
	err = tpl.Execute(&bytes.Buffer{}, nil)
	assert.ErrorContains(t, err, manifest.ErrNoManifest.Error())
}

func TestTemplateFuncs(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	writeFile(t, cfg.ManifestFile(), `{"app.js": "/static/dist/app.1a2b.js", "app.css": "/static/dist/app.3c4d.css"}`)

	e, err := ext.New(cfg)
	require.NoError(t, err)

	tpl := template.Must(template.New("page").Funcs(e.TemplateFuncs()).Parse(`<head>{{ webpack "app.js" "app.css" }}</head>`))
	var buf bytes.Buffer
	require.NoError(t, tpl.Execute(&buf, nil))
	assert.Equal(t,
		`<head><script src="/static/dist/app.1a2b.js"></script><link href="/static/dist/app.3c4d.css" rel="stylesheet"></head>`,
		buf.String())

	err = tpl.Execute(&bytes.Buffer{}, nil)
	require.NoError(t, err)
	assert.True(t, e.Loader().Cached(cfg.ManifestFile()))
}

func TestManifest_DebugReloads(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.Debug = true
	writeFile(t, cfg.ManifestFile(), `{"app.js": "/v1.js"}`)

	e, err := ext.New(cfg)
	require.NoError(t, err)
	assert.True(t, e.Loader().Debug())

	m, err := e.Manifest()
	require.NoError(t, err)
	first, err := m.Lookup("app.js")
	require.NoError(t, err)
	assert.Equal(t, []string{"/v1.js"}, first.Paths)

	writeFile(t, cfg.ManifestFile(), `{"app.js": "/v2.js"}`)
	m, err = e.Manifest()
	require.NoError(t, err)
	second, err := m.Lookup("app.js")
	require.NoError(t, err)
	assert.Equal(t, []string{"/v2.js"}, second.Paths)

	e.SetDebug(false)
	assert.False(t, e.Loader().Debug())
	assert.False(t, e.Config().Debug)
}

func TestManifest_PlainLoader(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.Webpack.ManifestLoader = config.LoaderPlain
	writeFile(t, cfg.ManifestFile(), `{"app.js": "/v1.js"}`)

	e, err := ext.New(cfg)
	require.NoError(t, err)
	_, err = e.Manifest()
	require.NoError(t, err)
	assert.False(t, e.Loader().Cached(cfg.ManifestFile()))
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p := filepath.Join(dir, config.FileName)
	writeFile(t, p, `
static_folder = "public"

[webpack]
storage = "link"
package_manager = "pnpm"
`)

	e, err := ext.Load(p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "public", "dist", "manifest.json"), e.Config().ManifestFile())
	assert.Equal(t, filepath.Join(dir, "instance", "assets"), e.Project().Path())

	_, err = ext.Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
