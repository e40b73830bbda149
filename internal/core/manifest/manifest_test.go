// Package manifest_test contains tests for the manifest package.
package manifest_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/webpackext/internal/core/manifest"
)

func TestParse_Flat(t *testing.T) {
	t.Parallel()
	m, err := manifest.Parse([]byte(`{
  "app": "/static/dist/app.1a2b3c.js",
  "vendor": ["/static/dist/vendor.9f8e.js", "/static/dist/vendor.9f8e.js.map"]
}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "vendor"}, m.Names())
	assert.Equal(t, 2, m.Len())

	e, err := m.Lookup("vendor")
	require.NoError(t, err)
	assert.Equal(t, []string{"/static/dist/vendor.9f8e.js", "/static/dist/vendor.9f8e.js.map"}, e.Paths)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"invalid json":   `{"app": `,
		"top level list": `["app.js"]`,
		"null":           `null`,
		"number entry":   `{"app": 42}`,
		"bad status":     `{"status": "error", "chunks": {}}`,
		"status type":    `{"status": 1, "files": {}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, manifest.ErrMalformedManifest)
		})
	}
}

func TestParse_BundleTracker(t *testing.T) {
	t.Parallel()
	m, err := manifest.Parse([]byte(`{
  "status": "done",
  "chunks": {
    "main": [
      {"name": "main.abc.js", "path": "/srv/dist/main.abc.js", "publicPath": "/static/dist/main.abc.js"},
      {"name": "main.abc.css", "path": "/srv/dist/main.abc.css"}
    ]
  }
}`))
	require.NoError(t, err)
	e, err := m.Lookup("main")
	require.NoError(t, err)
	assert.Equal(t, []string{"/static/dist/main.abc.js", "main.abc.css"}, e.Paths)
}

func TestParse_NotReady(t *testing.T) {
	t.Parallel()
	_, err := manifest.Parse([]byte(`{"status": "compiling", "chunks": {}}`))
	assert.ErrorIs(t, err, manifest.ErrManifestNotReady)

	_, err = manifest.Parse([]byte(`{"status": "building", "files": {}}`))
	assert.ErrorIs(t, err, manifest.ErrManifestNotReady)
}

func TestParse_Yam(t *testing.T) {
	t.Parallel()
	m, err := manifest.Parse([]byte(`{"status": "built", "files": {"app": ["/static/dist/app.js", "/static/dist/app.css"]}}`))
	require.NoError(t, err)
	e, err := m.Lookup("app")
	require.NoError(t, err)

	out, err := e.Render()
	require.NoError(t, err)
	assert.Equal(t, `<script src="/static/dist/app.js"></script><link href="/static/dist/app.css" rel="stylesheet">`, out)
}

func TestLookup_KeyNotFound(t *testing.T) {
	t.Parallel()
	m := manifest.New(map[string][]string{"app": {"/static/dist/app.js"}})

	_, err := m.Lookup("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, manifest.ErrKeyNotFound)

	var keyErr *manifest.KeyNotFoundError
	require.True(t, errors.As(err, &keyErr))
	assert.Equal(t, "missing", keyErr.Key)
	assert.Contains(t, err.Error(), `"missing"`)
	assert.False(t, m.Has("missing"))
	assert.True(t, m.Has("app"))
}

func TestEntry_Render(t *testing.T) {
	t.Parallel()
	e := &manifest.Entry{Name: "app", Paths: []string{"/static/dist/app.js"}}
	out, err := e.Render()
	require.NoError(t, err)
	assert.Equal(t, `<script src="/static/dist/app.js"></script>`, out)
	assert.Equal(t, out, e.String())

	e = &manifest.Entry{Name: "theme", Paths: []string{"/static/dist/theme.CSS?v=3", "/static/dist/theme.css.map"}}
	out, err = e.Render()
	require.NoError(t, err)
	assert.Equal(t, `<link href="/static/dist/theme.CSS?v=3" rel="stylesheet">`, out)
}

func TestEntry_RenderUnsupported(t *testing.T) {
	t.Parallel()
	e := &manifest.Entry{Name: "logo", Paths: []string{"/static/dist/logo.png"}}
	_, err := e.Render()
	assert.ErrorIs(t, err, manifest.ErrUnsupportedExtension)
	assert.Equal(t, "", e.String())
}

func TestEntry_RenderEscapesAttribute(t *testing.T) {
	t.Parallel()
	e := &manifest.Entry{Name: "x", Paths: []string{`/static/"x".js`}}
	out, err := e.Render()
	require.NoError(t, err)
	assert.Equal(t, `<script src="/static/&#34;x&#34;.js"></script>`, out)
}
