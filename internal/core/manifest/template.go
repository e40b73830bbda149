package manifest

import (
	"fmt"
	"html/template"
)

// Source returns the manifest that template lookups should use. A nil
// manifest with a nil error means lookups are disabled.
type Source func() (*Manifest, error)

// FuncName is the template function name exposed to host templates.
const FuncName = "webpack"

// FuncMap exposes the manifest to html/template as {{ webpack "app" }}.
// Lookups of undeclared names abort template execution.
func FuncMap(src Source) template.FuncMap {
	return template.FuncMap{
		FuncName: func(names ...string) (template.HTML, error) {
			return Render(src, names...)
		},
	}
}

// Render resolves each name and concatenates the resulting tags.
func Render(src Source, names ...string) (template.HTML, error) {
	m, err := src()
	if err != nil {
		return "", err
	}
	if m == nil {
		return "", ErrNoManifest
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%s: at least one asset name is required", FuncName)
	}

	var out template.HTML
	for _, name := range names {
		e, err := m.Lookup(name)
		if err != nil {
			return "", err
		}
		h, err := e.HTML()
		if err != nil {
			return "", err
		}
		out += h
	}
	return out, nil
}
