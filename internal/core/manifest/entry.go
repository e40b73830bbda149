package manifest

import (
	"fmt"
	"html"
	"html/template"
	"path"
	"strings"
)

// tagTemplates maps a lower-case extension to the markup that loads it.
var tagTemplates = map[string]string{
	".js":  `<script src="%s"></script>`,
	".css": `<link href="%s" rel="stylesheet">`,
}

// skippedExtensions are emitted by webpack next to real assets but are never
// referenced from a page.
var skippedExtensions = map[string]bool{
	".map": true,
}

// Entry is one logical asset: a single file or an ordered group of files
// sharing a name, such as a script and its stylesheet.
type Entry struct {
	Name  string
	Paths []string
}

// Render returns the markup for every path in the entry, in order.
func (e *Entry) Render() (string, error) {
	var b strings.Builder
	for _, p := range e.Paths {
		ext := strings.ToLower(path.Ext(stripQuery(p)))
		if skippedExtensions[ext] {
			continue
		}
		tpl, ok := tagTemplates[ext]
		if !ok {
			return "", fmt.Errorf("%w: %q in entry %q", ErrUnsupportedExtension, p, e.Name)
		}
		fmt.Fprintf(&b, tpl, html.EscapeString(p))
	}
	return b.String(), nil
}

// HTML renders the entry as trusted markup so html/template inserts it
// verbatim. The path itself is attribute-escaped by Render.
func (e *Entry) HTML() (template.HTML, error) {
	s, err := e.Render()
	if err != nil {
		return "", err
	}
	return template.HTML(s), nil
}

// String implements fmt.Stringer. Render errors produce an empty string.
func (e *Entry) String() string {
	s, _ := e.Render()
	return s
}

func stripQuery(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		return p[:i]
	}
	return p
}
