package npm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// PackageJSONName is the package descriptor file name.
const PackageJSONName = "package.json"

// PackageJSON is a decoded package.json. Unknown keys are kept so the file
// can be rewritten without losing them.
type PackageJSON map[string]any

// ReadPackageJSON decodes dir/package.json.
func ReadPackageJSON(dir string) (PackageJSON, error) {
	p := filepath.Join(dir, PackageJSONName)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p, err)
	}
	if pkg == nil {
		pkg = PackageJSON{}
	}
	return pkg, nil
}

// Marshal encodes the descriptor the way npm writes it: two-space indent and
// a trailing newline.
func (p PackageJSON) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Scripts returns the "scripts" table.
func (p PackageJSON) Scripts() map[string]string {
	return p.StringMap("scripts")
}

// StringMap returns the string values of the object stored under key.
func (p PackageJSON) StringMap(key string) map[string]string {
	out := map[string]string{}
	obj, ok := p[key].(map[string]any)
	if !ok {
		return out
	}
	for k, v := range obj {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// SetStringMap replaces the object stored under key. Empty maps remove the
// key.
func (p PackageJSON) SetStringMap(key string, m map[string]string) {
	if len(m) == 0 {
		delete(p, key)
		return
	}
	obj := make(map[string]any, len(m))
	for k, v := range m {
		obj[k] = v
	}
	p[key] = obj
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
