package generator

import (
	"sort"
	"strings"
)

// imports collects the names a TypeScript file pulls from other modules.
type imports struct {
	values map[string]map[string]bool
	types  map[string]map[string]bool
}

func newImports() *imports {
	return &imports{
		values: make(map[string]map[string]bool),
		types:  make(map[string]map[string]bool),
	}
}

func (i *imports) value(module string, names ...string) {
	addNames(i.values, module, names)
}

// typ records type-only imports, emitted as "import type".
func (i *imports) typ(module string, names ...string) {
	addNames(i.types, module, names)
}

func addNames(m map[string]map[string]bool, module string, names []string) {
	if len(names) == 0 {
		return
	}
	if m[module] == nil {
		m[module] = make(map[string]bool)
	}
	for _, n := range names {
		m[module][n] = true
	}
}

// render writes the import block sorted by module, then by name. A name
// imported as a value is not repeated as a type import.
func (i *imports) render() string {
	modules := make(map[string]bool)
	for m := range i.values {
		modules[m] = true
	}
	for m := range i.types {
		modules[m] = true
	}
	sorted := sortedKeys(modules)

	var b strings.Builder
	for _, m := range sorted {
		var typeNames []string
		for n := range i.types[m] {
			if !i.values[m][n] {
				typeNames = append(typeNames, n)
			}
		}
		sort.Strings(typeNames)
		if len(typeNames) > 0 {
			b.WriteString("import type { " + strings.Join(typeNames, ", ") + " } from '" + m + "';\n")
		}
		if values := sortedKeys(i.values[m]); len(values) > 0 {
			b.WriteString("import { " + strings.Join(values, ", ") + " } from '" + m + "';\n")
		}
	}
	return b.String()
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
