package generator

import (
	"fmt"
	"strings"

	"github.com/barisgit/gqlflux/internal/schema"
)

var tsBuiltins = map[string]string{
	"String":  "string",
	"ID":      "string",
	"Int":     "number",
	"Float":   "number",
	"Boolean": "boolean",
}

// tsTyper maps schema references to TypeScript type expressions and records
// the declared types it used.
type tsTyper struct {
	schema *schema.Schema
	used   map[string]bool
}

func newTSTyper(s *schema.Schema) *tsTyper {
	return &tsTyper{schema: s, used: make(map[string]bool)}
}

// ref renders a reference; nullable references get "| null".
func (t *tsTyper) ref(r *schema.TypeRef) (string, error) {
	if r.NonNull() {
		return t.nonNull(r.OfType)
	}
	inner, err := t.nonNull(r)
	if err != nil {
		return "", err
	}
	return inner + " | null", nil
}

func (t *tsTyper) nonNull(r *schema.TypeRef) (string, error) {
	switch r.Kind {
	case schema.RefNonNull:
		return t.nonNull(r.OfType)
	case schema.RefList:
		elem, err := t.ref(r.OfType)
		if err != nil {
			return "", err
		}
		if strings.Contains(elem, " | ") {
			elem = "(" + elem + ")"
		}
		return elem + "[]", nil
	default:
		return t.named(r.Name)
	}
}

func (t *tsTyper) named(name string) (string, error) {
	if ts, ok := tsBuiltins[name]; ok {
		return ts, nil
	}
	if _, ok := t.schema.Lookup(name); !ok {
		return "", fmt.Errorf("%w %s", ErrUnknownType, name)
	}
	t.used[name] = true
	return name, nil
}

// usedNames returns the declared types referenced so far, sorted.
func (t *tsTyper) usedNames() []string {
	return sortedKeys(t.used)
}

// tsDoc renders a JSDoc block, or nothing when there is nothing to say.
func tsDoc(indent, description string, deprecated bool, reason string) string {
	var lines []string
	if description != "" {
		lines = append(lines, strings.Split(strings.TrimSpace(description), "\n")...)
	}
	if deprecated {
		lines = append(lines, strings.TrimSpace("@deprecated "+reason))
	}
	if len(lines) == 0 {
		return ""
	}
	for i, l := range lines {
		lines[i] = strings.ReplaceAll(l, "*/", "*\\/")
	}
	if len(lines) == 1 {
		return indent + "/** " + lines[0] + " */\n"
	}

	var b strings.Builder
	b.WriteString(indent + "/**\n")
	for _, l := range lines {
		b.WriteString(strings.TrimRight(indent+" * "+l, " ") + "\n")
	}
	b.WriteString(indent + " */\n")
	return b.String()
}

// emitTSTypes writes the type declaration file and registers every enum and
// input object it declares.
func emitTSTypes(s *schema.Schema, opts Options, reg *Registry) (string, error) {
	typer := newTSTyper(s)

	var b strings.Builder
	b.WriteString(header("//", s))

	for _, t := range s.Types {
		b.WriteString("\n")
		b.WriteString(tsDoc("", t.Description, false, ""))

		switch t.Kind {
		case schema.KindEnum:
			b.WriteString("export enum " + t.Name + " {\n")
			for _, v := range t.EnumValues {
				b.WriteString(tsDoc("  ", v.Description, v.Deprecated, v.DeprecationReason))
				b.WriteString(fmt.Sprintf("  %s = '%s',\n", v.Name, v.Name))
			}
			b.WriteString("}\n")

		case schema.KindScalar:
			mapped := opts.Scalars[t.Name]
			if mapped == "" {
				mapped = "any"
			}
			b.WriteString(fmt.Sprintf("export type %s = %s;\n", t.Name, mapped))

		case schema.KindUnion:
			members := t.PossibleTypes
			if len(members) == 0 {
				members = []string{"never"}
			}
			b.WriteString(fmt.Sprintf("export type %s = %s;\n", t.Name, strings.Join(members, " | ")))

		case schema.KindObject, schema.KindInterface, schema.KindInputObject:
			body, err := tsRecord(typer, t, t.Kind == schema.KindInputObject)
			if err != nil {
				return "", err
			}
			b.WriteString(body)
		}

		reg.register(t)
	}

	for _, kind := range []schema.OperationKind{schema.OperationQuery, schema.OperationMutation} {
		root, ok := s.RootType(kind)
		if !ok {
			continue
		}
		b.WriteString("\n")
		body, err := tsRecord(typer, root, false)
		if err != nil {
			return "", err
		}
		b.WriteString(body)
	}

	return b.String(), nil
}

func tsRecord(typer *tsTyper, t *schema.Type, input bool) (string, error) {
	var b strings.Builder
	b.WriteString("export interface " + t.Name + " {\n")
	for _, f := range t.Fields {
		typ, err := typer.ref(f.Type)
		if err != nil {
			return "", fmt.Errorf("field %s.%s: %w", t.Name, f.Name, err)
		}
		b.WriteString(tsDoc("  ", f.Description, f.Deprecated, f.DeprecationReason))
		optional := ""
		if input && !f.Type.NonNull() {
			optional = "?"
		}
		b.WriteString(fmt.Sprintf("  %s%s: %s;\n", f.Name, optional, typ))
	}
	b.WriteString("}\n")
	return b.String(), nil
}
