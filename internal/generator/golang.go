package generator

import (
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"strings"

	"github.com/barisgit/gqlflux/internal/schema"
	"github.com/barisgit/gqlflux/pkg/gqlclient"
)

var goBuiltins = map[string]string{
	"String":  "string",
	"ID":      "string",
	"Int":     "int",
	"Float":   "float64",
	"Boolean": "bool",
}

func goString(s string) string {
	return strconv.Quote(s)
}

// goTyper maps schema references to Go types. Nullable values become
// pointers unless the Go type can already be nil.
type goTyper struct {
	schema  *schema.Schema
	scalars map[string]string
}

func (g *goTyper) ref(r *schema.TypeRef) (string, error) {
	if r.NonNull() {
		return g.nonNull(r.OfType)
	}
	inner, err := g.nonNull(r)
	if err != nil {
		return "", err
	}
	if r.Kind == schema.RefList || g.nilable(r.Name) {
		return inner, nil
	}
	return "*" + inner, nil
}

func (g *goTyper) nonNull(r *schema.TypeRef) (string, error) {
	switch r.Kind {
	case schema.RefNonNull:
		return g.nonNull(r.OfType)
	case schema.RefList:
		elem, err := g.ref(r.OfType)
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	}

	if t, ok := goBuiltins[r.Name]; ok {
		return t, nil
	}
	if _, ok := g.schema.Lookup(r.Name); !ok {
		return "", fmt.Errorf("%w %s", ErrUnknownType, r.Name)
	}
	return goName(r.Name), nil
}

// field maps the type of a struct field. Direct references to object,
// interface and input types are always pointers so that self-referencing and
// mutually recursive types have finite size.
func (g *goTyper) field(r *schema.TypeRef) (string, error) {
	typ, err := g.ref(r)
	if err != nil {
		return "", err
	}
	if g.composite(r.Nullable()) && !strings.HasPrefix(typ, "*") {
		return "*" + typ, nil
	}
	return typ, nil
}

// composite reports whether r names an object, interface or input type.
func (g *goTyper) composite(r *schema.TypeRef) bool {
	if r.Kind != schema.RefNamed {
		return false
	}
	t, ok := g.schema.Lookup(r.Name)
	if !ok {
		return false
	}
	switch t.Kind {
	case schema.KindObject, schema.KindInterface, schema.KindInputObject:
		return true
	}
	return false
}

// nilable reports whether the Go type declared for name is already nilable.
func (g *goTyper) nilable(name string) bool {
	t, ok := g.schema.Lookup(name)
	if !ok {
		return false
	}
	switch t.Kind {
	case schema.KindUnion:
		return true
	case schema.KindScalar:
		if _, builtin := goBuiltins[name]; builtin {
			return false
		}
		underlying := g.scalarType(name)
		return underlying == "any" || strings.HasPrefix(underlying, "[]") ||
			strings.HasPrefix(underlying, "map[") || strings.HasPrefix(underlying, "*")
	}
	return false
}

func (g *goTyper) scalarType(name string) string {
	if mapped := g.scalars[name]; mapped != "" {
		return mapped
	}
	return "any"
}

// goDoc renders a Go comment block starting with lead.
func goDoc(indent, lead, description string, deprecated bool, reason string) string {
	var lines []string
	if lead != "" {
		lines = append(lines, lead)
	}
	if description != "" {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, strings.Split(strings.TrimSpace(description), "\n")...)
	}
	if deprecated {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		if reason == "" {
			reason = "no longer supported."
		}
		lines = append(lines, "Deprecated: "+reason)
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(strings.TrimRight(indent+"// "+l, " ") + "\n")
	}
	return b.String()
}

func generateGo(result *Result, s *schema.Schema, ops []*operation, opts Options) error {
	if !token.IsIdentifier(opts.GoPackage) {
		return fmt.Errorf("invalid go package name %q", opts.GoPackage)
	}

	reg := newRegistry()
	typer := &goTyper{schema: s, scalars: opts.Scalars}

	types, err := emitGoTypes(s, typer, opts, reg)
	if err != nil {
		return fmt.Errorf("failed to generate types: %w", err)
	}
	if err := addGoFile(result, opts.Filenames.Types, types); err != nil {
		return err
	}

	operations, err := emitGoOperations(s, ops, typer, opts, reg)
	if err != nil {
		return fmt.Errorf("failed to generate operations: %w", err)
	}
	return addGoFile(result, opts.Filenames.Resources, operations)
}

func addGoFile(result *Result, name, src string) error {
	formatted, err := format.Source([]byte(src))
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", name, err)
	}
	result.Files = append(result.Files, File{Name: name, Content: formatted})
	return nil
}

func emitGoTypes(s *schema.Schema, typer *goTyper, opts Options, reg *Registry) (string, error) {
	var b strings.Builder
	b.WriteString(header("//", s))
	b.WriteString("\npackage " + opts.GoPackage + "\n")

	for _, t := range s.Types {
		name := goName(t.Name)
		b.WriteString("\n")

		switch t.Kind {
		case schema.KindEnum:
			b.WriteString(goDoc("", name+" is the "+t.Name+" enum.", t.Description, false, ""))
			b.WriteString(fmt.Sprintf("type %s string\n\nconst (\n", name))
			for _, v := range t.EnumValues {
				b.WriteString(goDoc("\t", "", v.Description, v.Deprecated, v.DeprecationReason))
				b.WriteString(fmt.Sprintf("\t%s %s = %s\n", constName(name, v.Name), name, goString(v.Name)))
			}
			b.WriteString(")\n")

		case schema.KindScalar:
			b.WriteString(goDoc("", "", t.Description, false, ""))
			b.WriteString(fmt.Sprintf("type %s = %s\n", name, typer.scalarType(t.Name)))

		case schema.KindUnion:
			b.WriteString(goDoc("", name+" holds one of: "+strings.Join(t.PossibleTypes, ", ")+".", t.Description, false, ""))
			b.WriteString(fmt.Sprintf("type %s = map[string]any\n", name))

		case schema.KindObject, schema.KindInterface, schema.KindInputObject:
			b.WriteString(goDoc("", "", t.Description, false, ""))
			b.WriteString(fmt.Sprintf("type %s struct {\n", name))
			for _, f := range t.Fields {
				typ, err := typer.field(f.Type)
				if err != nil {
					return "", fmt.Errorf("field %s.%s: %w", t.Name, f.Name, err)
				}
				tag := f.Name
				if !f.Type.NonNull() {
					tag += ",omitempty"
				}
				b.WriteString(goDoc("\t", "", f.Description, f.Deprecated, f.DeprecationReason))
				b.WriteString(fmt.Sprintf("\t%s %s `json:%s`\n", goName(f.Name), typ, goString(tag)))
			}
			b.WriteString("}\n")
		}

		reg.register(t)
	}

	return b.String(), nil
}

type goArgument struct {
	Name     string
	TypeRef  string
	Required bool
}

type goOperation struct {
	Doc          string
	Func         string
	Var          string
	Name         string
	Field        string
	Kind         string
	KindConst    string
	Arguments    []goArgument
	Fields       []string
	Leaf         bool
	Params       string
	ReturnType   string
	SelectionArg string
	ArgsArg      string
}

type goInput struct {
	Name   string
	Fields []goArgument
}

// goTypeRef renders a runtime TypeRef as a Go composite literal.
func goTypeRef(ref gqlclient.TypeRef) string {
	var parts []string
	if ref.Elem != nil {
		parts = append(parts, "Elem: &"+goTypeRef(*ref.Elem))
	} else {
		parts = append(parts, "Name: "+goString(ref.Name))
	}
	if ref.NonNull {
		parts = append(parts, "NonNull: true")
	}
	return "gqlclient.TypeRef{" + strings.Join(parts, ", ") + "}"
}

func emitGoOperations(s *schema.Schema, ops []*operation, typer *goTyper, opts Options, reg *Registry) (string, error) {
	policy := "Truthy"
	if opts.RequiredCheck == gqlclient.Presence {
		policy = "Presence"
	}

	data := struct {
		Header        string
		Source        string
		Package       string
		RuntimeImport string
		Policy        string
		Enums         []string
		Inputs        []goInput
		Operations    []goOperation
	}{
		Header:        generatedHeader,
		Source:        s.Source,
		Package:       opts.GoPackage,
		RuntimeImport: opts.RuntimeImport,
		Policy:        policy,
		Enums:         reg.Enums(),
	}

	for _, in := range reg.clientInputs() {
		gi := goInput{Name: in.Name}
		for _, f := range in.Fields {
			gi.Fields = append(gi.Fields, goArgument{Name: f.Name, TypeRef: goTypeRef(f.Type)})
		}
		data.Inputs = append(data.Inputs, gi)
	}

	for _, op := range ops {
		returnType, err := typer.ref(op.Field.Type)
		if err != nil {
			return "", fmt.Errorf("operation %s: %w", op.Field.Name, err)
		}

		name := goName(op.Name())
		g := goOperation{
			Func:         "Request" + name,
			Var:          name + "Operation",
			Name:         op.Client.Name,
			Field:        op.Client.Field,
			Kind:         string(op.Kind),
			KindConst:    "Query",
			Fields:       op.Client.Fields,
			Leaf:         op.Leaf,
			ReturnType:   returnType,
			SelectionArg: "nil",
			ArgsArg:      "nil",
		}
		if op.Kind == schema.OperationMutation {
			g.KindConst = "Mutation"
		}
		g.Doc = goDoc("", fmt.Sprintf("Request%s runs the %s %s.", name, op.Field.Name, op.Kind),
			op.Field.Description, op.Field.Deprecated, op.Field.DeprecationReason)

		params := []string{"ctx context.Context", "c *gqlclient.Client"}
		if !op.Leaf {
			params = append(params, "selection gqlclient.Selection")
			g.SelectionArg = "selection"
		}
		if op.HasArgs() {
			params = append(params, "args gqlclient.Args")
			g.ArgsArg = "args"
		}
		g.Params = strings.Join(params, ", ")

		for _, a := range op.Client.Arguments {
			g.Arguments = append(g.Arguments, goArgument{
				Name:     a.Name,
				TypeRef:  goTypeRef(a.Type),
				Required: a.Required,
			})
		}

		data.Operations = append(data.Operations, g)
	}

	return executeTemplate("operations.go.tmpl", data)
}
