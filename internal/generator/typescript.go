package generator

import (
	"fmt"
	"strings"

	"github.com/barisgit/gqlflux/internal/schema"
)

func generateTypeScript(result *Result, s *schema.Schema, ops []*operation, opts Options) error {
	reg := newRegistry()

	types, err := emitTSTypes(s, opts, reg)
	if err != nil {
		return fmt.Errorf("failed to generate types: %w", err)
	}
	result.add(opts.Filenames.Types, types)

	result.add(opts.Filenames.Queries, emitQueries(s, ops))

	resources, err := emitResources(s, ops, opts)
	if err != nil {
		return fmt.Errorf("failed to generate request functions: %w", err)
	}
	result.add(opts.Filenames.Resources, resources)

	if opts.Hooks {
		hooks, err := emitHooks(s, ops, opts)
		if err != nil {
			return fmt.Errorf("failed to generate hooks: %w", err)
		}
		result.add(opts.Filenames.Hooks, hooks)
	}

	runtime, err := emitRuntime(reg, opts)
	if err != nil {
		return fmt.Errorf("failed to generate runtime: %w", err)
	}
	result.add(opts.Filenames.Runtime, runtime)

	modules := []string{opts.Filenames.Types, opts.Filenames.Queries, opts.Filenames.Resources}
	if opts.Hooks {
		modules = append(modules, opts.Filenames.Hooks)
	}
	modules = append(modules, opts.Filenames.Runtime)
	result.add(opts.Filenames.Index, emitIndex(s, modules))

	return nil
}

// documentConst is the name of the exported template for op,
// e.g. userQuery or loginMutation.
func documentConst(op *operation) string {
	if op.Kind == schema.OperationMutation {
		return op.Field.Name + "Mutation"
	}
	return op.Field.Name + "Query"
}

func argsTypeName(op *operation) string {
	return op.Name() + "Args"
}

// emitQueries writes one template constant per operation.
func emitQueries(s *schema.Schema, ops []*operation) string {
	var b strings.Builder
	b.WriteString(header("//", s))
	for _, op := range ops {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("export const %s = `%s`;\n", documentConst(op), op.queryTemplate()))
	}
	return b.String()
}

// runtimeRef renders a reference in the runtime's TypeRef notation:
// 'ID' for a named type, ['ID'] for a list.
func runtimeRef(ref *schema.TypeRef) string {
	ref = ref.Nullable()
	if ref.Kind == schema.RefList {
		return "[" + runtimeRef(ref.OfType) + "]"
	}
	return "'" + ref.Name + "'"
}

type tsArg struct {
	Name    string
	TypeRef string
}

type tsOperation struct {
	Doc           string
	Name          string
	Field         string
	DocumentConst string
	Leaf          bool
	Mutation      bool
	ReturnType    string
	Params        string
	RequiredArgs  []string
	Args          []tsArg

	// Hook fields.
	HookParams     string
	Key            string
	Call           string
	Variables      string
	MutationParams string
}

// HasChecks reports whether the request function validates its input before
// building the document.
func (o *tsOperation) HasChecks() bool {
	return !o.Leaf || len(o.RequiredArgs) > 0
}

// Substitutes reports whether the template has markers to fill.
func (o *tsOperation) Substitutes() bool {
	return !o.Leaf || len(o.Args) > 0
}

// selectionType is the type argument of Selection<T> for op.
func selectionType(op *operation) string {
	if op.Returns.Kind == schema.KindUnion {
		return "{ __typename: string }"
	}
	return op.Returns.Name
}

func newTSOperation(op *operation, typer *tsTyper) (*tsOperation, error) {
	returnType, err := typer.ref(op.Field.Type)
	if err != nil {
		return nil, fmt.Errorf("operation %s: %w", op.Field.Name, err)
	}

	t := &tsOperation{
		Doc:           tsDoc("", op.Field.Description, op.Field.Deprecated, op.Field.DeprecationReason),
		Name:          op.Name(),
		Field:         op.Field.Name,
		DocumentConst: documentConst(op),
		Leaf:          op.Leaf,
		Mutation:      op.Kind == schema.OperationMutation,
		ReturnType:    returnType,
	}

	var params, call, key []string
	key = append(key, "'"+t.Name+"'")
	if !op.Leaf {
		params = append(params, "selection: Selection<"+selectionType(op)+">")
		call = append(call, "selection")
		key = append(key, "selection")
	}
	hookParams := append([]string(nil), params...)

	t.Variables = "void"
	if op.HasArgs() {
		argsParam := "args: " + argsTypeName(op)
		t.Variables = argsTypeName(op)
		if !op.HasRequiredArgs() {
			argsParam += " = {}"
			t.Variables += " | undefined"
		}
		params = append(params, argsParam)
		call = append(call, "args")
		t.MutationParams = "args"
		if !t.Mutation {
			hookParams = append(hookParams, argsParam)
			key = append(key, "args")
		}
	}

	for _, a := range op.Args() {
		if a.Required() {
			t.RequiredArgs = append(t.RequiredArgs, a.Name)
		}
		t.Args = append(t.Args, tsArg{Name: a.Name, TypeRef: runtimeRef(a.Type)})
	}

	t.Params = strings.Join(params, ", ")
	t.HookParams = strings.Join(hookParams, ", ")
	t.Key = strings.Join(key, ", ")
	t.Call = strings.Join(call, ", ")

	return t, nil
}

// emitResources writes the argument types and one request function per
// operation.
func emitResources(s *schema.Schema, ops []*operation, opts Options) (string, error) {
	typer := newTSTyper(s)
	imps := newImports()
	typesModule := modulePath(opts.Filenames.Types)
	runtimeModule := modulePath(opts.Filenames.Runtime)
	queriesModule := modulePath(opts.Filenames.Queries)

	var body strings.Builder
	for _, op := range ops {
		if op.HasArgs() {
			decl, err := tsRecord(typer, &schema.Type{Name: argsTypeName(op), Fields: argFields(op)}, true)
			if err != nil {
				return "", fmt.Errorf("operation %s: %w", op.Field.Name, err)
			}
			body.WriteString("\n")
			body.WriteString(decl)
		}

		data, err := newTSOperation(op, typer)
		if err != nil {
			return "", err
		}
		fn, err := executeTemplate("request.ts.tmpl", data)
		if err != nil {
			return "", err
		}
		body.WriteString("\n")
		body.WriteString(fn)

		imps.value(opts.RequestImport, "graphqlRequest")
		imps.value(queriesModule, data.DocumentConst)
		if data.Substitutes() {
			imps.value(runtimeModule, "fill")
		}
		if !op.Leaf {
			imps.value(runtimeModule, "selectFields")
			imps.typ(runtimeModule, "Selection")
		}
		if len(data.RequiredArgs) > 0 {
			imps.value(runtimeModule, "isMissing")
		}
		if op.HasArgs() {
			imps.value(runtimeModule, "toLiteral")
		}
	}
	imps.typ(typesModule, typer.usedNames()...)

	var b strings.Builder
	b.WriteString(header("//", s))
	if imports := imps.render(); imports != "" {
		b.WriteString("\n")
		b.WriteString(imports)
	}
	b.WriteString(body.String())
	return b.String(), nil
}

// argFields presents operation arguments as record fields so the argument
// type can be declared like an input object.
func argFields(op *operation) []*schema.Field {
	fields := make([]*schema.Field, 0, len(op.Args()))
	for _, a := range op.Args() {
		typ := a.Type
		if a.DefaultValue != nil {
			typ = typ.Nullable()
		}
		fields = append(fields, &schema.Field{Name: a.Name, Description: a.Description, Type: typ})
	}
	return fields
}

// emitHooks writes a React Query hook per operation.
func emitHooks(s *schema.Schema, ops []*operation, opts Options) (string, error) {
	typer := newTSTyper(s)
	imps := newImports()
	resourcesModule := modulePath(opts.Filenames.Resources)
	runtimeModule := modulePath(opts.Filenames.Runtime)

	var body strings.Builder
	for _, op := range ops {
		data, err := newTSOperation(op, typer)
		if err != nil {
			return "", err
		}
		hook, err := executeTemplate("hook.ts.tmpl", data)
		if err != nil {
			return "", err
		}
		body.WriteString("\n")
		body.WriteString(hook)

		imps.value(resourcesModule, "request"+data.Name)
		if op.HasArgs() {
			imps.typ(resourcesModule, argsTypeName(op))
		}
		if !op.Leaf {
			imps.typ(runtimeModule, "Selection")
		}
		if data.Mutation {
			imps.value(opts.ReactQueryImport, "useMutation")
		} else {
			imps.value(opts.ReactQueryImport, "useQuery")
		}
	}
	imps.typ(modulePath(opts.Filenames.Types), typer.usedNames()...)

	var b strings.Builder
	b.WriteString(header("//", s))
	if imports := imps.render(); imports != "" {
		b.WriteString("\n")
		b.WriteString(imports)
	}
	b.WriteString(body.String())
	return b.String(), nil
}

type runtimeInput struct {
	Name   string
	Fields []tsArg
}

func emitRuntime(reg *Registry, opts Options) (string, error) {
	data := struct {
		Header        string
		Enums         []string
		Inputs        []runtimeInput
		RequiredCheck string
	}{
		Header:        generatedHeader,
		Enums:         reg.Enums(),
		RequiredCheck: opts.RequiredCheck.String(),
	}
	for _, t := range reg.Inputs() {
		in := runtimeInput{Name: t.Name}
		for _, f := range t.Fields {
			in.Fields = append(in.Fields, tsArg{Name: f.Name, TypeRef: runtimeRef(f.Type)})
		}
		data.Inputs = append(data.Inputs, in)
	}
	return executeTemplate("runtime.ts.tmpl", data)
}

func emitIndex(s *schema.Schema, modules []string) string {
	var b strings.Builder
	b.WriteString(header("//", s))
	b.WriteString("\n")
	for _, m := range modules {
		b.WriteString("export * from '" + modulePath(m) + "';\n")
	}
	return b.String()
}
