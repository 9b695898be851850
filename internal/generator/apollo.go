package generator

import (
	"fmt"
	"strings"

	"github.com/barisgit/gqlflux/internal/schema"
)

func generateApollo(result *Result, s *schema.Schema, ops []*operation, opts Options) error {
	types, err := emitTSTypes(s, opts, newRegistry())
	if err != nil {
		return fmt.Errorf("failed to generate types: %w", err)
	}
	result.add(opts.Filenames.Types, types)

	var b strings.Builder
	b.WriteString(header("//", s))
	if len(ops) > 0 {
		b.WriteString("\nimport { gql } from '" + defaultApolloImport + "';\n")
	}
	for _, op := range ops {
		b.WriteString("\n")
		b.WriteString(tsDoc("", op.Field.Description, op.Field.Deprecated, op.Field.DeprecationReason))
		b.WriteString(fmt.Sprintf("export const %s = gql`\n%s\n`;\n", screamingName(op.Field.Name, string(op.Kind)), apolloDocument(s, op)))
	}
	result.add(opts.Filenames.Queries, b.String())

	result.add(opts.Filenames.Index, emitIndex(s, []string{opts.Filenames.Types, opts.Filenames.Queries}))
	return nil
}

// apolloDocument renders op with one variable per argument and a selection
// of every leaf field of the return type.
func apolloDocument(s *schema.Schema, op *operation) string {
	var b strings.Builder
	b.WriteString("  " + string(op.Kind) + " " + op.Name())

	args := op.Args()
	if len(args) > 0 {
		vars := make([]string, 0, len(args))
		uses := make([]string, 0, len(args))
		for _, a := range args {
			v := "$" + a.Name + ": " + a.Type.String()
			if a.DefaultValue != nil {
				v += " = " + *a.DefaultValue
			}
			vars = append(vars, v)
			uses = append(uses, a.Name+": $"+a.Name)
		}
		b.WriteString("(" + strings.Join(vars, ", ") + ") {\n")
		b.WriteString("    " + op.Field.Name + "(" + strings.Join(uses, ", ") + ")")
	} else {
		b.WriteString(" {\n")
		b.WriteString("    " + op.Field.Name)
	}

	if !op.Leaf {
		b.WriteString(" {\n")
		for _, f := range leafFields(s, op) {
			b.WriteString("      " + f + "\n")
		}
		b.WriteString("    }")
	}

	b.WriteString("\n  }")
	return b.String()
}

// leafFields returns the scalar and enum fields of op's return type that take
// no required arguments, or __typename when there are none.
func leafFields(s *schema.Schema, op *operation) []string {
	var fields []string
	if op.Returns.Kind == schema.KindObject || op.Returns.Kind == schema.KindInterface {
		for _, f := range op.Returns.Fields {
			if !s.IsLeaf(f.Type.NamedType()) || hasRequiredArgs(f) {
				continue
			}
			fields = append(fields, f.Name)
		}
	}
	if len(fields) == 0 {
		return []string{"__typename"}
	}
	return fields
}

func hasRequiredArgs(f *schema.Field) bool {
	for _, a := range f.Arguments {
		if a.Required() {
			return true
		}
	}
	return false
}
