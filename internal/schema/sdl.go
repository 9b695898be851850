package schema

import (
	"fmt"
	"sort"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// ParseSDL parses and validates a schema written in the GraphQL schema
// definition language. name is used in error positions.
func ParseSDL(name, source string) (*Schema, error) {
	doc, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", name, err)
	}

	defs := make([]*ast.Definition, 0, len(doc.Types))
	for _, def := range doc.Types {
		if def.BuiltIn {
			continue
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return positionLess(defs[i].Position, defs[j].Position)
	})

	types := make([]*Type, 0, len(defs))
	for _, def := range defs {
		types = append(types, fromDefinition(def))
	}

	var queryType, mutationType string
	if doc.Query != nil {
		queryType = doc.Query.Name
	}
	if doc.Mutation != nil {
		mutationType = doc.Mutation.Name
	}

	s, err := build(types, queryType, mutationType)
	if err != nil {
		return nil, err
	}
	s.Source = name
	return s, nil
}

func positionLess(a, b *ast.Position) bool {
	if a == nil || b == nil {
		return b != nil
	}
	var srcA, srcB string
	if a.Src != nil {
		srcA = a.Src.Name
	}
	if b.Src != nil {
		srcB = b.Src.Name
	}
	if srcA != srcB {
		return srcA < srcB
	}
	return a.Start < b.Start
}

func fromDefinition(def *ast.Definition) *Type {
	t := &Type{
		Name:        def.Name,
		Kind:        Kind(def.Kind),
		Description: def.Description,
		Interfaces:  append([]string(nil), def.Interfaces...),
	}

	for _, f := range def.Fields {
		if len(f.Name) > 1 && f.Name[:2] == "__" {
			continue
		}
		field := &Field{
			Name:        f.Name,
			Description: f.Description,
			Type:        fromASTType(f.Type),
		}
		if f.DefaultValue != nil {
			v := f.DefaultValue.String()
			field.DefaultValue = &v
		}
		field.Deprecated, field.DeprecationReason = deprecation(f.Directives)

		for _, a := range f.Arguments {
			arg := &Argument{
				Name:        a.Name,
				Description: a.Description,
				Type:        fromASTType(a.Type),
			}
			if a.DefaultValue != nil {
				v := a.DefaultValue.String()
				arg.DefaultValue = &v
			}
			field.Arguments = append(field.Arguments, arg)
		}
		t.Fields = append(t.Fields, field)
	}

	for _, v := range def.EnumValues {
		value := &EnumValue{Name: v.Name, Description: v.Description}
		value.Deprecated, value.DeprecationReason = deprecation(v.Directives)
		t.EnumValues = append(t.EnumValues, value)
	}

	if def.Kind == ast.Union {
		t.PossibleTypes = append([]string(nil), def.Types...)
	}

	return t
}

func fromASTType(t *ast.Type) *TypeRef {
	if t == nil {
		return nil
	}
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListOf(fromASTType(t.Elem))
	} else {
		ref = Named(t.NamedType)
	}
	if t.NonNull {
		ref = NonNullOf(ref)
	}
	return ref
}

func deprecation(directives ast.DirectiveList) (bool, string) {
	d := directives.ForName("deprecated")
	if d == nil {
		return false, ""
	}
	reason := "No longer supported"
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		reason = arg.Value.Raw
	}
	return true, reason
}
