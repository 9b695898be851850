package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUndefinedType is returned when a field, argument or union member
	// references a type the schema does not declare.
	ErrUndefinedType = errors.New("undefined type")
	// ErrDuplicateName is returned when a type, field, argument or enum value
	// name is declared twice in the same scope.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrInvalidRootType is returned when a root operation type is missing
	// or is not an object type.
	ErrInvalidRootType = errors.New("invalid root operation type")
)

// build assembles a Schema from every named type found in a source document.
// Types are kept in the order they are given.
func build(all []*Type, queryType, mutationType string) (*Schema, error) {
	s := &Schema{
		QueryType:    queryType,
		MutationType: mutationType,
		index:        make(map[string]*Type, len(all)+len(builtinScalars)),
	}

	for _, name := range builtinScalars {
		s.index[name] = &Type{Name: name, Kind: KindScalar}
	}

	for _, t := range all {
		if strings.HasPrefix(t.Name, "__") {
			continue
		}
		if existing, ok := s.index[t.Name]; ok {
			// Introspection results repeat the built-in scalars.
			if existing.Kind == KindScalar && t.Kind == KindScalar && IsBuiltinScalar(t.Name) {
				continue
			}
			return nil, fmt.Errorf("%w: type %s declared twice", ErrDuplicateName, t.Name)
		}
		s.index[t.Name] = t

		if t.Name == queryType || t.Name == mutationType {
			continue
		}
		if t.Kind == KindScalar && IsBuiltinScalar(t.Name) {
			continue
		}
		s.Types = append(s.Types, t)
	}

	if err := s.collectOperations(); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Schema) collectOperations() error {
	roots := []struct {
		name string
		kind OperationKind
	}{
		{s.QueryType, OperationQuery},
		{s.MutationType, OperationMutation},
	}

	for _, root := range roots {
		if root.name == "" {
			continue
		}
		t, ok := s.index[root.name]
		if !ok {
			// A schema without mutations may still name the default type.
			if root.kind == OperationMutation {
				s.MutationType = ""
				continue
			}
			return fmt.Errorf("%w: %s type %s is not declared", ErrInvalidRootType, root.kind, root.name)
		}
		if t.Kind != KindObject {
			return fmt.Errorf("%w: %s type %s is %s, not OBJECT", ErrInvalidRootType, root.kind, root.name, t.Kind)
		}
		for _, f := range t.Fields {
			if strings.HasPrefix(f.Name, "__") {
				continue
			}
			s.Operations = append(s.Operations, &Operation{Kind: root.kind, Field: f})
		}
	}

	return nil
}

// Validate checks that every reference resolves and that names are unique
// within their scope. The first problem found is returned.
func (s *Schema) Validate() error {
	for _, t := range s.allTypes() {
		if err := s.validateType(t); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) validateType(t *Type) error {
	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if seen[f.Name] {
			return fmt.Errorf("%w: field %s.%s", ErrDuplicateName, t.Name, f.Name)
		}
		seen[f.Name] = true

		if err := s.resolve(f.Type, t.Name+"."+f.Name); err != nil {
			return err
		}

		args := make(map[string]bool, len(f.Arguments))
		for _, a := range f.Arguments {
			if args[a.Name] {
				return fmt.Errorf("%w: argument %s.%s(%s)", ErrDuplicateName, t.Name, f.Name, a.Name)
			}
			args[a.Name] = true
			if err := s.resolve(a.Type, fmt.Sprintf("%s.%s(%s)", t.Name, f.Name, a.Name)); err != nil {
				return err
			}
		}
	}

	values := make(map[string]bool, len(t.EnumValues))
	for _, v := range t.EnumValues {
		if values[v.Name] {
			return fmt.Errorf("%w: enum value %s.%s", ErrDuplicateName, t.Name, v.Name)
		}
		values[v.Name] = true
	}

	for _, member := range t.PossibleTypes {
		if _, ok := s.index[member]; !ok {
			return fmt.Errorf("%w: %s in union %s", ErrUndefinedType, member, t.Name)
		}
	}

	return nil
}

func (s *Schema) resolve(ref *TypeRef, where string) error {
	name := ref.NamedType()
	if name == "" {
		return fmt.Errorf("%w: empty type reference on %s", ErrUndefinedType, where)
	}
	if _, ok := s.index[name]; !ok {
		return fmt.Errorf("%w: %s referenced by %s", ErrUndefinedType, name, where)
	}
	return nil
}

// allTypes returns the declared types followed by the root operation types.
func (s *Schema) allTypes() []*Type {
	types := make([]*Type, 0, len(s.Types)+2)
	types = append(types, s.Types...)
	for _, root := range []string{s.QueryType, s.MutationType} {
		if t, ok := s.index[root]; ok && root != "" {
			types = append(types, t)
		}
	}
	return types
}

// RootType returns the root type for the given operation kind.
func (s *Schema) RootType(kind OperationKind) (*Type, bool) {
	name := s.QueryType
	if kind == OperationMutation {
		name = s.MutationType
	}
	if name == "" {
		return nil, false
	}
	return s.Lookup(name)
}
