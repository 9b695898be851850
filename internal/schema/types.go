// Package schema holds the in-memory model of a GraphQL schema that every
// emitter reads from. A Schema is built once per generation run, either from
// SDL, from an introspection result, or from a live endpoint, and is treated
// as read-only afterwards.
package schema

import (
	"strings"
)

// Kind is the introspection kind of a named type.
type Kind string

const (
	KindObject      Kind = "OBJECT"
	KindInputObject Kind = "INPUT_OBJECT"
	KindEnum        Kind = "ENUM"
	KindScalar      Kind = "SCALAR"
	KindInterface   Kind = "INTERFACE"
	KindUnion       Kind = "UNION"
)

// RefKind distinguishes named references from the LIST and NON_NULL wrappers.
type RefKind string

const (
	RefNamed   RefKind = "NAMED"
	RefList    RefKind = "LIST"
	RefNonNull RefKind = "NON_NULL"
)

// OperationKind is the root operation a field belongs to.
type OperationKind string

const (
	OperationQuery    OperationKind = "query"
	OperationMutation OperationKind = "mutation"
)

// builtinScalars are defined by every GraphQL schema.
var builtinScalars = []string{"String", "Int", "Float", "Boolean", "ID"}

// TypeRef is a reference to a type as written on a field or argument.
// A reference without a NON_NULL wrapper is nullable.
type TypeRef struct {
	Kind   RefKind  `json:"kind"`
	Name   string   `json:"name,omitempty"`
	OfType *TypeRef `json:"ofType,omitempty"`
}

// Named returns a reference to the named type.
func Named(name string) *TypeRef {
	return &TypeRef{Kind: RefNamed, Name: name}
}

// ListOf wraps ref in a LIST.
func ListOf(ref *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefList, OfType: ref}
}

// NonNullOf wraps ref in a NON_NULL.
func NonNullOf(ref *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefNonNull, OfType: ref}
}

// NamedType returns the innermost type name.
func (r *TypeRef) NamedType() string {
	for ref := r; ref != nil; ref = ref.OfType {
		if ref.Kind == RefNamed {
			return ref.Name
		}
	}
	return ""
}

// NonNull reports whether the outermost wrapper is NON_NULL.
func (r *TypeRef) NonNull() bool {
	return r != nil && r.Kind == RefNonNull
}

// Nullable returns the reference without its outer NON_NULL wrapper.
func (r *TypeRef) Nullable() *TypeRef {
	if r.NonNull() {
		return r.OfType
	}
	return r
}

// IsList reports whether the reference is a list once NON_NULL is stripped.
func (r *TypeRef) IsList() bool {
	return r.Nullable().Kind == RefList
}

// String renders the reference in GraphQL notation, e.g. "[ID!]!".
func (r *TypeRef) String() string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case RefList:
		return "[" + r.OfType.String() + "]"
	case RefNonNull:
		return r.OfType.String() + "!"
	default:
		return r.Name
	}
}

// Type is a named type declared by the schema.
type Type struct {
	Name          string       `json:"name"`
	Kind          Kind         `json:"kind"`
	Description   string       `json:"description,omitempty"`
	Fields        []*Field     `json:"fields,omitempty"`
	EnumValues    []*EnumValue `json:"enumValues,omitempty"`
	Interfaces    []string     `json:"interfaces,omitempty"`
	PossibleTypes []string     `json:"possibleTypes,omitempty"`
}

// Field looks up a field by name.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Field is a field of an object, interface or input type. Root operation
// fields carry their arguments here as well.
type Field struct {
	Name              string      `json:"name"`
	Description       string      `json:"description,omitempty"`
	Type              *TypeRef    `json:"type"`
	Arguments         []*Argument `json:"arguments,omitempty"`
	DefaultValue      *string     `json:"defaultValue,omitempty"`
	Deprecated        bool        `json:"deprecated,omitempty"`
	DeprecationReason string      `json:"deprecationReason,omitempty"`
}

// Argument is a field argument.
type Argument struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Type         *TypeRef `json:"type"`
	DefaultValue *string  `json:"defaultValue,omitempty"`
}

// Required reports whether callers must supply the argument.
func (a *Argument) Required() bool {
	return a.Type.NonNull() && a.DefaultValue == nil
}

// EnumValue is a member of an enum type.
type EnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	Deprecated        bool   `json:"deprecated,omitempty"`
	DeprecationReason string `json:"deprecationReason,omitempty"`
}

// Operation is a root query or mutation field.
type Operation struct {
	Kind  OperationKind
	Field *Field
}

// Name is the operation name used in documents and generated identifiers,
// the field name with its first letter upper-cased.
func (o *Operation) Name() string {
	if o.Field.Name == "" {
		return ""
	}
	return strings.ToUpper(o.Field.Name[:1]) + o.Field.Name[1:]
}

// Schema is the parsed schema handed to the emitters.
type Schema struct {
	// Types holds user-declared types in declaration order. Root operation
	// types, built-in scalars and introspection types are not included.
	Types        []*Type
	Operations   []*Operation
	QueryType    string
	MutationType string

	// Source is where the schema was loaded from, for generated headers.
	Source string

	index map[string]*Type
}

// Lookup returns the named type, including the root operation types and the
// built-in scalars.
func (s *Schema) Lookup(name string) (*Type, bool) {
	t, ok := s.index[name]
	return t, ok
}

// IsLeaf reports whether name is a scalar or enum, i.e. a type that takes no
// selection set.
func (s *Schema) IsLeaf(name string) bool {
	t, ok := s.index[name]
	return ok && (t.Kind == KindScalar || t.Kind == KindEnum)
}

// IsBuiltinScalar reports whether name is one of the built-in GraphQL scalars.
func IsBuiltinScalar(name string) bool {
	for _, s := range builtinScalars {
		if s == name {
			return true
		}
	}
	return false
}

// Queries returns the query operations in declaration order.
func (s *Schema) Queries() []*Operation {
	return s.operationsOf(OperationQuery)
}

// Mutations returns the mutation operations in declaration order.
func (s *Schema) Mutations() []*Operation {
	return s.operationsOf(OperationMutation)
}

func (s *Schema) operationsOf(kind OperationKind) []*Operation {
	var ops []*Operation
	for _, op := range s.Operations {
		if op.Kind == kind {
			ops = append(ops, op)
		}
	}
	return ops
}
