package schema

import (
	"encoding/json"
	"errors"
	"fmt"
)

// IntrospectionQuery is the standard query used to fetch a full schema from a
// live endpoint. The type reference depth covers wrappers like [[T!]!]!.
const IntrospectionQuery = `query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types {
      ...FullType
    }
  }
}

fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args {
      ...InputValue
    }
    type {
      ...TypeRef
    }
    isDeprecated
    deprecationReason
  }
  inputFields {
    ...InputValue
  }
  interfaces {
    ...TypeRef
  }
  enumValues(includeDeprecated: true) {
    name
    description
    isDeprecated
    deprecationReason
  }
  possibleTypes {
    ...TypeRef
  }
}

fragment InputValue on __InputValue {
  name
  description
  type { ...TypeRef }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}`

// ErrNoSchema is returned when an introspection document has no __schema.
var ErrNoSchema = errors.New("introspection result has no __schema")

type introspectionResult struct {
	Schema *introspectionSchema `json:"__schema"`
	Data   *struct {
		Schema *introspectionSchema `json:"__schema"`
	} `json:"data"`
}

type introspectionSchema struct {
	QueryType    *introspectionName  `json:"queryType"`
	MutationType *introspectionName  `json:"mutationType"`
	Types        []introspectionType `json:"types"`
}

type introspectionName struct {
	Name string `json:"name"`
}

type introspectionType struct {
	Kind          string               `json:"kind"`
	Name          string               `json:"name"`
	Description   *string              `json:"description"`
	Fields        []introspectionField `json:"fields"`
	InputFields   []introspectionInput `json:"inputFields"`
	Interfaces    []introspectionRef   `json:"interfaces"`
	EnumValues    []introspectionEnum  `json:"enumValues"`
	PossibleTypes []introspectionRef   `json:"possibleTypes"`
}

type introspectionField struct {
	Name              string               `json:"name"`
	Description       *string              `json:"description"`
	Args              []introspectionInput `json:"args"`
	Type              *introspectionRef    `json:"type"`
	IsDeprecated      bool                 `json:"isDeprecated"`
	DeprecationReason *string              `json:"deprecationReason"`
}

type introspectionInput struct {
	Name         string            `json:"name"`
	Description  *string           `json:"description"`
	Type         *introspectionRef `json:"type"`
	DefaultValue *string           `json:"defaultValue"`
}

type introspectionEnum struct {
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

type introspectionRef struct {
	Kind   string            `json:"kind"`
	Name   *string           `json:"name"`
	OfType *introspectionRef `json:"ofType"`
}

// ParseIntrospection builds a Schema from an introspection result. Both the
// bare {"__schema": ...} form and a full {"data": {"__schema": ...}} response
// are accepted.
func ParseIntrospection(data []byte) (*Schema, error) {
	var result introspectionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode introspection result: %w", err)
	}

	raw := result.Schema
	if raw == nil && result.Data != nil {
		raw = result.Data.Schema
	}
	if raw == nil {
		return nil, ErrNoSchema
	}

	types := make([]*Type, 0, len(raw.Types))
	for _, it := range raw.Types {
		t, err := it.toType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}

	queryType := "Query"
	if raw.QueryType != nil {
		queryType = raw.QueryType.Name
	}
	var mutationType string
	if raw.MutationType != nil {
		mutationType = raw.MutationType.Name
	}

	return build(types, queryType, mutationType)
}

func (it introspectionType) toType() (*Type, error) {
	t := &Type{
		Name:        it.Name,
		Kind:        Kind(it.Kind),
		Description: deref(it.Description),
	}

	switch t.Kind {
	case KindObject, KindInputObject, KindEnum, KindScalar, KindInterface, KindUnion:
	default:
		return nil, fmt.Errorf("type %s has unknown kind %q", it.Name, it.Kind)
	}

	for _, f := range it.Fields {
		ref, err := f.Type.toRef()
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", it.Name, f.Name, err)
		}
		field := &Field{
			Name:              f.Name,
			Description:       deref(f.Description),
			Type:              ref,
			Deprecated:        f.IsDeprecated,
			DeprecationReason: deref(f.DeprecationReason),
		}
		for _, a := range f.Args {
			arg, err := a.toArgument()
			if err != nil {
				return nil, fmt.Errorf("argument %s.%s(%s): %w", it.Name, f.Name, a.Name, err)
			}
			field.Arguments = append(field.Arguments, arg)
		}
		t.Fields = append(t.Fields, field)
	}

	// Input fields share the Field model so emitters can treat records alike.
	for _, in := range it.InputFields {
		arg, err := in.toArgument()
		if err != nil {
			return nil, fmt.Errorf("input field %s.%s: %w", it.Name, in.Name, err)
		}
		t.Fields = append(t.Fields, &Field{
			Name:         arg.Name,
			Description:  arg.Description,
			Type:         arg.Type,
			DefaultValue: arg.DefaultValue,
		})
	}

	for _, v := range it.EnumValues {
		t.EnumValues = append(t.EnumValues, &EnumValue{
			Name:              v.Name,
			Description:       deref(v.Description),
			Deprecated:        v.IsDeprecated,
			DeprecationReason: deref(v.DeprecationReason),
		})
	}

	for _, i := range it.Interfaces {
		t.Interfaces = append(t.Interfaces, deref(i.Name))
	}
	for _, p := range it.PossibleTypes {
		if t.Kind == KindUnion {
			t.PossibleTypes = append(t.PossibleTypes, deref(p.Name))
		}
	}

	return t, nil
}

func (in introspectionInput) toArgument() (*Argument, error) {
	ref, err := in.Type.toRef()
	if err != nil {
		return nil, err
	}
	return &Argument{
		Name:         in.Name,
		Description:  deref(in.Description),
		Type:         ref,
		DefaultValue: in.DefaultValue,
	}, nil
}

func (r *introspectionRef) toRef() (*TypeRef, error) {
	if r == nil {
		return nil, errors.New("missing type reference")
	}
	switch r.Kind {
	case string(RefNonNull):
		inner, err := r.OfType.toRef()
		if err != nil {
			return nil, err
		}
		return NonNullOf(inner), nil
	case string(RefList):
		inner, err := r.OfType.toRef()
		if err != nil {
			return nil, err
		}
		return ListOf(inner), nil
	default:
		if r.Name == nil || *r.Name == "" {
			return nil, fmt.Errorf("named %s reference without a name", r.Kind)
		}
		return Named(*r.Name), nil
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
