package generator

import (
	"fmt"

	"github.com/barisgit/gqlflux/internal/schema"
	"github.com/barisgit/gqlflux/pkg/gqlclient"
)

// operation is a root field prepared for the emitters.
type operation struct {
	*schema.Operation

	// Returns is the named return type with wrappers stripped.
	Returns *schema.Type
	Leaf    bool
	// Fields are the names a selection may request.
	Fields []string

	Client *gqlclient.Operation
}

func (o *operation) Args() []*schema.Argument {
	return o.Field.Arguments
}

func (o *operation) HasArgs() bool {
	return len(o.Field.Arguments) > 0
}

// HasRequiredArgs reports whether callers must pass an args object.
func (o *operation) HasRequiredArgs() bool {
	for _, a := range o.Field.Arguments {
		if a.Required() {
			return true
		}
	}
	return false
}

func buildOperations(s *schema.Schema) ([]*operation, error) {
	ops := make([]*operation, 0, len(s.Operations))
	for _, op := range s.Operations {
		name := op.Field.Type.NamedType()
		returns, ok := s.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w %s returned by %s", ErrUnknownType, name, op.Field.Name)
		}

		o := &operation{
			Operation: op,
			Returns:   returns,
			Leaf:      s.IsLeaf(name),
		}

		switch returns.Kind {
		case schema.KindObject, schema.KindInterface:
			for _, f := range returns.Fields {
				o.Fields = append(o.Fields, f.Name)
			}
		case schema.KindUnion:
			o.Fields = []string{"__typename"}
		}

		client := &gqlclient.Operation{
			Kind:   gqlclient.OperationKind(op.Kind),
			Name:   op.Name(),
			Field:  op.Field.Name,
			Fields: o.Fields,
			Leaf:   o.Leaf,
		}
		for _, a := range op.Field.Arguments {
			if _, ok := s.Lookup(a.Type.NamedType()); !ok {
				return nil, fmt.Errorf("%w %s on argument %s.%s", ErrUnknownType, a.Type.NamedType(), op.Field.Name, a.Name)
			}
			client.Arguments = append(client.Arguments, gqlclient.Argument{
				Name:     a.Name,
				Type:     clientRef(a.Type),
				Required: a.Required(),
			})
		}
		o.Client = client

		ops = append(ops, o)
	}
	return ops, nil
}

// clientRef converts a schema reference to the runtime's TypeRef.
func clientRef(ref *schema.TypeRef) gqlclient.TypeRef {
	var out gqlclient.TypeRef
	if ref.NonNull() {
		out = clientRef(ref.OfType)
		out.NonNull = true
		return out
	}
	if ref.Kind == schema.RefList {
		elem := clientRef(ref.OfType)
		return gqlclient.TypeRef{Elem: &elem}
	}
	return gqlclient.TypeRef{Name: ref.Name}
}

// queryTemplate renders the document template of op, with placeholders for
// the selection and every argument.
func (o *operation) queryTemplate() string {
	return o.Client.Template().String()
}
