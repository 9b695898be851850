package gqlclient

// OperationKind is the root operation type.
type OperationKind string

const (
	Query    OperationKind = "query"
	Mutation OperationKind = "mutation"
)

// Argument is a declared argument of an operation.
type Argument struct {
	Name     string
	Type     TypeRef
	Required bool
}

// Operation describes one root field as generated from the schema.
type Operation struct {
	Kind OperationKind
	// Name is the document's operation name, e.g. "User".
	Name string
	// Field is the root field, e.g. "user". It is also the response key.
	Field     string
	Arguments []Argument
	// Fields lists the selectable fields of the return type in declaration
	// order.
	Fields []string
	// Leaf is set when the field returns a scalar or enum and takes no
	// selection set.
	Leaf bool
}

// Template returns the operation's document with placeholders in place of
// the selection and argument values, the form written to query files.
func (op *Operation) Template() *Document {
	doc := &Document{
		Kind:  op.Kind,
		Name:  op.Name,
		Field: op.Field,
	}
	for _, arg := range op.Arguments {
		doc.Arguments = append(doc.Arguments, DocumentArgument{
			Name:  arg.Name,
			Value: ArgumentPlaceholder(arg.Name),
		})
	}
	if !op.Leaf {
		doc.Selection = []string{FieldsPlaceholder}
	}
	return doc
}
