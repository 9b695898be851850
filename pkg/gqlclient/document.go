package gqlclient

import (
	"strings"
)

// FieldsPlaceholder marks where the selected fields go in a template.
const FieldsPlaceholder = "{{fields}}"

// ArgumentPlaceholder returns the template marker for an argument value.
func ArgumentPlaceholder(name string) string {
	return "{{args." + name + "}}"
}

// DocumentArgument is an argument as written in a document. Value is a
// GraphQL literal or a placeholder.
type DocumentArgument struct {
	Name  string
	Value string
}

// Document is a single-field operation ready to be rendered.
type Document struct {
	Kind      OperationKind
	Name      string
	Field     string
	Arguments []DocumentArgument
	// Selection is empty for leaf fields.
	Selection []string
}

// String renders the document:
//
//	query User {
//	  user(id: "42") {
//	    id
//	    name
//	  }
//	}
//
// Parentheses are omitted when there are no arguments and the selection block
// is omitted when there is no selection.
func (d *Document) String() string {
	var b strings.Builder

	b.WriteString(string(d.Kind))
	b.WriteString(" ")
	b.WriteString(d.Name)
	b.WriteString(" {\n  ")
	b.WriteString(d.Field)

	if len(d.Arguments) > 0 {
		b.WriteString("(")
		for i, arg := range d.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name)
			b.WriteString(": ")
			b.WriteString(arg.Value)
		}
		b.WriteString(")")
	}

	if len(d.Selection) > 0 {
		b.WriteString(" {\n")
		for _, field := range d.Selection {
			b.WriteString("    ")
			b.WriteString(field)
			b.WriteString("\n")
		}
		b.WriteString("  }")
	}

	b.WriteString("\n}")
	return b.String()
}
