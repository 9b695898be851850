// Package gqlclient is the runtime behind generated Go request functions. It
// validates a selection and its arguments, renders the operation document and
// hands it to a Transport.
package gqlclient

// TypeRef describes the declared type of an argument or input field.
// Elem is set for lists, Name for everything else.
type TypeRef struct {
	Name    string
	Elem    *TypeRef
	NonNull bool
}

// InputField is a field of an input object, in declaration order.
type InputField struct {
	Name string
	Type TypeRef
}

// InputType is an input object known to the Schema.
type InputType struct {
	Name   string
	Fields []InputField
}

// Field returns the named field.
func (t *InputType) Field(name string) (InputField, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return InputField{}, false
}

// Schema is the registry of enum and input type names consulted when
// arguments are encoded. Names it does not know are treated as scalars.
type Schema struct {
	enums  map[string]bool
	inputs map[string]*InputType
}

// NewSchema returns a registry for the given enums and input types.
func NewSchema(enums []string, inputs ...*InputType) *Schema {
	s := &Schema{
		enums:  make(map[string]bool, len(enums)),
		inputs: make(map[string]*InputType, len(inputs)),
	}
	for _, name := range enums {
		s.enums[name] = true
	}
	for _, in := range inputs {
		s.inputs[in.Name] = in
	}
	return s
}

// IsEnum reports whether name is a registered enum.
func (s *Schema) IsEnum(name string) bool {
	return s != nil && s.enums[name]
}

// Input returns the registered input type called name.
func (s *Schema) Input(name string) (*InputType, bool) {
	if s == nil {
		return nil, false
	}
	in, ok := s.inputs[name]
	return in, ok
}
