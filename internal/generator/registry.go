package generator

import (
	"github.com/barisgit/gqlflux/internal/schema"
	"github.com/barisgit/gqlflux/pkg/gqlclient"
)

// Registry records the enums and input objects the type emitter wrote. The
// request emitters consult it to encode argument values.
type Registry struct {
	enums  []string
	inputs []*schema.Type
	known  map[string]schema.Kind
}

func newRegistry() *Registry {
	return &Registry{known: make(map[string]schema.Kind)}
}

func (r *Registry) register(t *schema.Type) {
	switch t.Kind {
	case schema.KindEnum:
		if _, ok := r.known[t.Name]; !ok {
			r.enums = append(r.enums, t.Name)
		}
	case schema.KindInputObject:
		if _, ok := r.known[t.Name]; !ok {
			r.inputs = append(r.inputs, t)
		}
	default:
		return
	}
	r.known[t.Name] = t.Kind
}

// Enums returns the registered enum names in registration order.
func (r *Registry) Enums() []string {
	return r.enums
}

// Inputs returns the registered input objects in registration order.
func (r *Registry) Inputs() []*schema.Type {
	return r.inputs
}

// ClientSchema converts the registry to the runtime representation.
func (r *Registry) ClientSchema() *gqlclient.Schema {
	return gqlclient.NewSchema(r.enums, r.clientInputs()...)
}

func (r *Registry) clientInputs() []*gqlclient.InputType {
	inputs := make([]*gqlclient.InputType, 0, len(r.inputs))
	for _, t := range r.inputs {
		in := &gqlclient.InputType{Name: t.Name}
		for _, f := range t.Fields {
			in.Fields = append(in.Fields, gqlclient.InputField{Name: f.Name, Type: clientRef(f.Type)})
		}
		inputs = append(inputs, in)
	}
	return inputs
}
