package generator

import (
	"encoding/json"
	"fmt"

	"github.com/barisgit/gqlflux/internal/schema"
)

// Manifest describes a generation run for tooling that consumes the output.
type Manifest struct {
	Generator     string              `json:"generator"`
	Target        string              `json:"target"`
	Source        string              `json:"source,omitempty"`
	RequiredCheck string              `json:"requiredCheck"`
	Files         []string            `json:"files"`
	Types         []ManifestType      `json:"types"`
	Operations    []ManifestOperation `json:"operations"`
}

type ManifestType struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type ManifestOperation struct {
	Kind       string             `json:"kind"`
	Name       string             `json:"name"`
	Field      string             `json:"field"`
	ReturnType string             `json:"returnType"`
	Leaf       bool               `json:"leaf,omitempty"`
	Arguments  []ManifestArgument `json:"arguments,omitempty"`
}

type ManifestArgument struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Required     bool    `json:"required"`
	DefaultValue *string `json:"defaultValue,omitempty"`
}

// generateManifest lists every type and operation in schema order.
func generateManifest(s *schema.Schema, ops []*operation, opts Options) (string, error) {
	m := Manifest{
		Generator:     "gqlflux",
		Target:        opts.Target,
		Source:        s.Source,
		RequiredCheck: opts.RequiredCheck.String(),
		Files:         manifestFiles(opts),
		Types:         make([]ManifestType, 0, len(s.Types)),
		Operations:    make([]ManifestOperation, 0, len(ops)),
	}

	for _, t := range s.Types {
		m.Types = append(m.Types, ManifestType{Name: t.Name, Kind: string(t.Kind)})
	}

	for _, op := range ops {
		mo := ManifestOperation{
			Kind:       string(op.Kind),
			Name:       op.Name(),
			Field:      op.Field.Name,
			ReturnType: op.Field.Type.String(),
			Leaf:       op.Leaf,
		}
		for _, a := range op.Args() {
			mo.Arguments = append(mo.Arguments, ManifestArgument{
				Name:         a.Name,
				Type:         a.Type.String(),
				Required:     a.Required(),
				DefaultValue: a.DefaultValue,
			})
		}
		m.Operations = append(m.Operations, mo)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return string(data) + "\n", nil
}

// manifestFiles lists the files the target writes, excluding the manifest.
func manifestFiles(opts Options) []string {
	f := opts.Filenames
	switch opts.Target {
	case TargetGo:
		return []string{f.Types, f.Resources}
	case TargetApollo:
		return []string{f.Types, f.Queries, f.Index}
	}

	files := []string{f.Types, f.Queries, f.Resources}
	if opts.Hooks {
		files = append(files, f.Hooks)
	}
	return append(files, f.Runtime, f.Index)
}
