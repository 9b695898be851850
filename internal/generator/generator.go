// Package generator turns a schema into client code. Every target writes its
// files into a Result first so a run either produces all files or none.
package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/barisgit/gqlflux/internal/schema"
	"github.com/barisgit/gqlflux/pkg/gqlclient"
)

const (
	TargetTypeScript = "typescript"
	TargetApollo     = "apollo"
	TargetGo         = "go"

	generatedHeader = "Code generated by gqlflux. DO NOT EDIT."

	defaultRequestImport    = "./client"
	defaultReactQueryImport = "@tanstack/react-query"
	defaultApolloImport     = "@apollo/client"
	defaultGoPackage        = "graphql"
	defaultRuntimeImport    = "github.com/barisgit/gqlflux/pkg/gqlclient"
)

// ErrUnknownType is returned when a field or argument references a type the
// schema does not define.
var ErrUnknownType = errors.New("unknown type")

// Filenames names the generated files. Empty names fall back to the target's
// defaults.
type Filenames struct {
	Types     string `yaml:"types" json:"types"`
	Queries   string `yaml:"queries" json:"queries"`
	Resources string `yaml:"resources" json:"resources"`
	Hooks     string `yaml:"hooks" json:"hooks"`
	Runtime   string `yaml:"runtime" json:"runtime"`
	Index     string `yaml:"index" json:"index"`
	Manifest  string `yaml:"manifest" json:"manifest"`
}

// DefaultFilenames returns the file names used by target.
func DefaultFilenames(target string) Filenames {
	switch target {
	case TargetGo:
		return Filenames{
			Types:     "types.go",
			Resources: "operations.go",
			Manifest:  "manifest.json",
		}
	case TargetApollo:
		return Filenames{
			Types:    "types.ts",
			Queries:  "documents.ts",
			Index:    "index.ts",
			Manifest: "manifest.json",
		}
	default:
		return Filenames{
			Types:     "types.ts",
			Queries:   "queries.ts",
			Resources: "resources.ts",
			Hooks:     "hooks.ts",
			Runtime:   "runtime.ts",
			Index:     "index.ts",
			Manifest:  "manifest.json",
		}
	}
}

// Options controls a generation run.
type Options struct {
	Target    string
	Filenames Filenames

	// RequiredCheck decides which argument values count as missing.
	RequiredCheck gqlclient.RequiredPolicy

	// Scalars maps custom scalar names to a type in the target language.
	// Unmapped custom scalars become any.
	Scalars map[string]string

	// RequestImport is the module exporting graphqlRequest(document).
	RequestImport    string
	ReactQueryImport string
	// Hooks toggles hooks.ts for the typescript target.
	Hooks bool

	GoPackage string
	// RuntimeImport is the import path of the gqlclient package used by
	// generated Go code.
	RuntimeImport string

	Manifest bool
}

// DefaultOptions returns options for the typescript target with hooks and
// the manifest enabled.
func DefaultOptions() Options {
	return Options{
		Target:           TargetTypeScript,
		RequiredCheck:    gqlclient.Truthy,
		RequestImport:    defaultRequestImport,
		ReactQueryImport: defaultReactQueryImport,
		Hooks:            true,
		GoPackage:        defaultGoPackage,
		RuntimeImport:    defaultRuntimeImport,
		Manifest:         true,
	}
}

func (o Options) withDefaults() Options {
	if o.Target == "" {
		o.Target = TargetTypeScript
	}

	defaults := DefaultFilenames(o.Target)
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&o.Filenames.Types, defaults.Types)
	fill(&o.Filenames.Queries, defaults.Queries)
	fill(&o.Filenames.Resources, defaults.Resources)
	fill(&o.Filenames.Hooks, defaults.Hooks)
	fill(&o.Filenames.Runtime, defaults.Runtime)
	fill(&o.Filenames.Index, defaults.Index)
	fill(&o.Filenames.Manifest, defaults.Manifest)

	fill(&o.RequestImport, defaultRequestImport)
	fill(&o.ReactQueryImport, defaultReactQueryImport)
	fill(&o.GoPackage, defaultGoPackage)
	fill(&o.RuntimeImport, defaultRuntimeImport)
	return o
}

// SupportedTargets lists the targets Generate accepts.
func SupportedTargets() []string {
	return []string{TargetTypeScript, TargetApollo, TargetGo}
}

// ValidateTarget checks that target is supported.
func ValidateTarget(target string) error {
	for _, t := range SupportedTargets() {
		if t == target {
			return nil
		}
	}
	return fmt.Errorf("unsupported target '%s', supported targets: %v", target, SupportedTargets())
}

// File is a generated file relative to the output directory.
type File struct {
	Name    string
	Content []byte
}

// Result holds the files of one run in emission order.
type Result struct {
	Files []File
}

func (r *Result) add(name string, content string) {
	r.Files = append(r.Files, File{Name: name, Content: []byte(content)})
}

// File returns the generated file called name.
func (r *Result) File(name string) (File, bool) {
	for _, f := range r.Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}

// Write writes every file under dir and returns the paths written.
func (r *Result) Write(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		path := filepath.Join(dir, f.Name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return paths, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Generate emits the files of opts.Target for s.
func Generate(s *schema.Schema, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := ValidateTarget(opts.Target); err != nil {
		return nil, err
	}

	ops, err := buildOperations(s)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	switch opts.Target {
	case TargetApollo:
		err = generateApollo(result, s, ops, opts)
	case TargetGo:
		err = generateGo(result, s, ops, opts)
	default:
		err = generateTypeScript(result, s, ops, opts)
	}
	if err != nil {
		return nil, err
	}

	if opts.Manifest {
		content, err := generateManifest(s, ops, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate manifest: %w", err)
		}
		result.add(opts.Filenames.Manifest, content)
	}

	return result, nil
}

// header renders the generated-code banner with the given comment prefix.
func header(prefix string, s *schema.Schema) string {
	var b strings.Builder
	b.WriteString(prefix + " " + generatedHeader + "\n")
	if s.Source != "" {
		b.WriteString(prefix + " Source: " + s.Source + "\n")
	}
	return b.String()
}
