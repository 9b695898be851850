package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/barisgit/gqlflux/internal/generator"
	"github.com/barisgit/gqlflux/pkg/gqlclient"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func quietOptions(path string) ConfigLoadOptions {
	options := DefaultLoadOptions()
	options.Path = path
	options.Quiet = true
	return options
}

func TestValidationError(t *testing.T) {
	err := ValidationError{
		Field:   "test_field",
		Value:   "test_value",
		Message: "test message",
	}

	expectedError := "config validation error in field 'test_field': test message (value: test_value)"
	if err.Error() != expectedError {
		t.Errorf("Expected error message '%s', got '%s'", expectedError, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	emptyErrs := ValidationErrors{}
	if emptyErrs.Error() != "no validation errors" {
		t.Errorf("Expected 'no validation errors', got '%s'", emptyErrs.Error())
	}
	if emptyErrs.HasErrors() {
		t.Error("Expected HasErrors() to be false for empty errors")
	}

	errs := ValidationErrors{
		ValidationError{Field: "field1", Value: "value1", Message: "message1"},
		ValidationError{Field: "field2", Value: "value2", Message: "message2"},
	}

	if !errs.HasErrors() {
		t.Error("Expected HasErrors() to be true for non-empty errors")
	}

	errorMsg := errs.Error()
	if !strings.Contains(errorMsg, "field1") || !strings.Contains(errorMsg, "field2") {
		t.Errorf("Expected error message to contain both fields, got '%s'", errorMsg)
	}
}

func TestDefaultLoadOptions(t *testing.T) {
	options := DefaultLoadOptions()

	if options.Path != "gqlflux.yaml" {
		t.Errorf("Expected default path 'gqlflux.yaml', got '%s'", options.Path)
	}
	if options.AllowMissing {
		t.Error("Expected AllowMissing to be false by default")
	}
	if !options.ValidateStructure || !options.ApplyDefaults || !options.LoadEnv {
		t.Error("Expected validation, defaults and env loading to be enabled by default")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gqlflux.yaml")

	if _, err := NewConfigManager(quietOptions(path)).LoadConfig(); err == nil {
		t.Error("Expected error for missing file when AllowMissing is false")
	}

	options := quietOptions(path)
	options.AllowMissing = true
	config, err := NewConfigManager(options).LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error when AllowMissing is true, got %v", err)
	}
	if config.Schema != "schema.graphql" || config.Target != "typescript" || config.Output.Path != "src/gql" {
		t.Errorf("Unexpected defaults: %+v", config)
	}
	if config.Output.Filenames.Hooks != "hooks.ts" {
		t.Errorf("Expected default hooks file name, got '%s'", config.Output.Filenames.Hooks)
	}
}

func TestLoadConfigValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gqlflux.yaml", `
schema: api/schema.graphqls
target: go
output:
  path: internal/api
  filenames:
    resources: client.go
required_check: presence
scalars:
  DateTime: time.Time
go:
  package: api
post_generate:
  - go vet ./internal/api
log:
  level: debug
`)

	config, err := NewConfigManager(quietOptions(path)).LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if config.Target != generator.TargetGo {
		t.Errorf("Expected target go, got '%s'", config.Target)
	}
	if config.Output.Filenames.Types != "types.go" {
		t.Errorf("Expected Go default types file, got '%s'", config.Output.Filenames.Types)
	}
	if config.Output.Filenames.Resources != "client.go" {
		t.Errorf("Expected configured resources file, got '%s'", config.Output.Filenames.Resources)
	}
	if config.SchemaLocation() != filepath.Join(dir, "api", "schema.graphqls") {
		t.Errorf("Expected schema resolved against config dir, got '%s'", config.SchemaLocation())
	}
	if config.OutputDir() != filepath.Join(dir, "internal", "api") {
		t.Errorf("Expected output resolved against config dir, got '%s'", config.OutputDir())
	}

	opts, err := config.GeneratorOptions()
	if err != nil {
		t.Fatalf("GeneratorOptions failed: %v", err)
	}
	if opts.RequiredCheck != gqlclient.Presence {
		t.Errorf("Expected presence policy, got %v", opts.RequiredCheck)
	}
	if opts.GoPackage != "api" || opts.Scalars["DateTime"] != "time.Time" {
		t.Errorf("Unexpected generator options: %+v", opts)
	}
	if opts.RuntimeImport == "" {
		t.Error("Expected runtime import to fall back to the default")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gqlflux.yaml", "schema: [unterminated\n")

	_, err := NewConfigManager(quietOptions(path)).LoadConfig()
	if err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestValidateConfigCollectsAllErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gqlflux.yaml", `
schema: schema.graphql
target: swift
required_check: sometimes
output:
  path: out
  filenames:
    types: ../escape.ts
log:
  level: loud
post_generate:
  - "  "
`)

	_, err := NewConfigManager(quietOptions(path)).LoadConfig()
	if err == nil {
		t.Fatal("Expected validation error")
	}

	for _, field := range []string{"target", "required_check", "output.filenames.types", "log.level", "post_generate[0]"} {
		if !strings.Contains(err.Error(), "'"+field+"'") {
			t.Errorf("Expected error for field %s, got: %v", field, err)
		}
	}
}

func TestValidateGoPackage(t *testing.T) {
	cm := NewConfigManager(DefaultLoadOptions())
	config := DefaultConfig()
	config.Target = generator.TargetGo
	config.Go.Package = "my-api"

	errs := cm.validateConfig(config)
	if len(errs) != 1 || errs[0].Field != "go.package" {
		t.Errorf("Expected a single go.package error, got %v", errs)
	}
}

func TestEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "GQLFLUX_TEST_HOST=api.example.com\nGQLFLUX_TEST_TOKEN=secret\n")
	path := writeFile(t, dir, "gqlflux.yaml", `
schema: https://${GQLFLUX_TEST_HOST}/graphql
headers:
  Authorization: Bearer ${GQLFLUX_TEST_TOKEN}
`)
	t.Cleanup(func() {
		os.Unsetenv("GQLFLUX_TEST_HOST")
		os.Unsetenv("GQLFLUX_TEST_TOKEN")
	})

	config, err := NewConfigManager(quietOptions(path)).LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if config.Schema != "https://api.example.com/graphql" {
		t.Errorf("Expected expanded schema, got '%s'", config.Schema)
	}
	if config.SchemaLocation() != config.Schema {
		t.Errorf("Expected remote schema to stay unresolved, got '%s'", config.SchemaLocation())
	}
	if config.Headers["Authorization"] != "Bearer secret" {
		t.Errorf("Expected expanded header, got '%s'", config.Headers["Authorization"])
	}
}

func TestEnvExpansionUnsetVariable(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gqlflux.yaml", "schema: ${GQLFLUX_TEST_UNSET_VARIABLE}/schema.graphql\n")

	_, err := NewConfigManager(quietOptions(path)).LoadConfig()
	if err == nil || !strings.Contains(err.Error(), "GQLFLUX_TEST_UNSET_VARIABLE is not set") {
		t.Errorf("Expected unset variable error, got %v", err)
	}
}

func TestExplicitEnvFileMustExist(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gqlflux.yaml", "env_file: missing.env\n")

	_, err := NewConfigManager(quietOptions(path)).LoadConfig()
	if err == nil || !strings.Contains(err.Error(), "'env_file'") {
		t.Errorf("Expected env_file error, got %v", err)
	}
}

func TestLegacyConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, LegacyConfigFile, `{
  "schema": "schema.json",
  "output": {"path": "output/gpl", "filenames": {"types": "gpl.d.ts", "main": "gpl.ts"}},
  "language": "typescript"
}`)

	config, err := NewConfigManager(quietOptions(filepath.Join(dir, DefaultConfigFile))).LoadConfig()
	if err != nil {
		t.Fatalf("Expected legacy config to load, got %v", err)
	}

	if config.Target != "typescript" || config.Language != "" {
		t.Errorf("Expected language migrated to target, got target '%s' language '%s'", config.Target, config.Language)
	}
	if config.Output.Filenames.Types != "gpl.d.ts" || config.Output.Filenames.Resources != "gpl.ts" {
		t.Errorf("Unexpected legacy file names: %+v", config.Output.Filenames)
	}
	if config.Path() != filepath.Join(dir, LegacyConfigFile) {
		t.Errorf("Expected path of legacy file, got '%s'", config.Path())
	}
}

func TestLegacyConfigEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, LegacyConfigFile, "  \n")

	if _, err := NewConfigManager(quietOptions(filepath.Join(dir, DefaultConfigFile))).LoadConfig(); err == nil {
		t.Error("Expected error for empty legacy config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)

	config := DefaultConfig()
	config.Schema = "remote.json"
	config.PostGenerate = []string{"npx prettier --write src/gql"}
	if err := Save(config, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := NewConfigManager(quietOptions(path)).LoadConfig()
	if err != nil {
		t.Fatalf("Expected saved config to load, got %v", err)
	}
	if loaded.Schema != "remote.json" || len(loaded.PostGenerate) != 1 {
		t.Errorf("Unexpected loaded config: %+v", loaded)
	}
}

func TestGetConfigInfo(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gqlflux.yaml", "schema: schema.graphql\ntypescript:\n  hooks: false\n")

	info, err := GetConfigInfo(path)
	if err != nil {
		t.Fatalf("GetConfigInfo failed: %v", err)
	}
	if info.Hooks {
		t.Error("Expected hooks to be disabled")
	}

	summary := info.String()
	for _, want := range []string{"Schema: schema.graphql", "Target: typescript", "Hooks: false", "Manifest: true"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Expected summary to contain %q, got:\n%s", want, summary)
		}
	}
}

func TestOverrideAppliesBeforeDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)

	config, err := LoadConfigWithDefaults(path, true, func(c *Config) {
		c.Target = generator.TargetGo
		c.Schema = "other.graphql"
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if config.Output.Filenames.Types != "types.go" || config.Output.Filenames.Resources != "operations.go" {
		t.Errorf("Expected Go file names after override, got %+v", config.Output.Filenames)
	}
	if config.Schema != "other.graphql" {
		t.Errorf("Expected overridden schema, got '%s'", config.Schema)
	}
}
