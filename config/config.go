package config

import (
	"encoding/json"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/barisgit/gqlflux/internal/generator"
	"github.com/barisgit/gqlflux/pkg/gqlclient"
)

const (
	// DefaultConfigFile is the file gqlflux looks for in the working directory.
	DefaultConfigFile = "gqlflux.yaml"
	// LegacyConfigFile is read when no YAML configuration exists.
	LegacyConfigFile = "graphql-generator.conf.json"

	defaultSchema     = "schema.graphql"
	defaultOutputPath = "src/gql"
	defaultEnvFile    = ".env"
	defaultLogLevel   = "info"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error in field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

func (errs ValidationErrors) HasErrors() bool {
	return len(errs) > 0
}

// ConfigLoadOptions provides options for loading configuration
type ConfigLoadOptions struct {
	Path              string
	AllowMissing      bool
	ValidateStructure bool
	ApplyDefaults     bool
	WarnOnDeprecated  bool
	// LoadEnv reads env_file and expands ${VAR} references.
	LoadEnv bool
	Quiet   bool
	// Override is applied to the parsed file before defaults, e.g. for
	// command line flags.
	Override func(*Config)
}

// DefaultLoadOptions returns sensible defaults for config loading
func DefaultLoadOptions() ConfigLoadOptions {
	return ConfigLoadOptions{
		Path:              DefaultConfigFile,
		AllowMissing:      false,
		ValidateStructure: true,
		ApplyDefaults:     true,
		WarnOnDeprecated:  true,
		LoadEnv:           true,
		Quiet:             false,
	}
}

// ConfigManager handles configuration loading, validation, and management
type ConfigManager struct {
	options ConfigLoadOptions
}

// NewConfigManager creates a new configuration manager
func NewConfigManager(options ConfigLoadOptions) *ConfigManager {
	return &ConfigManager{
		options: options,
	}
}

// LoadConfig loads and validates the configuration at the configured path
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	return cm.LoadConfigFromPath(cm.options.Path)
}

// LoadConfigFromPath loads configuration from a specific path. When the file
// does not exist, a legacy graphql-generator.conf.json next to it is used
// instead.
func (cm *ConfigManager) LoadConfigFromPath(path string) (*Config, error) {
	var (
		config *Config
		err    error
	)

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		legacy := filepath.Join(filepath.Dir(path), LegacyConfigFile)
		if _, legacyErr := os.Stat(legacy); legacyErr == nil {
			if !cm.options.Quiet {
				fmt.Printf("⚠️  Using legacy configuration %s\n", legacy)
				fmt.Printf("   Run 'gqlflux config init' to create %s\n", DefaultConfigFile)
			}
			config, err = loadLegacy(legacy)
			if err != nil {
				return nil, err
			}
			path = legacy
		} else if cm.options.AllowMissing {
			if !cm.options.Quiet {
				fmt.Printf("⚠️  Configuration file not found at %s, using defaults\n", path)
			}
			config = DefaultConfig()
		} else {
			return nil, fmt.Errorf("configuration file not found: %s\n\nRun 'gqlflux config init' to create one", path)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
		}

		config = &Config{}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %s: %w\n\nPlease check your YAML syntax", path, err)
		}
		config.path = path
	}

	if cm.options.WarnOnDeprecated && !cm.options.Quiet {
		cm.checkDeprecatedFields(config)
	}
	migrateDeprecatedFields(config)

	if cm.options.Override != nil {
		cm.options.Override(config)
	}

	if cm.options.ApplyDefaults {
		cm.applyDefaults(config)
	}

	if cm.options.LoadEnv {
		if errs := cm.loadEnv(config, filepath.Dir(path)); errs.HasErrors() {
			return nil, fmt.Errorf("configuration validation failed:\n%s", cm.formatValidationErrors(errs))
		}
	}

	if cm.options.ValidateStructure {
		if errs := cm.validateConfig(config); errs.HasErrors() {
			return nil, fmt.Errorf("configuration validation failed:\n%s", cm.formatValidationErrors(errs))
		}
	}

	return config, nil
}

var envReference = regexp.MustCompile(`\$\{(\w+)\}`)

// loadEnv reads the env file, then expands ${VAR} references in the schema
// location and the header values. Variables already set in the environment
// win over the file.
func (cm *ConfigManager) loadEnv(config *Config, dir string) ValidationErrors {
	var errors ValidationErrors

	envFile := config.EnvFile
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}
	if !filepath.IsAbs(envFile) {
		envFile = filepath.Join(dir, envFile)
	}

	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			errors = append(errors, ValidationError{
				Field:   "env_file",
				Value:   envFile,
				Message: fmt.Sprintf("failed to load env file: %v", err),
			})
		}
	} else if explicit {
		errors = append(errors, ValidationError{
			Field:   "env_file",
			Value:   envFile,
			Message: "env file does not exist",
		})
	}

	expand := func(field, value string) string {
		return envReference.ReplaceAllStringFunc(value, func(ref string) string {
			name := envReference.FindStringSubmatch(ref)[1]
			v, ok := os.LookupEnv(name)
			if !ok {
				errors = append(errors, ValidationError{
					Field:   field,
					Value:   ref,
					Message: fmt.Sprintf("environment variable %s is not set", name),
				})
			}
			return v
		})
	}

	config.Schema = expand("schema", config.Schema)
	for _, name := range sortedKeys(config.Headers) {
		config.Headers[name] = expand("headers."+name, config.Headers[name])
	}

	return errors
}

// validateConfig performs comprehensive validation on the configuration
func (cm *ConfigManager) validateConfig(config *Config) ValidationErrors {
	var errors ValidationErrors

	if config.Schema == "" {
		errors = append(errors, ValidationError{
			Field:   "schema",
			Value:   config.Schema,
			Message: "schema location cannot be empty",
		})
	}

	if err := generator.ValidateTarget(config.Target); err != nil {
		errors = append(errors, ValidationError{
			Field:   "target",
			Value:   config.Target,
			Message: err.Error(),
		})
	}

	if config.Output.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "output.path",
			Value:   config.Output.Path,
			Message: "output path cannot be empty",
		})
	}

	filenames := map[string]string{
		"types":     config.Output.Filenames.Types,
		"queries":   config.Output.Filenames.Queries,
		"resources": config.Output.Filenames.Resources,
		"hooks":     config.Output.Filenames.Hooks,
		"runtime":   config.Output.Filenames.Runtime,
		"index":     config.Output.Filenames.Index,
		"manifest":  config.Output.Filenames.Manifest,
	}
	for _, key := range sortedKeys(filenames) {
		name := filenames[key]
		if name == "" {
			continue
		}
		if filepath.IsAbs(name) || strings.HasPrefix(filepath.Clean(name), "..") {
			errors = append(errors, ValidationError{
				Field:   "output.filenames." + key,
				Value:   name,
				Message: "file name must be relative to output.path",
			})
		}
	}

	if _, err := gqlclient.ParseRequiredPolicy(config.RequiredCheck); err != nil {
		errors = append(errors, ValidationError{
			Field:   "required_check",
			Value:   config.RequiredCheck,
			Message: "unsupported required check, valid options are: truthy, presence",
		})
	}

	if config.Target == generator.TargetGo && config.Go.Package != "" && !token.IsIdentifier(config.Go.Package) {
		errors = append(errors, ValidationError{
			Field:   "go.package",
			Value:   config.Go.Package,
			Message: "go package must be a valid identifier",
		})
	}

	for _, name := range sortedKeys(config.Scalars) {
		if strings.TrimSpace(config.Scalars[name]) == "" {
			errors = append(errors, ValidationError{
				Field:   "scalars." + name,
				Value:   config.Scalars[name],
				Message: "scalar mapping cannot be empty",
			})
		}
	}

	for i, command := range config.PostGenerate {
		if strings.TrimSpace(command) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("post_generate[%d]", i),
				Value:   command,
				Message: "command cannot be empty",
			})
		}
	}

	if config.Log.Level != "" {
		if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
			errors = append(errors, ValidationError{
				Field:   "log.level",
				Value:   config.Log.Level,
				Message: "unsupported log level, valid options are: trace, debug, info, warn, error",
			})
		}
	}

	return errors
}

// applyDefaults sets default values for missing configuration fields
func (cm *ConfigManager) applyDefaults(config *Config) {
	if config.Schema == "" {
		config.Schema = defaultSchema
	}
	if config.Target == "" {
		config.Target = generator.TargetTypeScript
	}
	if config.Output.Path == "" {
		config.Output.Path = defaultOutputPath
	}
	if config.RequiredCheck == "" {
		config.RequiredCheck = gqlclient.Truthy.String()
	}
	if config.Log.Level == "" {
		config.Log.Level = defaultLogLevel
	}
	if config.Manifest == nil {
		config.Manifest = boolPtr(true)
	}
	if config.TypeScript.Hooks == nil {
		config.TypeScript.Hooks = boolPtr(true)
	}

	defaults := generator.DefaultFilenames(config.Target)
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&config.Output.Filenames.Types, defaults.Types)
	fill(&config.Output.Filenames.Queries, defaults.Queries)
	fill(&config.Output.Filenames.Resources, defaults.Resources)
	fill(&config.Output.Filenames.Hooks, defaults.Hooks)
	fill(&config.Output.Filenames.Runtime, defaults.Runtime)
	fill(&config.Output.Filenames.Index, defaults.Index)
	fill(&config.Output.Filenames.Manifest, defaults.Manifest)
}

// checkDeprecatedFields warns about deprecated configuration fields
func (cm *ConfigManager) checkDeprecatedFields(config *Config) {
	if config.Language != "" {
		fmt.Printf("⚠️  Deprecated field 'language' is replaced by 'target'\n")
		fmt.Printf("   Consider renaming it in your %s\n", DefaultConfigFile)
	}
	if config.Output.Filenames.Main != "" {
		fmt.Printf("⚠️  Deprecated field 'output.filenames.main' is replaced by 'output.filenames.resources'\n")
	}
}

// migrateDeprecatedFields moves values of deprecated keys to their
// replacements unless the replacement is set.
func migrateDeprecatedFields(config *Config) {
	if config.Language != "" && config.Target == "" {
		config.Target = config.Language
	}
	if config.Output.Filenames.Main != "" && config.Output.Filenames.Resources == "" {
		config.Output.Filenames.Resources = config.Output.Filenames.Main
	}
	config.Language = ""
	config.Output.Filenames.Main = ""
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Schema:        defaultSchema,
		Target:        generator.TargetTypeScript,
		Output:        OutputConfig{Path: defaultOutputPath},
		RequiredCheck: gqlclient.Truthy.String(),
		TypeScript:    TypeScriptConfig{Hooks: boolPtr(true)},
		Manifest:      boolPtr(true),
		Log:           LogConfig{Level: defaultLogLevel},
	}
}

// legacyConfig is the JSON layout of graphql-generator.conf.json.
type legacyConfig struct {
	Schema string `json:"schema"`
	Output struct {
		Path      string `json:"path"`
		Filenames struct {
			Types string `json:"types"`
			Main  string `json:"main"`
		} `json:"filenames"`
	} `json:"output"`
	Language string `json:"language"`
}

func loadLegacy(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("configuration file %s is empty", path)
	}

	var legacy legacyConfig
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
	}

	config := &Config{
		Schema:   legacy.Schema,
		Language: legacy.Language,
		path:     path,
	}
	config.Output.Path = legacy.Output.Path
	config.Output.Filenames.Types = legacy.Output.Filenames.Types
	config.Output.Filenames.Main = legacy.Output.Filenames.Main
	return config, nil
}

// formatValidationErrors formats validation errors in a user-friendly way
func (cm *ConfigManager) formatValidationErrors(errors ValidationErrors) string {
	var lines []string
	for i, err := range errors {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}
	return strings.Join(lines, "\n")
}

// ValidateConfigFile validates a configuration file without applying it
func ValidateConfigFile(path string) error {
	cm := NewConfigManager(ConfigLoadOptions{
		Path:              path,
		AllowMissing:      false,
		ValidateStructure: true,
		ApplyDefaults:     true,
		WarnOnDeprecated:  true,
		LoadEnv:           true,
		Quiet:             false,
	})

	_, err := cm.LoadConfigFromPath(path)
	return err
}

// GetConfigInfo returns information about the configuration at path
func GetConfigInfo(path string) (*ConfigInfo, error) {
	options := DefaultLoadOptions()
	options.Quiet = true
	cm := NewConfigManager(options)
	config, err := cm.LoadConfigFromPath(path)
	if err != nil {
		return nil, err
	}

	absPath, _ := filepath.Abs(config.Path())

	return &ConfigInfo{
		Path:          absPath,
		Schema:        config.Schema,
		Target:        config.Target,
		OutputPath:    config.Output.Path,
		RequiredCheck: config.RequiredCheck,
		Hooks:         config.HooksEnabled(),
		Manifest:      config.ManifestEnabled(),
		PostGenerate:  len(config.PostGenerate),
	}, nil
}

// ConfigInfo contains summary information about a configuration
type ConfigInfo struct {
	Path          string
	Schema        string
	Target        string
	OutputPath    string
	RequiredCheck string
	Hooks         bool
	Manifest      bool
	PostGenerate  int
}

// String returns a formatted string representation of config info
func (info *ConfigInfo) String() string {
	var lines []string
	lines = append(lines, "📋 Configuration Summary")
	lines = append(lines, fmt.Sprintf("   Path: %s", info.Path))
	lines = append(lines, fmt.Sprintf("   Schema: %s", info.Schema))
	lines = append(lines, fmt.Sprintf("   Target: %s", info.Target))
	lines = append(lines, fmt.Sprintf("   Output: %s", info.OutputPath))
	lines = append(lines, fmt.Sprintf("   Required check: %s", info.RequiredCheck))
	if info.Target == generator.TargetTypeScript {
		lines = append(lines, fmt.Sprintf("   Hooks: %t", info.Hooks))
	}
	lines = append(lines, fmt.Sprintf("   Manifest: %t", info.Manifest))
	if info.PostGenerate > 0 {
		lines = append(lines, fmt.Sprintf("   Post-generate commands: %d", info.PostGenerate))
	}

	return strings.Join(lines, "\n")
}

// LoadConfig loads configuration using default options
func LoadConfig() (*Config, error) {
	cm := NewConfigManager(DefaultLoadOptions())
	return cm.LoadConfig()
}

// LoadConfigWithDefaults loads configuration, creating defaults if missing
func LoadConfigWithDefaults(path string, quiet bool, override func(*Config)) (*Config, error) {
	options := DefaultLoadOptions()
	options.Path = path
	options.AllowMissing = true
	options.Quiet = quiet
	options.Override = override

	cm := NewConfigManager(options)
	return cm.LoadConfig()
}

// Save writes config as YAML to path.
func Save(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file %s: %w", path, err)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func boolPtr(b bool) *bool {
	return &b
}

// Config is the content of gqlflux.yaml.
type Config struct {
	// Schema is a .graphql/.graphqls/.gql SDL file, an introspection .json
	// file or an http(s) endpoint.
	Schema  string            `yaml:"schema"`
	Headers map[string]string `yaml:"headers,omitempty"`
	EnvFile string            `yaml:"env_file,omitempty"`

	Target string       `yaml:"target"`
	Output OutputConfig `yaml:"output"`

	RequiredCheck string            `yaml:"required_check"`
	Scalars       map[string]string `yaml:"scalars,omitempty"`

	TypeScript TypeScriptConfig `yaml:"typescript,omitempty"`
	Go         GoConfig         `yaml:"go,omitempty"`

	Manifest     *bool     `yaml:"manifest,omitempty"`
	PostGenerate []string  `yaml:"post_generate,omitempty"`
	Log          LogConfig `yaml:"log,omitempty"`

	Language string `yaml:"language,omitempty"` // Deprecated: use target

	path string
}

type OutputConfig struct {
	Path      string          `yaml:"path"`
	Filenames FilenamesConfig `yaml:"filenames,omitempty"`
}

type FilenamesConfig struct {
	Types     string `yaml:"types,omitempty"`
	Queries   string `yaml:"queries,omitempty"`
	Resources string `yaml:"resources,omitempty"`
	Hooks     string `yaml:"hooks,omitempty"`
	Runtime   string `yaml:"runtime,omitempty"`
	Index     string `yaml:"index,omitempty"`
	Manifest  string `yaml:"manifest,omitempty"`

	Main string `yaml:"main,omitempty"` // Deprecated: use resources
}

type TypeScriptConfig struct {
	// RequestImport is the module that exports graphqlRequest(document).
	RequestImport    string `yaml:"request_import,omitempty"`
	ReactQueryImport string `yaml:"react_query_import,omitempty"`
	Hooks            *bool  `yaml:"hooks,omitempty"`
}

type GoConfig struct {
	Package string `yaml:"package,omitempty"`
	// ImportPath of the gqlclient runtime package.
	ImportPath string `yaml:"import_path,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// Path returns the file the configuration was read from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) HooksEnabled() bool {
	return c.TypeScript.Hooks == nil || *c.TypeScript.Hooks
}

func (c *Config) ManifestEnabled() bool {
	return c.Manifest == nil || *c.Manifest
}

// OutputDir returns output.path, resolved against the configuration file's
// directory when relative.
func (c *Config) OutputDir() string {
	return c.resolve(c.Output.Path)
}

// SchemaLocation returns the schema location, resolved like OutputDir for
// local files.
func (c *Config) SchemaLocation() string {
	if strings.HasPrefix(c.Schema, "http://") || strings.HasPrefix(c.Schema, "https://") {
		return c.Schema
	}
	return c.resolve(c.Schema)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.path), p)
}

// GeneratorOptions converts the configuration to generator options.
func (c *Config) GeneratorOptions() (generator.Options, error) {
	policy, err := gqlclient.ParseRequiredPolicy(c.RequiredCheck)
	if err != nil {
		return generator.Options{}, err
	}

	opts := generator.DefaultOptions()
	opts.Target = c.Target
	opts.RequiredCheck = policy
	opts.Scalars = c.Scalars
	opts.Hooks = c.HooksEnabled()
	opts.Manifest = c.ManifestEnabled()
	opts.RequestImport = c.TypeScript.RequestImport
	opts.ReactQueryImport = c.TypeScript.ReactQueryImport
	opts.GoPackage = c.Go.Package
	opts.RuntimeImport = c.Go.ImportPath
	opts.Filenames = generator.Filenames{
		Types:     c.Output.Filenames.Types,
		Queries:   c.Output.Filenames.Queries,
		Resources: c.Output.Filenames.Resources,
		Hooks:     c.Output.Filenames.Hooks,
		Runtime:   c.Output.Filenames.Runtime,
		Index:     c.Output.Filenames.Index,
		Manifest:  c.Output.Filenames.Manifest,
	}
	return opts, nil
}
