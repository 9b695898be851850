package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/barisgit/gqlflux/config"
	"github.com/barisgit/gqlflux/internal/logging"
)

// commonFlags are shared by generate and watch.
type commonFlags struct {
	configPath string
	schema     string
	out        string
	target     string
	headers    []string
	debug      bool
	quiet      bool
}

func addCommonFlags(cmd *cobra.Command, f *commonFlags) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", config.DefaultConfigFile, "Path to the configuration file")
	cmd.Flags().StringVarP(&f.schema, "schema", "s", "", "Schema file or endpoint (overrides config)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Output directory (overrides config)")
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "Target: typescript, apollo or go (overrides config)")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, "Extra request header for remote schemas, as 'Name: value'")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&f.quiet, "quiet", false, "Suppress output (for use in build scripts)")
}

// override applies the flags on top of the configuration file.
func (f *commonFlags) override(headers map[string]string) func(*config.Config) {
	return func(c *config.Config) {
		if f.schema != "" {
			c.Schema = f.schema
		}
		if f.out != "" {
			c.Output.Path = f.out
		}
		if f.target != "" && f.target != c.Target {
			c.Target = f.target
			c.Output.Filenames = config.FilenamesConfig{}
		}
		if len(headers) > 0 && c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		for name, value := range headers {
			c.Headers[name] = value
		}
	}
}

func (f *commonFlags) loadConfig() (*config.Config, error) {
	headers, err := parseHeaders(f.headers)
	if err != nil {
		return nil, err
	}
	return config.LoadConfigWithDefaults(f.configPath, f.quiet, f.override(headers))
}

// parseHeaders parses 'Name: value' pairs.
func parseHeaders(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Name: value'", v)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

// newLogger builds the command logger. Quiet runs only log warnings and
// errors.
func newLogger(cfg *config.Config, debug, quiet bool) (*logrus.Logger, func(), error) {
	opts := logging.Options{Debug: debug, Output: os.Stderr}
	if cfg != nil {
		opts.Level = cfg.Log.Level
		opts.File = cfg.Log.File
	}
	if quiet && !debug {
		opts.Level = "warn"
	}

	log, closer, err := logging.New(opts)
	if err != nil {
		return nil, nil, err
	}
	return log, func() { closer.Close() }, nil
}
