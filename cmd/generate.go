package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/barisgit/gqlflux/config"
	"github.com/barisgit/gqlflux/internal/generator"
	"github.com/barisgit/gqlflux/internal/runner"
	"github.com/barisgit/gqlflux/internal/schema"
)

func GenerateCmd() *cobra.Command {
	flags := &commonFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate client code from a GraphQL schema",
		Long:  "Load the schema named in gqlflux.yaml (or --schema) and write types, query templates, request functions and hooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			log, closeLog, err := newLogger(cfg, flags.debug, flags.quiet)
			if err != nil {
				return err
			}
			defer closeLog()

			_, err = generate(cmd.Context(), cfg, log)
			return err
		},
	}

	addCommonFlags(cmd, flags)
	return cmd
}

// generateResult summarizes one run.
type generateResult struct {
	Schema *schema.Schema
	Files  []string
}

// generate loads the schema, writes every generated file and runs the
// post_generate commands.
func generate(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*generateResult, error) {
	start := time.Now()
	location := cfg.SchemaLocation()
	log = log.WithFields(logrus.Fields{"schema": location, "target": cfg.Target})

	log.Info("🔧 Generating GraphQL client...")

	s, err := schema.Load(ctx, location, cfg.Headers)
	if err != nil {
		log.WithError(err).Error("❌ Failed to load schema")
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	log.WithFields(logrus.Fields{
		"types":     len(s.Types),
		"queries":   len(s.Queries()),
		"mutations": len(s.Mutations()),
	}).Debug("schema loaded")

	opts, err := cfg.GeneratorOptions()
	if err != nil {
		return nil, err
	}

	result, err := generator.Generate(s, opts)
	if err != nil {
		log.WithError(err).Error("❌ Failed to generate client")
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	paths, err := result.Write(cfg.OutputDir())
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		log.WithField("file", p).Debug("wrote file")
	}

	log.WithFields(logrus.Fields{
		"files":    len(paths),
		"output":   cfg.OutputDir(),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("✅ Client generated")

	if len(cfg.PostGenerate) > 0 {
		dir := "."
		if cfg.Path() != "" {
			dir = filepath.Dir(cfg.Path())
		}
		if err := runner.New(dir, log).Run(ctx, cfg.PostGenerate); err != nil {
			log.WithError(err).Error("❌ Post-generate command failed")
			return nil, err
		}
	}

	return &generateResult{Schema: s, Files: paths}, nil
}
