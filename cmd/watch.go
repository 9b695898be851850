package cmd

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/barisgit/gqlflux/config"
	"github.com/barisgit/gqlflux/internal/schema"
	"github.com/barisgit/gqlflux/internal/watch"
)

func WatchCmd() *cobra.Command {
	flags := &commonFlags{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the schema or configuration changes",
		Long:  "Generate once, then watch the local schema file and gqlflux.yaml and regenerate on every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, flags)
		},
	}

	addCommonFlags(cmd, flags)
	return cmd
}

// watchedFiles lists the configuration file and the schema, unless the
// schema is remote.
func watchedFiles(flags *commonFlags, cfg *config.Config) []string {
	files := []string{flags.configPath}
	if location := cfg.SchemaLocation(); !schema.IsRemote(location) {
		files = append(files, location)
	}
	return files
}

func runWatch(ctx context.Context, flags *commonFlags) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg, flags.debug, flags.quiet)
	if err != nil {
		return err
	}
	defer closeLog()

	if _, err := generate(ctx, cfg, log); err != nil {
		log.Warn("⚠️  Initial generation failed, waiting for changes...")
	}

	files := watchedFiles(flags, cfg)
	for {
		w, err := watch.New(files, watch.DefaultDebounce, log)
		if err != nil {
			return err
		}
		log.WithField("files", files).Info("👁️  Watching for changes (press Ctrl+C to stop)")

		runCtx, cancel := context.WithCancel(ctx)
		err = w.Run(runCtx, func(ctx context.Context, file string) {
			log.WithField("file", file).Info("📝 Change detected, regenerating...")

			next, err := flags.loadConfig()
			if err != nil {
				log.WithError(err).Error("❌ Failed to reload config")
				return
			}
			if _, err := generate(ctx, next, log); err != nil {
				return
			}

			if nextFiles := watchedFiles(flags, next); !slices.Equal(nextFiles, files) {
				files = nextFiles
				cancel()
			}
		})
		cancel()
		w.Close()

		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			log.Info("👋 Stopped watching")
			return nil
		}
	}
}
