package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/barisgit/gqlflux/internal/schema"
)

func IntrospectCmd() *cobra.Command {
	var (
		output  string
		headers []string
		debug   bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "introspect <url>",
		Short: "Download a schema from a live GraphQL endpoint",
		Long:  "Run the introspection query against a GraphQL endpoint and save the result as JSON, ready to be used as the schema in gqlflux.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := newLogger(nil, debug, quiet)
			if err != nil {
				return err
			}
			defer closeLog()

			parsed, err := parseHeaders(headers)
			if err != nil {
				return err
			}

			url := args[0]
			log.WithField("url", url).Info("🔍 Introspecting endpoint...")

			data, err := schema.FetchIntrospection(cmd.Context(), url, parsed)
			if err != nil {
				return err
			}

			s, err := schema.ParseIntrospection(data)
			if err != nil {
				return fmt.Errorf("endpoint returned an unusable schema: %w", err)
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, data, "", "  "); err != nil {
				return fmt.Errorf("failed to format introspection result: %w", err)
			}
			pretty.WriteString("\n")

			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
			}
			if err := os.WriteFile(output, pretty.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			log.WithFields(logrus.Fields{
				"file":       output,
				"types":      len(s.Types),
				"operations": len(s.Operations),
			}).Info("✅ Schema saved")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "schema.json", "File to write the introspection result to")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Request header, as 'Name: value'")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress output")

	return cmd
}
