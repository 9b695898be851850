package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barisgit/gqlflux/cmd"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "gqlflux",
		Short:   "gqlflux - typed GraphQL clients from your schema",
		Long:    `gqlflux reads a GraphQL schema and generates types, query templates, request functions and React Query hooks.`,
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("🚀 gqlflux v" + version)
			fmt.Println("Run 'gqlflux --help' for available commands")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cmd.GenerateCmd())
	rootCmd.AddCommand(cmd.WatchCmd())
	rootCmd.AddCommand(cmd.IntrospectCmd())
	rootCmd.AddCommand(cmd.ConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
