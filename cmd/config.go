package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/barisgit/gqlflux/config"
	"github.com/barisgit/gqlflux/internal/generator"
	"github.com/barisgit/gqlflux/internal/schema"
)

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gqlflux configuration",
		Long:  "Validate, view, and create the gqlflux.yaml configuration file",
	}

	cmd.AddCommand(configValidateCmd())
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configUpgradeCmd())

	return cmd
}

func configValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate configuration file",
		Long:  "Validate the syntax and structure of a gqlflux configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigValidate,
	}

	cmd.Flags().Bool("strict", false, "Enable strict validation (fail on warnings)")

	return cmd
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [config-file]",
		Short: "Show configuration information",
		Long:  "Display the effective configuration with defaults applied",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigShow,
	}

	cmd.Flags().Bool("verbose", false, "Show the full effective configuration as YAML")

	return cmd
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [config-file]",
		Short: "Initialize a new configuration file",
		Long:  "Create a new gqlflux.yaml, asking for the schema location and target unless --yes is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	}

	cmd.Flags().Bool("force", false, "Overwrite existing configuration file")
	cmd.Flags().BoolP("yes", "y", false, "Accept the defaults without prompting")
	cmd.Flags().String("schema", "", "Schema file or endpoint")
	cmd.Flags().String("target", "", "Target: typescript, apollo or go")
	cmd.Flags().String("out", "", "Output directory")

	return cmd
}

func configUpgradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade [config-file]",
		Short: "Upgrade configuration to latest format",
		Long:  "Rewrite a configuration file, or a legacy graphql-generator.conf.json, as gqlflux.yaml with deprecated keys migrated",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigUpgrade,
	}

	cmd.Flags().Bool("backup", true, "Create backup of original file")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath(args)
	strict, _ := cmd.Flags().GetBool("strict")

	fmt.Printf("🔍 Validating configuration file: %s\n", configPath)

	cm := config.NewConfigManager(config.ConfigLoadOptions{
		Path:              configPath,
		AllowMissing:      false,
		ValidateStructure: true,
		ApplyDefaults:     true,
		WarnOnDeprecated:  true,
		LoadEnv:           true,
		Quiet:             false,
	})

	cfg, err := cm.LoadConfigFromPath(configPath)
	if err != nil {
		fmt.Printf("❌ Configuration validation failed:\n%v\n", err)
		return err
	}

	fmt.Printf("✅ Configuration is valid!\n")

	if info, err := config.GetConfigInfo(configPath); err == nil {
		fmt.Printf("\n%s\n", info.String())
	}

	issues := checkConfigIssues(cmd.Context(), cfg)
	if len(issues) > 0 {
		fmt.Printf("\n⚠️  Potential issues found:\n")
		for i, issue := range issues {
			fmt.Printf("  %d. %s\n", i+1, issue)
		}
		if strict {
			return fmt.Errorf("strict validation failed due to %d issue(s)", len(issues))
		}
	}

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath(args)
	verbose, _ := cmd.Flags().GetBool("verbose")

	info, err := config.GetConfigInfo(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Printf("%s\n", info.String())

	if verbose {
		fmt.Printf("\n📝 Effective Configuration:\n")

		options := config.DefaultLoadOptions()
		options.Quiet = true
		// Show ${VAR} references instead of secrets.
		options.LoadEnv = false
		cfg, err := config.NewConfigManager(options).LoadConfigFromPath(configPath)
		if err != nil {
			return fmt.Errorf("failed to load full configuration: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal configuration: %w", err)
		}

		fmt.Printf("```yaml\n%s```\n", string(data))
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath(args)
	force, _ := cmd.Flags().GetBool("force")
	yes, _ := cmd.Flags().GetBool("yes")

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", configPath)
		}
	}

	cfg := config.DefaultConfig()
	if v, _ := cmd.Flags().GetString("schema"); v != "" {
		cfg.Schema = v
	}
	if v, _ := cmd.Flags().GetString("target"); v != "" {
		cfg.Target = v
	}
	if v, _ := cmd.Flags().GetString("out"); v != "" {
		cfg.Output.Path = v
	}

	if !yes {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := generator.ValidateTarget(cfg.Target); err != nil {
		return err
	}
	if cfg.Target != generator.TargetTypeScript {
		cfg.TypeScript.Hooks = nil
	}

	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Printf("✅ Created configuration file: %s\n", configPath)
	fmt.Printf("   Schema: %s\n", cfg.Schema)
	fmt.Printf("   Target: %s\n", cfg.Target)
	fmt.Printf("   Output: %s\n", cfg.Output.Path)
	fmt.Printf("\n💡 Run 'gqlflux generate' to generate the client\n")

	return nil
}

// promptConfig asks for the main settings, using the values in cfg as
// defaults.
func promptConfig(cfg *config.Config) error {
	questions := []*survey.Question{
		{
			Name: "schema",
			Prompt: &survey.Input{
				Message: "Schema file or endpoint:",
				Default: cfg.Schema,
				Help:    "A .graphql/.graphqls/.gql SDL file, an introspection .json file or an http(s) URL",
			},
			Validate: survey.Required,
		},
		{
			Name: "target",
			Prompt: &survey.Select{
				Message: "Choose a target:",
				Options: generator.SupportedTargets(),
				Default: cfg.Target,
				Description: func(value string, index int) string {
					switch value {
					case generator.TargetTypeScript:
						return "request functions and React Query hooks"
					case generator.TargetApollo:
						return "gql documents for Apollo Client"
					case generator.TargetGo:
						return "typed Go request functions"
					}
					return ""
				},
			},
		},
		{
			Name: "output",
			Prompt: &survey.Input{
				Message: "Output directory:",
				Default: cfg.Output.Path,
			},
			Validate: survey.Required,
		},
		{
			Name: "required",
			Prompt: &survey.Select{
				Message: "When is a required argument missing?",
				Options: []string{"truthy", "presence"},
				Default: cfg.RequiredCheck,
				Description: func(value string, index int) string {
					if value == "presence" {
						return "only when absent or null"
					}
					return "when absent, null, false, 0 or empty"
				},
			},
		},
	}

	answers := struct {
		Schema   string `survey:"schema"`
		Target   string `survey:"target"`
		Output   string `survey:"output"`
		Required string `survey:"required"`
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}

	cfg.Schema = answers.Schema
	cfg.Target = answers.Target
	cfg.Output.Path = answers.Output
	cfg.RequiredCheck = answers.Required

	switch cfg.Target {
	case generator.TargetTypeScript:
		hooks := true
		if err := survey.AskOne(&survey.Confirm{Message: "Generate React Query hooks?", Default: true}, &hooks); err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
		cfg.TypeScript.Hooks = &hooks
	case generator.TargetGo:
		pkg := "graphql"
		if err := survey.AskOne(&survey.Input{Message: "Go package name:", Default: pkg}, &pkg, survey.WithValidator(survey.Required)); err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
		cfg.Go.Package = pkg
	}

	return nil
}

func runConfigUpgrade(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath(args)
	backup, _ := cmd.Flags().GetBool("backup")

	fmt.Printf("🔄 Upgrading configuration file: %s\n", configPath)

	cm := config.NewConfigManager(config.ConfigLoadOptions{
		Path:              configPath,
		AllowMissing:      false,
		ValidateStructure: false,
		ApplyDefaults:     false,
		WarnOnDeprecated:  true,
		LoadEnv:           false,
		Quiet:             false,
	})

	cfg, err := cm.LoadConfigFromPath(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if backup && cfg.Path() == configPath {
		backupPath := configPath + ".backup"
		if err := copyFile(configPath, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		fmt.Printf("📋 Created backup: %s\n", backupPath)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Printf("✅ Configuration upgraded successfully\n")

	fmt.Printf("🔍 Validating upgraded configuration...\n")
	if err := config.ValidateConfigFile(configPath); err != nil {
		fmt.Printf("⚠️  Warning: Upgraded configuration has validation issues:\n%v\n", err)
	} else {
		fmt.Printf("✅ Upgraded configuration is valid\n")
	}

	return nil
}

func getConfigPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.DefaultConfigFile
}

// checkConfigIssues reports settings that are valid but likely unintended.
func checkConfigIssues(ctx context.Context, cfg *config.Config) []string {
	var issues []string

	location := cfg.SchemaLocation()
	if schema.IsRemote(location) {
		issues = append(issues, "Schema is fetched from a live endpoint on every run - consider saving it with 'gqlflux introspect'")
		return issues
	}

	s, err := schema.Load(ctx, location, nil)
	if err != nil {
		return append(issues, fmt.Sprintf("Schema could not be loaded: %v", err))
	}

	for _, t := range s.Types {
		if t.Kind == schema.KindScalar && cfg.Scalars[t.Name] == "" {
			issues = append(issues, fmt.Sprintf("Custom scalar %s has no mapping in 'scalars' and will be typed as any", t.Name))
		}
	}

	if len(s.Operations) == 0 {
		issues = append(issues, "Schema declares no queries or mutations - only types will be generated")
	}

	return issues
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
