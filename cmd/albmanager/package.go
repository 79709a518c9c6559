package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Add the load balancer to the service template",
	Long: `Package runs the package lifecycle for a service.

The setup hook resolves custom.serverless-alb-manager and appends the
security group, load balancer, HTTPS listener and DNS record to the
template. The compile hook then binds every alb event without a
listenerArn to the generated listener.

The compiled template and descriptor are written to the output directory.
Nothing is written when either hook fails.

Examples:
  albmanager package
  albmanager package --stage prod
  albmanager package --template .serverless/cloudformation-template-update-stack.json
  albmanager package --json`,
	RunE: runPackage,
}

var (
	packageConfigPath   string
	packageTemplatePath string
	packageOutputDir    string
	packageStage        string
	packageJSON         bool
)

func init() {
	rootCmd.AddCommand(packageCmd)

	packageCmd.Flags().StringVarP(&packageConfigPath, "config", "c", "", "Path to serverless.yml")
	packageCmd.Flags().StringVarP(&packageTemplatePath, "template", "t", "", "Base CloudFormation template")
	packageCmd.Flags().StringVarP(&packageOutputDir, "output-dir", "o", "", "Directory for build artifacts")
	packageCmd.Flags().StringVarP(&packageStage, "stage", "s", "", "Stage override")
	packageCmd.Flags().BoolVar(&packageJSON, "json", false, "Output results as JSON")

	_ = packageCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})
	_ = packageCmd.RegisterFlagCompletionFunc("template", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
	})
}

func runPackage(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	albmanager, settings, err := newApp(cmd)
	if err != nil {
		return err
	}

	opts := settings.PackageOptions()
	if packageConfigPath != "" {
		opts.ConfigPath = packageConfigPath
	}
	if packageTemplatePath != "" {
		opts.TemplatePath = packageTemplatePath
	}
	if packageOutputDir != "" {
		opts.OutputDir = packageOutputDir
	}
	if packageStage != "" {
		opts.Stage = packageStage
	}

	result, err := albmanager.Package(ctx, opts)
	if err != nil {
		return err
	}

	if packageJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	albmanager.PrintPackageResult(result)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", successStyle.Render("✓ Package complete"))
	return nil
}
