package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/felixgeelhaar/albmanager/internal/app"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the load balancer options",
	Long: `Validate resolves custom.serverless-alb-manager without building anything.

Every violation is reported at once. This command is designed for CI
pipelines to catch option errors before packaging.

Exit codes:
  0 - Valid options
  1 - Invalid options or unreadable descriptor

Examples:
  albmanager validate
  albmanager validate --config services/orders/serverless.yml
  albmanager validate --json`,
	RunE: runValidate,
}

var (
	validateConfigPath string
	validateStage      string
	validateJSON       bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "", "Path to serverless.yml")
	validateCmd.Flags().StringVarP(&validateStage, "stage", "s", "", "Stage override")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output results as JSON")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	albmanager, settings, err := newApp(cmd)
	if err != nil {
		return err
	}

	configPath := settings.Package.Config
	if validateConfigPath != "" {
		configPath = validateConfigPath
	}
	stage := settings.Package.Stage
	if validateStage != "" {
		stage = validateStage
	}

	result, err := albmanager.Validate(ctx, configPath, stage)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if validateJSON {
		if err := outputValidationJSON(out, result); err != nil {
			return err
		}
	} else {
		outputValidationText(out, result)
	}

	if !result.Valid() {
		return errValidationFailed
	}
	return nil
}

func outputValidationJSON(w io.Writer, result *app.ValidationResult) error {
	output := struct {
		Valid bool `json:"valid"`
		*app.ValidationResult
	}{
		Valid:            result.Valid(),
		ValidationResult: result,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputValidationText(w io.Writer, result *app.ValidationResult) {
	for _, info := range result.Info {
		_, _ = fmt.Fprintf(w, "%s\n", mutedStyle.Render(info))
	}
	for _, warning := range result.Warnings {
		_, _ = fmt.Fprintf(w, "%s %s\n", warningStyle.Render("⚠"), warning)
	}
	for _, e := range result.Errors {
		_, _ = fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), e)
	}

	if result.Valid() {
		_, _ = fmt.Fprintf(w, "\n%s\n", successStyle.Render("✓ Options are valid"))
		return
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", errorStyle.Render(fmt.Sprintf("✗ %d error(s) found", len(result.Errors))))
}
