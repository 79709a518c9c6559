package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/albmanager/internal/adapters/filesystem"
	"github.com/felixgeelhaar/albmanager/internal/adapters/logging"
	"github.com/felixgeelhaar/albmanager/internal/app"
	"github.com/felixgeelhaar/albmanager/internal/domain/compiler"
	"github.com/felixgeelhaar/albmanager/internal/ports"
	"github.com/felixgeelhaar/albmanager/internal/provider/alb"
	"github.com/spf13/cobra"
)

var (
	settingsPath string
	verbose      bool
	logLevel     string
	logFormat    string
)

var rootCmd = &cobra.Command{
	Use:   "albmanager",
	Short: "Attach an Application Load Balancer to a serverless service",
	Long: `albmanager adds a shared Application Load Balancer to a serverless
service's CloudFormation template during packaging.

It appends a security group, the load balancer, an HTTPS listener and a DNS
alias record, then binds every alb function event that does not name a
listener to the generated listener.

Options are read from custom.serverless-alb-manager in serverless.yml.
Tool defaults are read from albmanager.toml when present.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", app.DefaultSettingsFile, "Path to albmanager.toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(versionCmd)

	registerFlagCompletions()
}

// loadSettings reads the settings file and applies the global log flags.
func loadSettings() (app.Settings, error) {
	settings, err := app.LoadSettings(filesystem.NewRealFileSystem(), settingsPath)
	if err != nil {
		return settings, err
	}
	if logLevel != "" {
		settings.Log.Level = logLevel
	}
	if logFormat != "" {
		settings.Log.Format = logFormat
	}
	if verbose {
		settings.Log.Level = "debug"
	}
	return settings, settings.Validate()
}

// newLogger builds the console logger described by settings.
func newLogger(w io.Writer, settings app.Settings) (*logging.ConsoleLogger, error) {
	level, err := ports.ParseLevel(settings.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewConsoleLogger(
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithJSONFormat(settings.Log.Format == "json"),
	), nil
}

// newApp wires an App for a command, logging to its error stream.
func newApp(cmd *cobra.Command) (*app.App, app.Settings, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, settings, err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), settings)
	if err != nil {
		return nil, settings, err
	}
	return app.New(cmd.OutOrStdout()).WithLogger(logger), settings, nil
}

// formatError formats an error for display, including the suggestion when
// one is available.
func formatError(err error) string {
	var cfgErr *alb.ConfigError
	if errors.As(err, &cfgErr) {
		msg := cfgErr.Message
		if verbose && len(cfgErr.Violations) > 0 {
			for _, v := range cfgErr.Violations {
				msg += fmt.Sprintf("\n  - %s", v)
			}
		}
		if cfgErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", cfgErr.Suggestion)
		}
		return msg
	}

	var hookErr *compiler.HookError
	if errors.As(err, &hookErr) {
		msg := hookErr.Message
		if hookErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", hookErr.Suggestion)
		}
		if verbose {
			msg += fmt.Sprintf("\n\nTechnical details: %s", hookErr.Format())
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "%s %s\n", errorStyle.Render("Error:"), formatError(err))
}

// registerFlagCompletions sets up custom completions for global flags.
func registerFlagCompletions() {
	_ = rootCmd.RegisterFlagCompletionFunc("settings", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
	})

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
}
