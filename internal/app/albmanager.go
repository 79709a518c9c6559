// Package app provides the main application logic for albmanager.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/felixgeelhaar/albmanager/internal/adapters/filesystem"
	"github.com/felixgeelhaar/albmanager/internal/adapters/logging"
	"github.com/felixgeelhaar/albmanager/internal/domain/cfn"
	"github.com/felixgeelhaar/albmanager/internal/domain/compiler"
	"github.com/felixgeelhaar/albmanager/internal/domain/descriptor"
	"github.com/felixgeelhaar/albmanager/internal/ports"
	"github.com/felixgeelhaar/albmanager/internal/provider/alb"
)

// Artifact file names written by Package.
const (
	TemplateFileName   = "cloudformation-template-update-stack.json"
	DescriptorFileName = "serverless.compiled.yml"
)

// App is the main application orchestrator.
type App struct {
	fs     ports.FileSystem
	logger ports.Logger
	out    io.Writer
}

// New creates a new App backed by the real file system.
func New(out io.Writer) *App {
	return &App{
		fs:     filesystem.NewRealFileSystem(),
		logger: logging.NewNopLogger(),
		out:    out,
	}
}

// WithFileSystem sets the file system used to read inputs and write artifacts.
func (a *App) WithFileSystem(fs ports.FileSystem) *App {
	a.fs = fs
	return a
}

// WithLogger sets the logger.
func (a *App) WithLogger(logger ports.Logger) *App {
	a.logger = logger
	return a
}

// FileSystem returns the file system in use.
func (a *App) FileSystem() ports.FileSystem {
	return a.fs
}

// PackageOptions configures a package build.
type PackageOptions struct {
	// ConfigPath is the service descriptor, usually serverless.yml.
	ConfigPath string
	// TemplatePath is an optional base template; empty starts from scratch.
	TemplatePath string
	// OutputDir receives the artifacts.
	OutputDir string
	// Stage overrides provider.stage when set.
	Stage string
}

// PackageResult describes a finished build.
type PackageResult struct {
	BuildID        string                `json:"build_id"`
	StackName      string                `json:"stack_name"`
	Stage          string                `json:"stage"`
	Resources      []string              `json:"resources"`
	BoundEvents    []compiler.BoundEvent `json:"bound_events"`
	TemplatePath   string                `json:"template_path"`
	DescriptorPath string                `json:"descriptor_path"`
}

// Package runs the package lifecycle and writes the compiled template and
// descriptor to the output directory. Nothing is written when a hook fails.
func (a *App) Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	svc, err := a.loadService(opts.ConfigPath, opts.Stage)
	if err != nil {
		return nil, err
	}

	tpl, err := a.loadTemplate(opts.TemplatePath)
	if err != nil {
		return nil, err
	}

	comp, err := a.newCompiler()
	if err != nil {
		return nil, err
	}

	bctx := compiler.NewBuildContext(tpl, svc)
	logger := a.logger.With(ports.F("build_id", bctx.BuildID()))
	logger.Debug(ctx, "starting package build",
		ports.F("config", opts.ConfigPath),
		ports.F("stage", svc.Stage()),
	)

	ctx = ports.ContextWithLogger(ctx, logger)
	if err := comp.Package(ctx, bctx); err != nil {
		logger.Error(ctx, "package build failed", ports.F("phase", string(comp.Phase())), ports.F("error", err.Error()))
		return nil, err
	}

	data, err := svc.Marshal()
	if err != nil {
		return nil, err
	}

	outDir := ports.ExpandPath(opts.OutputDir)
	if err := a.fs.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	templatePath := filepath.Join(outDir, TemplateFileName)
	if err := a.fs.WriteFile(templatePath, append(tpl.Pretty(), '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write template: %w", err)
	}

	// The template is only valid next to its descriptor.
	descriptorPath := filepath.Join(outDir, DescriptorFileName)
	if err := a.fs.WriteFile(descriptorPath, data, 0o644); err != nil {
		if rmErr := a.fs.Remove(templatePath); rmErr != nil {
			logger.Warn(ctx, "failed to remove template", ports.F("path", templatePath), ports.F("error", rmErr.Error()))
		}
		return nil, fmt.Errorf("failed to write descriptor: %w", err)
	}

	report := bctx.Report()
	logger.Info(ctx, "package build complete",
		ports.F("resources", len(report.Resources)),
		ports.F("bound_events", len(report.BoundEvents)),
		ports.F("output", outDir),
	)

	return &PackageResult{
		BuildID:        bctx.BuildID(),
		StackName:      svc.StackName(),
		Stage:          svc.Stage(),
		Resources:      report.Resources,
		BoundEvents:    report.BoundEvents,
		TemplatePath:   templatePath,
		DescriptorPath: descriptorPath,
	}, nil
}

// PrintPackageResult outputs a human-readable build summary.
func (a *App) PrintPackageResult(result *PackageResult) {
	a.printf("\nPackaged %s (stage %s)\n\n", result.StackName, result.Stage)
	for _, r := range result.Resources {
		a.printf("  + %s\n", r)
	}
	for _, b := range result.BoundEvents {
		a.printf("  ~ %s.events[%d] -> %s\n", b.Function, b.Index, alb.LogicalIDHTTPListener)
	}
	a.printf("\nTemplate:   %s\n", result.TemplatePath)
	a.printf("Descriptor: %s\n", result.DescriptorPath)
}

// ValidationResult contains the results of options validation.
type ValidationResult struct {
	StackName string       `json:"stack_name"`
	Stage     string       `json:"stage"`
	Options   *alb.Options `json:"options,omitempty"`
	Errors    []string     `json:"errors,omitempty"`
	Warnings  []string     `json:"warnings,omitempty"`
	Info      []string     `json:"info,omitempty"`
}

// Valid reports whether validation found no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate resolves the options block without building anything. Option
// problems are reported in the result; only load failures return an error.
func (a *App) Validate(ctx context.Context, configPath, stage string) (*ValidationResult, error) {
	svc, err := a.loadService(configPath, stage)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{
		StackName: svc.StackName(),
		Stage:     svc.Stage(),
	}
	result.Info = append(result.Info, fmt.Sprintf("Loaded service descriptor from %s", configPath))
	result.Info = append(result.Info, fmt.Sprintf("Stack: %s", result.StackName))

	if name := svc.ProviderName(); name != "" && name != "aws" {
		result.Warnings = append(result.Warnings, fmt.Sprintf("provider %q is not aws", name))
	}

	opts, err := alb.Resolve(svc.Custom(alb.ConfigKey))
	if err != nil {
		var cfgErr *alb.ConfigError
		if !errors.As(err, &cfgErr) {
			return nil, err
		}
		if len(cfgErr.Violations) > 0 {
			result.Errors = append(result.Errors, cfgErr.Violations...)
		} else {
			result.Errors = append(result.Errors, cfgErr.Message)
		}
		a.logger.Debug(ctx, "options invalid", ports.F("errors", len(result.Errors)))
		return result, nil
	}
	result.Options = opts

	unbound := 0
	for _, fn := range svc.FunctionNames() {
		for _, ev := range svc.Events(fn) {
			if _, ok := alb.BindEvent(ev); ok {
				unbound++
			}
		}
	}
	result.Info = append(result.Info, fmt.Sprintf("%d alb event(s) will be bound to %s", unbound, alb.LogicalIDHTTPListener))

	return result, nil
}

// printf is a helper that writes to the output writer, ignoring errors.
func (a *App) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *App) newCompiler() (*compiler.Compiler, error) {
	comp, err := compiler.NewCompiler()
	if err != nil {
		return nil, err
	}
	comp.RegisterProvider(alb.NewProvider(a.logger))
	return comp, nil
}

func (a *App) loadService(path, stage string) (*descriptor.Service, error) {
	data, err := a.fs.ReadFile(ports.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read service descriptor: %w", err)
	}
	svc, err := descriptor.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load service descriptor %s: %w", path, err)
	}
	return svc.WithStage(stage), nil
}

func (a *App) loadTemplate(path string) (*cfn.Template, error) {
	if path == "" {
		return cfn.New(), nil
	}
	data, err := a.fs.ReadFile(ports.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	tpl, err := cfn.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", path, err)
	}
	return tpl, nil
}
