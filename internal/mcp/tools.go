// Package mcp provides MCP (Model Context Protocol) server implementation for albmanager.
package mcp

import (
	"context"

	"github.com/felixgeelhaar/albmanager/internal/app"
	"github.com/felixgeelhaar/albmanager/internal/domain/compiler"
	"github.com/felixgeelhaar/albmanager/internal/provider/alb"
	"github.com/felixgeelhaar/mcp-go"
)

// ValidateInput is the input for the alb_validate tool.
type ValidateInput struct {
	ConfigPath string `json:"config_path,omitempty" jsonschema:"description=Path to serverless.yml (default: serverless.yml)"`
	Stage      string `json:"stage,omitempty" jsonschema:"description=Stage override used to derive the stack name"`
}

// ValidateOutput is the output for the alb_validate tool.
type ValidateOutput struct {
	Valid     bool         `json:"valid"`
	StackName string       `json:"stack_name"`
	Stage     string       `json:"stage"`
	Options   *alb.Options `json:"options,omitempty"`
	Errors    []string     `json:"errors,omitempty"`
	Warnings  []string     `json:"warnings,omitempty"`
	Info      []string     `json:"info,omitempty"`
}

// PackageInput is the input for the alb_package tool.
type PackageInput struct {
	ConfigPath   string `json:"config_path,omitempty" jsonschema:"description=Path to serverless.yml (default: serverless.yml)"`
	TemplatePath string `json:"template_path,omitempty" jsonschema:"description=Base CloudFormation template to extend"`
	OutputDir    string `json:"output_dir,omitempty" jsonschema:"description=Directory for packaged artifacts (default: .serverless)"`
	Stage        string `json:"stage,omitempty" jsonschema:"description=Stage override used to derive the stack name"`
}

// PackageOutput is the output for the alb_package tool.
type PackageOutput struct {
	BuildID        string                `json:"build_id"`
	StackName      string                `json:"stack_name"`
	Stage          string                `json:"stage"`
	Resources      []string              `json:"resources"`
	BoundEvents    []compiler.BoundEvent `json:"bound_events"`
	TemplatePath   string                `json:"template_path"`
	DescriptorPath string                `json:"descriptor_path"`
}

// VersionInput is the input for the alb_version tool.
type VersionInput struct{}

// VersionInfo contains version metadata for the MCP server.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// RegisterAll registers every albmanager tool. Empty tool inputs fall back
// to defaults.
func RegisterAll(srv *mcp.Server, a *app.App, defaults app.Settings, versionInfo VersionInfo) {
	registerValidateTool(srv, a, defaults)
	registerPackageTool(srv, a, defaults)
	registerVersionTool(srv, versionInfo)
}

func registerValidateTool(srv *mcp.Server, a *app.App, defaults app.Settings) {
	srv.Tool("alb_validate").
		Description("Validate the ALB options in serverless.yml without writing anything. Reports every schema violation at once.").
		ReadOnly().
		Handler(func(ctx context.Context, in ValidateInput) (*ValidateOutput, error) {
			if err := ValidateValidateInput(&in); err != nil {
				return nil, err
			}

			configPath := orDefault(in.ConfigPath, defaults.Package.Config)
			stage := orDefault(in.Stage, defaults.Package.Stage)

			result, err := a.Validate(ctx, configPath, stage)
			if err != nil {
				return nil, err
			}

			return &ValidateOutput{
				Valid:     result.Valid(),
				StackName: result.StackName,
				Stage:     result.Stage,
				Options:   result.Options,
				Errors:    result.Errors,
				Warnings:  result.Warnings,
				Info:      result.Info,
			}, nil
		})
}

func registerPackageTool(srv *mcp.Server, a *app.App, defaults app.Settings) {
	srv.Tool("alb_package").
		Description("Add the load balancer, listener, security group and DNS record to the CloudFormation template and bind alb events to the listener. Writes the packaged artifacts.").
		Handler(func(ctx context.Context, in PackageInput) (*PackageOutput, error) {
			if err := ValidatePackageInput(&in); err != nil {
				return nil, err
			}

			opts := defaults.PackageOptions()
			opts.ConfigPath = orDefault(in.ConfigPath, opts.ConfigPath)
			opts.TemplatePath = orDefault(in.TemplatePath, opts.TemplatePath)
			opts.OutputDir = orDefault(in.OutputDir, opts.OutputDir)
			opts.Stage = orDefault(in.Stage, opts.Stage)

			result, err := a.Package(ctx, opts)
			if err != nil {
				return nil, err
			}

			return &PackageOutput{
				BuildID:        result.BuildID,
				StackName:      result.StackName,
				Stage:          result.Stage,
				Resources:      result.Resources,
				BoundEvents:    result.BoundEvents,
				TemplatePath:   result.TemplatePath,
				DescriptorPath: result.DescriptorPath,
			}, nil
		})
}

func registerVersionTool(srv *mcp.Server, versionInfo VersionInfo) {
	srv.Tool("alb_version").
		Description("Show albmanager version information.").
		ReadOnly().
		Handler(func(_ context.Context, _ VersionInput) (*VersionInfo, error) {
			info := versionInfo
			return &info, nil
		})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
