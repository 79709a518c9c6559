package compiler

import "context"

// Lifecycle hook names, fired in this order by Compiler.Package.
const (
	HookSetupProviderConfiguration = "package:setupProviderConfiguration"
	HookCompileFunctions           = "package:compileFunctions"
)

// PackageLifecycle lists the hooks of a package build in firing order.
var PackageLifecycle = []string{
	HookSetupProviderConfiguration,
	HookCompileFunctions,
}

// HookFunc is a provider callback bound to a lifecycle hook.
type HookFunc func(ctx context.Context, bctx *BuildContext) error

// Provider contributes hook callbacks to a build.
type Provider interface {
	// Name returns the provider name, used in logs and errors.
	Name() string

	// Hooks maps lifecycle hook names to callbacks. Hooks not listed are skipped.
	Hooks() map[string]HookFunc
}
