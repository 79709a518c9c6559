package alb

import (
	"context"

	"github.com/felixgeelhaar/albmanager/internal/domain/compiler"
	"github.com/felixgeelhaar/albmanager/internal/ports"
)

// Provider wires the load balancer setup and the event binder into the
// package lifecycle.
type Provider struct {
	logger ports.Logger
}

// NewProvider creates a new alb provider.
func NewProvider(logger ports.Logger) *Provider {
	return &Provider{logger: logger}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "alb"
}

// Hooks returns the lifecycle callbacks of the provider.
func (p *Provider) Hooks() map[string]compiler.HookFunc {
	return map[string]compiler.HookFunc{
		compiler.HookSetupProviderConfiguration: p.setup,
		compiler.HookCompileFunctions:           p.bind,
	}
}

// setup resolves the options and appends the load balancer resources.
// Resolution happens before any write, so a failed build leaves the template
// untouched.
func (p *Provider) setup(ctx context.Context, bctx *compiler.BuildContext) error {
	svc := bctx.Service()
	logger := p.loggerFor(ctx, bctx)

	if name := svc.ProviderName(); name != "" && name != "aws" {
		logger.Warn(ctx, "service provider is not aws", ports.F("provider", name))
	}

	opts, err := Resolve(svc.Custom(ConfigKey))
	if err != nil {
		return err
	}

	tpl := bctx.Template()
	for _, id := range LogicalIDs {
		if tpl.HasResource(id) {
			logger.Warn(ctx, "replacing existing resource", ports.F("resource", id))
		}
	}

	if err := Assemble(tpl, opts, svc.StackName); err != nil {
		return err
	}
	bctx.RecordResources(LogicalIDs...)

	logger.Info(ctx, "load balancer resources assembled",
		ports.F("stack", svc.StackName()),
		ports.F("domain", opts.DomainName),
		ports.F("subnets", len(opts.SubnetIDs)),
	)
	return nil
}

// bind points unbound alb events at the generated listener.
func (p *Provider) bind(ctx context.Context, bctx *compiler.BuildContext) error {
	logger := p.loggerFor(ctx, bctx)

	bound, err := BindListeners(bctx.Service())
	if err != nil {
		return err
	}
	for _, b := range bound {
		bctx.RecordBoundEvent(b.Function, b.Index)
		logger.Debug(ctx, "bound alb event",
			ports.F("function", b.Function),
			ports.F("index", b.Index),
		)
	}
	logger.Info(ctx, "alb events bound", ports.F("count", len(bound)))
	return nil
}

// loggerFor prefers the build-scoped logger carried by ctx.
func (p *Provider) loggerFor(ctx context.Context, bctx *compiler.BuildContext) ports.Logger {
	if logger := ports.LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return p.logger.With(ports.F("build_id", bctx.BuildID()))
}

// Ensure Provider implements compiler.Provider.
var _ compiler.Provider = (*Provider)(nil)
