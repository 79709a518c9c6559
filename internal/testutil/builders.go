package testutil

import (
	"fmt"
	"strings"
)

// ServiceBuilder builds serverless.yml documents for tests.
type ServiceBuilder struct {
	service   string
	stage     string
	stackName string
	albConfig []string
	functions []testFunction
}

type testFunction struct {
	name   string
	events []string
}

// NewServiceBuilder creates a builder for a service named "orders".
func NewServiceBuilder() *ServiceBuilder {
	return &ServiceBuilder{service: "orders"}
}

// WithService sets the service name.
func (b *ServiceBuilder) WithService(name string) *ServiceBuilder {
	b.service = name
	return b
}

// WithStage sets provider.stage.
func (b *ServiceBuilder) WithStage(stage string) *ServiceBuilder {
	b.stage = stage
	return b
}

// WithStackName sets provider.stackName.
func (b *ServiceBuilder) WithStackName(name string) *ServiceBuilder {
	b.stackName = name
	return b
}

// WithValidALBConfig adds a complete options block.
func (b *ServiceBuilder) WithValidALBConfig() *ServiceBuilder {
	return b.WithALBConfig(
		"vpcId: vpc-123",
		"subnetIds: [subnet-1, subnet-2]",
		"certificateArn: arn:aws:acm:eu-west-1:123456789012:certificate/abc",
		"domainName: api.example.com",
	)
}

// WithALBConfig adds raw YAML lines to the options block.
func (b *ServiceBuilder) WithALBConfig(lines ...string) *ServiceBuilder {
	b.albConfig = append(b.albConfig, lines...)
	return b
}

// WithFunction adds a function. Each event is a single-line YAML mapping,
// e.g. "alb: {priority: 1}".
func (b *ServiceBuilder) WithFunction(name string, events ...string) *ServiceBuilder {
	b.functions = append(b.functions, testFunction{name: name, events: events})
	return b
}

// Build renders the document.
func (b *ServiceBuilder) Build() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "service: %s\n", b.service)
	sb.WriteString("provider:\n  name: aws\n")
	if b.stage != "" {
		fmt.Fprintf(&sb, "  stage: %s\n", b.stage)
	}
	if b.stackName != "" {
		fmt.Fprintf(&sb, "  stackName: %s\n", b.stackName)
	}

	if len(b.albConfig) > 0 {
		sb.WriteString("custom:\n  serverless-alb-manager:\n")
		for _, line := range b.albConfig {
			fmt.Fprintf(&sb, "    %s\n", line)
		}
	}

	if len(b.functions) > 0 {
		sb.WriteString("functions:\n")
		for _, fn := range b.functions {
			fmt.Fprintf(&sb, "  %s:\n    handler: handler.%s\n", fn.name, fn.name)
			if len(fn.events) == 0 {
				continue
			}
			sb.WriteString("    events:\n")
			for _, ev := range fn.events {
				fmt.Fprintf(&sb, "      - %s\n", ev)
			}
		}
	}

	return sb.String()
}
