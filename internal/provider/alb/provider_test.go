package alb

import (
	"bytes"
	"context"
	"testing"

	"github.com/felixgeelhaar/albmanager/internal/adapters/logging"
	"github.com/felixgeelhaar/albmanager/internal/domain/cfn"
	"github.com/felixgeelhaar/albmanager/internal/domain/compiler"
	"github.com/felixgeelhaar/albmanager/internal/domain/descriptor"
	"github.com/felixgeelhaar/albmanager/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceYAML = `service: orders
provider:
  name: aws
  stage: prod
custom:
  serverless-alb-manager:
    vpcId: vpc-123
    subnetIds: subnet-1, subnet-2
    certificateArn: arn:aws:acm:eu-west-1:123456789012:certificate/abc
    domainName: api.example.com
functions:
  api:
    handler: handler.api
    events:
      - alb:
          priority: 1
          conditions:
            path: /api
  legacy:
    handler: handler.legacy
    events:
      - alb:
          listenerArn: arn:aws:elasticloadbalancing:eu-west-1:123:listener/app/x
          priority: 2
`

func newBuild(t *testing.T, src string) (*compiler.Compiler, *compiler.BuildContext) {
	t.Helper()

	svc, err := descriptor.Parse([]byte(src))
	require.NoError(t, err)

	c, err := compiler.NewCompiler()
	require.NoError(t, err)
	c.RegisterProvider(NewProvider(logging.NewNopLogger()))

	return c, compiler.NewBuildContext(cfn.New(), svc)
}

func TestProvider_Name(t *testing.T) {
	t.Parallel()

	p := NewProvider(logging.NewNopLogger())
	assert.Equal(t, "alb", p.Name())
	assert.Len(t, p.Hooks(), 2)
}

func TestProvider_Package(t *testing.T) {
	t.Parallel()

	c, bctx := newBuild(t, serviceYAML)

	require.NoError(t, c.Package(context.Background(), bctx))

	tpl := bctx.Template()
	assert.Equal(t, LogicalIDs, tpl.ResourceNames())
	assert.Equal(t, "orders-prod-alb", tpl.Get("Resources.LoadBalancer.Properties.Name").String())
	assert.Equal(t, "example.com.", tpl.Get("Resources.DnsRecord.Properties.HostedZoneName").String())

	events := bctx.Service().Events("api")
	assert.Equal(t, ListenerReference(), events[0]["alb"].(map[string]any)["listenerArn"])

	legacy := bctx.Service().Events("legacy")
	assert.Equal(t,
		"arn:aws:elasticloadbalancing:eu-west-1:123:listener/app/x",
		legacy[0]["alb"].(map[string]any)["listenerArn"])

	report := bctx.Report()
	assert.Equal(t, LogicalIDs, report.Resources)
	assert.Equal(t, []compiler.BoundEvent{{Function: "api", Index: 0}}, report.BoundEvents)
}

func TestProvider_SetupFailureLeavesTemplateUntouched(t *testing.T) {
	t.Parallel()

	c, bctx := newBuild(t, "service: orders\ncustom:\n  serverless-alb-manager:\n    vpcId: v\n")
	before := bctx.Template().Bytes()

	err := c.Package(context.Background(), bctx)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrConfigInvalid)
	assert.Equal(t,
		`serverless-plugin-alb-manager: Invalid configuration. ValidationError: "subnetIds" is required. "certificateArn" is required. "domainName" is required`,
		err.Error())
	assert.Equal(t, before, bctx.Template().Bytes())
	assert.Equal(t, compiler.PhaseFailed, c.Phase())
}

func TestProvider_MissingConfig(t *testing.T) {
	t.Parallel()

	c, bctx := newBuild(t, "service: orders\n")

	err := c.Package(context.Background(), bctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigMissing)
	assert.Empty(t, bctx.Template().ResourceNames())
}

func TestProvider_BindWithoutFunctions(t *testing.T) {
	t.Parallel()

	src := "service: orders\ncustom:\n  serverless-alb-manager:\n" +
		"    vpcId: v\n    subnetIds: [s]\n    certificateArn: c\n    domainName: example.com\n"
	c, bctx := newBuild(t, src)

	require.NoError(t, c.Package(context.Background(), bctx))
	assert.Empty(t, bctx.Report().BoundEvents)
	assert.Equal(t, "orders-dev-https", bctx.Template().Get("Resources.SecurityGroup.Properties.GroupName").String())
}

func TestProvider_UsesLoggerFromContext(t *testing.T) {
	t.Parallel()

	c, bctx := newBuild(t, serviceYAML)
	require.NoError(t, bctx.Template().AddResources(cfn.NamedResource{
		Name:     LogicalIDHTTPListener,
		Resource: cfn.Resource{Type: "AWS::ElasticLoadBalancingV2::Listener"},
	}))

	var buf bytes.Buffer
	logger := logging.NewConsoleLogger(
		logging.WithOutput(&buf),
		logging.WithJSONFormat(true),
		logging.WithTimestamp(false),
	).With(ports.F("build_id", "b-42"))
	ctx := ports.ContextWithLogger(context.Background(), logger)

	require.NoError(t, c.Package(ctx, bctx))

	output := buf.String()
	assert.Contains(t, output, "replacing existing resource")
	assert.Contains(t, output, `"resource":"HttpListener"`)
	assert.Contains(t, output, `"build_id":"b-42"`)
	assert.Contains(t, output, "alb events bound")
}
