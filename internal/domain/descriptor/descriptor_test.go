package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleDescriptor = `# service header
service: orders
provider:
  name: aws
  stage: prod
custom:
  serverless-alb-manager:
    vpcId: vpc-1
functions:
  api:
    handler: handler.api
    events:
      - alb:
          priority: 1 # keep me
          conditions:
            path: /api
      - http: GET /health
      - not-a-map
  worker:
    handler: handler.worker
`

func mustParse(t *testing.T, data string) *Service {
	t.Helper()
	svc, err := Parse([]byte(data))
	require.NoError(t, err)
	return svc
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		svc := mustParse(t, "")
		assert.Empty(t, svc.Name())
		assert.Nil(t, svc.FunctionNames())
		assert.Nil(t, svc.Custom("serverless-alb-manager"))
	})

	t.Run("not a mapping", func(t *testing.T) {
		t.Parallel()

		_, err := Parse([]byte("- a\n- b\n"))
		require.ErrorIs(t, err, ErrNotMapping)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := Parse([]byte("service: [unclosed"))
		require.Error(t, err)
	})
}

func TestService_Naming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		stage     string
		wantName  string
		wantStage string
		wantStack string
	}{
		{
			name:      "stage from provider",
			input:     "service: orders\nprovider:\n  stage: prod\n",
			wantName:  "orders",
			wantStage: "prod",
			wantStack: "orders-prod",
		},
		{
			name:      "default stage",
			input:     "service: orders\n",
			wantName:  "orders",
			wantStage: DefaultStage,
			wantStack: "orders-dev",
		},
		{
			name:      "stage override",
			input:     "service: orders\nprovider:\n  stage: prod\n",
			stage:     "qa",
			wantName:  "orders",
			wantStage: "qa",
			wantStack: "orders-qa",
		},
		{
			name:      "service object",
			input:     "service:\n  name: billing\n",
			wantName:  "billing",
			wantStage: DefaultStage,
			wantStack: "billing-dev",
		},
		{
			name:      "explicit stack name",
			input:     "service: orders\nprovider:\n  stackName: custom-stack\n",
			wantName:  "orders",
			wantStage: DefaultStage,
			wantStack: "custom-stack",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mustParse(t, tt.input).WithStage(tt.stage)
			assert.Equal(t, tt.wantName, svc.Name())
			assert.Equal(t, tt.wantStage, svc.Stage())
			assert.Equal(t, tt.wantStack, svc.StackName())
		})
	}
}

func TestService_Custom(t *testing.T) {
	t.Parallel()

	svc := mustParse(t, sampleDescriptor)

	node := svc.Custom("serverless-alb-manager")
	require.NotNil(t, node)
	assert.Equal(t, yaml.MappingNode, node.Kind)
	assert.Nil(t, svc.Custom("other"))
	assert.Equal(t, "aws", svc.ProviderName())
}

func TestService_Events(t *testing.T) {
	t.Parallel()

	svc := mustParse(t, sampleDescriptor)

	assert.Equal(t, []string{"api", "worker"}, svc.FunctionNames())

	events := svc.Events("api")
	require.Len(t, events, 3)
	assert.Contains(t, events[0], "alb")
	assert.Equal(t, "GET /health", events[1]["http"])
	assert.Nil(t, events[2])

	assert.Nil(t, svc.Events("worker"))
	assert.Nil(t, svc.Events("missing"))
}

func TestService_SetEvent(t *testing.T) {
	t.Parallel()

	svc := mustParse(t, sampleDescriptor)

	event := svc.Events("api")[0]
	alb := event["alb"].(map[string]any)
	alb["listenerArn"] = map[string]any{"Ref": "HttpListener"}

	require.NoError(t, svc.SetEvent("api", 0, event))

	out, err := svc.Marshal()
	require.NoError(t, err)

	reparsed := mustParse(t, string(out))
	got := reparsed.Events("api")[0]["alb"].(map[string]any)
	assert.Equal(t, map[string]any{"Ref": "HttpListener"}, got["listenerArn"])
	assert.Equal(t, 1, got["priority"])

	text := string(out)
	assert.Contains(t, text, "# service header")
	assert.Contains(t, text, "# keep me")
	assert.Contains(t, text, "handler: handler.worker")
}

func TestService_SetEvent_Errors(t *testing.T) {
	t.Parallel()

	svc := mustParse(t, sampleDescriptor)

	require.ErrorIs(t, svc.SetEvent("missing", 0, Event{}), ErrFunctionNotFound)
	require.ErrorIs(t, svc.SetEvent("api", 7, Event{}), ErrEventNotFound)
	require.ErrorIs(t, svc.SetEvent("api", -1, Event{}), ErrEventNotFound)
}

func TestService_SetEvent_ReplacesScalar(t *testing.T) {
	t.Parallel()

	svc := mustParse(t, "functions:\n  api:\n    events:\n      - alb:\n          listenerArn: \"\"\n")

	require.NoError(t, svc.SetEvent("api", 0, Event{
		"alb": map[string]any{"listenerArn": map[string]any{"Ref": "HttpListener"}},
	}))

	alb := svc.Events("api")[0]["alb"].(map[string]any)
	assert.Equal(t, map[string]any{"Ref": "HttpListener"}, alb["listenerArn"])
}

func TestService_Marshal_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := mustParse(t, sampleDescriptor)

	out, err := svc.Marshal()
	require.NoError(t, err)

	reparsed := mustParse(t, string(out))
	assert.Equal(t, svc.FunctionNames(), reparsed.FunctionNames())
	assert.Equal(t, svc.StackName(), reparsed.StackName())
}
