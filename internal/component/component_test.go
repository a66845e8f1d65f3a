package component

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/status"
)

func TestClassValidateRequiresSinkMethods(t *testing.T) {
	cc := &Class{Kind: KindSink, Name: "broken-sink"}
	require.Error(t, cc.Validate())

	cc.Methods.Consume = func(ctx context.Context, c *Component) status.Code { return status.OK }
	require.Error(t, cc.Validate(), "still missing graph_is_configured")

	cc.Methods.GraphIsConfigured = func(ctx context.Context, c *Component) error { return nil }
	require.NoError(t, cc.Validate())
}

func TestClassValidateRequiresSourceNext(t *testing.T) {
	cc := &Class{Kind: KindSource, Name: "broken-source"}
	require.Error(t, cc.Validate())
}

func TestNewInvokesInitialize(t *testing.T) {
	called := false
	cc := &Class{
		Kind: KindSink,
		Name: "sink",
		Methods: MethodTable{
			Consume:           func(ctx context.Context, c *Component) status.Code { return status.OK },
			GraphIsConfigured: func(ctx context.Context, c *Component) error { return nil },
			Initialize: func(ctx context.Context, c *Component, params value.Value) error {
				called = true
				_, err := c.AddInputPort("in")
				return err
			},
		},
	}
	c, err := New(context.Background(), cc, "s0", value.Null())
	require.NoError(t, err)
	require.True(t, called)
	require.Len(t, c.InputPorts(), 1)
}

func TestAddPortRejectedAfterFreeze(t *testing.T) {
	cc := &Class{
		Kind: KindSink,
		Name: "sink",
		Methods: MethodTable{
			Consume:           func(ctx context.Context, c *Component) status.Code { return status.OK },
			GraphIsConfigured: func(ctx context.Context, c *Component) error { return nil },
		},
	}
	c, err := New(context.Background(), cc, "s0", value.Null())
	require.NoError(t, err)

	c.FreezePorts()
	_, err = c.AddInputPort("late")
	require.Error(t, err)
}

func TestParseKindRoundTripsWithString(t *testing.T) {
	for _, k := range []Kind{KindSource, KindFilter, KindSink} {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, parsed)
	}
}

func TestParseKindRejectsUnknown(t *testing.T) {
	_, err := ParseKind("transformer")
	require.Error(t, err)
}
