package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/infrastructure/logging"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/status"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	l, err := logging.New(logging.Options{})
	require.NoError(t, err)
	return l
}

func sourceClass() *component.Class {
	return &component.Class{
		Kind: component.KindSource,
		Name: "source",
		Methods: component.MethodTable{
			MessageIteratorNext: func(ctx context.Context, c *component.Component, state component.IteratorState, capacity int) ([]any, status.Code) {
				return nil, status.End
			},
		},
	}
}

func countingSinkClass(results []status.Code) *component.Class {
	i := 0
	return &component.Class{
		Kind: component.KindSink,
		Name: "sink",
		Methods: component.MethodTable{
			GraphIsConfigured: func(ctx context.Context, c *component.Component) error { return nil },
			Consume: func(ctx context.Context, c *component.Component) status.Code {
				if i >= len(results) {
					return status.End
				}
				r := results[i]
				i++
				return r
			},
		},
	}
}

func TestAddComponentRejectsDuplicateName(t *testing.T) {
	g := New(testLogger(t))
	ctx := context.Background()
	_, err := g.AddComponent(ctx, sourceClass(), "a", value.Null())
	require.NoError(t, err)
	_, err = g.AddComponent(ctx, sourceClass(), "a", value.Null())
	require.Error(t, err)
}

func TestConnectPortsRejectsNonBipartite(t *testing.T) {
	g := New(testLogger(t))
	ctx := context.Background()
	cc := &component.Class{Kind: component.KindFilter, Name: "f", Methods: component.MethodTable{
		MessageIteratorNext: func(ctx context.Context, c *component.Component, s component.IteratorState, n int) ([]any, status.Code) { return nil, status.End },
	}}
	c1, err := g.AddComponent(ctx, cc, "c1", value.Null())
	require.NoError(t, err)
	c2, err := g.AddComponent(ctx, cc, "c2", value.Null())
	require.NoError(t, err)
	out1, _ := c1.AddOutputPort("out")
	out2, _ := c2.AddOutputPort("out")

	_, err = g.ConnectPorts(ctx, out1, out2)
	require.Error(t, err)
}

func TestConnectPortsRollsBackOnRefusal(t *testing.T) {
	g := New(testLogger(t))
	ctx := context.Background()

	srcCC := sourceClass()
	src, err := g.AddComponent(ctx, srcCC, "src", value.Null())
	require.NoError(t, err)
	out, _ := src.AddOutputPort("out")

	refusing := &component.Class{
		Kind: component.KindSink,
		Name: "refusing-sink",
		Methods: component.MethodTable{
			GraphIsConfigured: func(ctx context.Context, c *component.Component) error { return nil },
			Consume:           func(ctx context.Context, c *component.Component) status.Code { return status.End },
			PortConnected: func(ctx context.Context, c *component.Component, self, other *component.Port) error {
				return errRefused
			},
		},
	}
	sink, err := g.AddComponent(ctx, refusing, "sink", value.Null())
	require.NoError(t, err)
	in, _ := sink.AddInputPort("in")

	_, err = g.ConnectPorts(ctx, out, in)
	require.Error(t, err)
	require.False(t, out.Connected())
	require.False(t, in.Connected())
}

var errRefused = errRefusedType{}

type errRefusedType struct{}

func (errRefusedType) Error() string { return "refused" }

func TestRunEndsWhenAllSinksEnd(t *testing.T) {
	g := New(testLogger(t))
	ctx := context.Background()
	_, err := g.AddComponent(ctx, countingSinkClass([]status.Code{status.OK, status.OK}), "sink", value.Null())
	require.NoError(t, err)

	code := g.Run(ctx)
	require.Equal(t, status.End, code)
}

func TestRunReturnsAgainWhenNoProgress(t *testing.T) {
	g := New(testLogger(t))
	ctx := context.Background()
	cc := &component.Class{
		Kind: component.KindSink,
		Name: "stuck",
		Methods: component.MethodTable{
			GraphIsConfigured: func(ctx context.Context, c *component.Component) error { return nil },
			Consume:           func(ctx context.Context, c *component.Component) status.Code { return status.Again },
		},
	}
	_, err := g.AddComponent(ctx, cc, "stuck", value.Null())
	require.NoError(t, err)

	code := g.Run(ctx)
	require.Equal(t, status.Again, code)
}

func TestRunReturnsErrorOnSinkFailure(t *testing.T) {
	g := New(testLogger(t))
	ctx := context.Background()
	cc := &component.Class{
		Kind: component.KindSink,
		Name: "failing",
		Methods: component.MethodTable{
			GraphIsConfigured: func(ctx context.Context, c *component.Component) error { return nil },
			Consume:           func(ctx context.Context, c *component.Component) status.Code { return status.Error },
		},
	}
	_, err := g.AddComponent(ctx, cc, "failing", value.Null())
	require.NoError(t, err)

	code := g.Run(ctx)
	require.Equal(t, status.Error, code)
}

func TestRunReturnsInterruptedOnCancellation(t *testing.T) {
	g := New(testLogger(t))
	ctx := context.Background()
	cc := &component.Class{
		Kind: component.KindSink,
		Name: "forever",
		Methods: component.MethodTable{
			GraphIsConfigured: func(ctx context.Context, c *component.Component) error { return nil },
			Consume:           func(ctx context.Context, c *component.Component) status.Code { return status.OK },
		},
	}
	_, err := g.AddComponent(ctx, cc, "forever", value.Null())
	require.NoError(t, err)
	g.Cancel()

	code := g.Run(ctx)
	require.Equal(t, status.Interrupted, code)
}

func TestAddComponentRejectedAfterConfigure(t *testing.T) {
	g := New(testLogger(t))
	ctx := context.Background()
	_, err := g.AddComponent(ctx, countingSinkClass([]status.Code{status.End}), "sink", value.Null())
	require.NoError(t, err)
	require.NoError(t, g.Configure(ctx))

	_, err = g.AddComponent(ctx, sourceClass(), "late", value.Null())
	require.Error(t, err)
}
