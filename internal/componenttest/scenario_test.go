package componenttest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/graph"
	"github.com/tracekit/tracekit/internal/infrastructure/logging"
	"github.com/tracekit/tracekit/internal/message"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/status"
)

var errRefuseConnection = sentinelError("refusing-sink: input port refuses every connection")

func newRefusingSinkClass(name string) *component.Class {
	return &component.Class{
		Kind: component.KindSink,
		Name: name,
		Methods: component.MethodTable{
			Initialize: func(ctx context.Context, c *component.Component, params value.Value) error {
				_, err := c.AddInputPort("in")
				return err
			},
			PortConnected: func(ctx context.Context, c *component.Component, self, other *component.Port) error {
				if self.Direction == component.DirectionInput {
					return errRefuseConnection
				}
				return nil
			},
			GraphIsConfigured: func(ctx context.Context, c *component.Component) error { return nil },
			Consume:           func(ctx context.Context, c *component.Component) status.Code { return status.End },
		},
	}
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	l, err := logging.New(logging.Options{})
	require.NoError(t, err)
	return l
}

// scenario 1: trivial source -> sink.
func TestScenarioTrivialSourceToSink(t *testing.T) {
	ctx := context.Background()
	g := graph.New(testLogger(t))

	src, err := g.AddComponent(ctx, NewMemorySourceClass("src", MemorySourceSpec{
		StreamID: 1, Frequency: 1, Cycles: []uint64{10, 20},
	}), "src", value.Null())
	require.NoError(t, err)

	rec := &RecordingSink{}
	snk, err := g.AddComponent(ctx, NewRecordingSinkClass("snk", rec), "snk", value.Null())
	require.NoError(t, err)

	_, err = g.ConnectPorts(ctx, src.OutputPorts()[0], snk.InputPorts()[0])
	require.NoError(t, err)

	var code status.Code
	for i := 0; i < 5; i++ {
		code = g.RunOnce(ctx)
	}
	require.Equal(t, status.End, code)
	require.Equal(t, 5, rec.ConsumeCalls())

	msgs := rec.Messages()
	require.Len(t, msgs, 4)
	require.Equal(t, message.KindStreamBeginning, msgs[0].Kind())
	require.Equal(t, message.KindEvent, msgs[1].Kind())
	require.Equal(t, message.KindEvent, msgs[2].Kind())
	require.Equal(t, message.KindStreamEnd, msgs[3].Kind())

	snap1, ok := msgs[1].DefaultClockSnapshot()
	require.True(t, ok)
	require.Equal(t, uint64(10), snap1.Cycles)
	snap2, ok := msgs[2].DefaultClockSnapshot()
	require.True(t, ok)
	require.Equal(t, uint64(20), snap2.Cycles)
}

// scenario 2: back-pressured filter yields non-decreasing progress and
// still reaches END once the source ends.
func TestScenarioBackpressuredFilter(t *testing.T) {
	ctx := context.Background()
	g := graph.New(testLogger(t))

	src, err := g.AddComponent(ctx, NewMemorySourceClass("src", MemorySourceSpec{
		StreamID: 1, Frequency: 1, Cycles: []uint64{1, 2, 3},
	}), "src", value.Null())
	require.NoError(t, err)

	flt, err := g.AddComponent(ctx, NewBackpressureFilterClass("flt"), "flt", value.Null())
	require.NoError(t, err)

	rec := &RecordingSink{}
	snk, err := g.AddComponent(ctx, NewRecordingSinkClass("snk", rec), "snk", value.Null())
	require.NoError(t, err)

	_, err = g.ConnectPorts(ctx, src.OutputPorts()[0], flt.InputPorts()[0])
	require.NoError(t, err)
	_, err = g.ConnectPorts(ctx, flt.OutputPorts()[0], snk.InputPorts()[0])
	require.NoError(t, err)

	var code status.Code
	for i := 0; i < 100 && code != status.End; i++ {
		code = g.RunOnce(ctx)
		require.NotEqual(t, status.Error, code)
	}
	require.Equal(t, status.End, code)
	require.Len(t, rec.Messages(), 5) // StreamBeginning + 3 events + StreamEnd
}

// scenario 4: cancellation observed before any sink consume.
func TestScenarioCancellationMidRun(t *testing.T) {
	ctx := context.Background()
	g := graph.New(testLogger(t))

	src, err := g.AddComponent(ctx, NewMemorySourceClass("src", MemorySourceSpec{
		StreamID: 1, Frequency: 1, Cycles: []uint64{1},
	}), "src", value.Null())
	require.NoError(t, err)

	rec := &RecordingSink{}
	snk, err := g.AddComponent(ctx, NewRecordingSinkClass("snk", rec), "snk", value.Null())
	require.NoError(t, err)

	_, err = g.ConnectPorts(ctx, src.OutputPorts()[0], snk.InputPorts()[0])
	require.NoError(t, err)

	g.Cancel()
	code := g.Run(ctx)
	require.Equal(t, status.Interrupted, code)
	require.Equal(t, 0, rec.ConsumeCalls())
}

// scenario 6: a sink that refuses connection leaves the graph untouched
// and the port available for a subsequent attempt.
func TestScenarioRefusePortConnectionAllowsRetry(t *testing.T) {
	ctx := context.Background()
	g := graph.New(testLogger(t))

	src, err := g.AddComponent(ctx, NewMemorySourceClass("src", MemorySourceSpec{
		StreamID: 1, Frequency: 1, Cycles: nil,
	}), "src", value.Null())
	require.NoError(t, err)

	snk, err := g.AddComponent(ctx, newRefusingSinkClass("refusing-snk"), "refusing-snk", value.Null())
	require.NoError(t, err)

	out := src.OutputPorts()[0]
	in := snk.InputPorts()[0]
	require.False(t, out.Connected())
	require.False(t, in.Connected())

	conn, err := g.ConnectPorts(ctx, out, in)
	require.Error(t, err)
	require.Nil(t, conn)
	require.False(t, out.Connected())
	require.False(t, in.Connected())

	rec := &RecordingSink{}
	retrySnk, err := g.AddComponent(ctx, NewRecordingSinkClass("retry-snk", rec), "retry-snk", value.Null())
	require.NoError(t, err)
	conn, err = g.ConnectPorts(ctx, out, retrySnk.InputPorts()[0])
	require.NoError(t, err)
	require.NotNil(t, conn)
	require.True(t, out.Connected())
}
