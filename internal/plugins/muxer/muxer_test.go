package muxer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracekit/tracekit/internal/componenttest"
	"github.com/tracekit/tracekit/internal/graph"
	"github.com/tracekit/tracekit/internal/infrastructure/logging"
	"github.com/tracekit/tracekit/internal/message"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/status"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	l, err := logging.New(logging.Options{})
	require.NoError(t, err)
	return l
}

func TestMuxerMergesTwoStreamsInClockOrder(t *testing.T) {
	ctx := context.Background()
	g := graph.New(testLogger(t))

	s1, err := g.AddComponent(ctx, componenttest.NewMemorySourceClass("s1", componenttest.MemorySourceSpec{
		StreamID: 1, Frequency: 1, Cycles: []uint64{0, 5, 10},
	}), "s1", value.Null())
	require.NoError(t, err)

	s2, err := g.AddComponent(ctx, componenttest.NewMemorySourceClass("s2", componenttest.MemorySourceSpec{
		StreamID: 2, Frequency: 1, Cycles: []uint64{2, 7, 12},
	}), "s2", value.Null())
	require.NoError(t, err)

	params := value.Map()
	require.NoError(t, params.Set("input_count", value.Signed(2)))
	mux, err := g.AddComponent(ctx, NewClass("mux"), "mux", params)
	require.NoError(t, err)

	rec := &componenttest.RecordingSink{}
	snk, err := g.AddComponent(ctx, componenttest.NewRecordingSinkClass("snk", rec), "snk", value.Null())
	require.NoError(t, err)

	_, err = g.ConnectPorts(ctx, s1.OutputPorts()[0], mux.InputPorts()[0])
	require.NoError(t, err)
	_, err = g.ConnectPorts(ctx, s2.OutputPorts()[0], mux.InputPorts()[1])
	require.NoError(t, err)
	_, err = g.ConnectPorts(ctx, mux.OutputPorts()[0], snk.InputPorts()[0])
	require.NoError(t, err)

	var code status.Code
	for i := 0; i < 100 && code != status.End; i++ {
		code = g.RunOnce(ctx)
		require.NotEqual(t, status.Error, code)
	}
	require.Equal(t, status.End, code)

	var cycles []uint64
	for _, m := range rec.Messages() {
		if m.Kind() != message.KindEvent {
			continue
		}
		snap, ok := m.DefaultClockSnapshot()
		require.True(t, ok)
		cycles = append(cycles, snap.Cycles)
	}
	require.Equal(t, []uint64{0, 2, 5, 7, 10, 12}, cycles)
}

func TestMuxerRequiresInputCount(t *testing.T) {
	ctx := context.Background()
	g := graph.New(testLogger(t))
	_, err := g.AddComponent(ctx, NewClass("mux"), "mux", value.Null())
	require.Error(t, err)
}
