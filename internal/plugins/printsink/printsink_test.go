package printsink

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracekit/tracekit/internal/componenttest"
	"github.com/tracekit/tracekit/internal/graph"
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

func TestPrintSinkWritesOneLinePerMessage(t *testing.T) {
	ctx := context.Background()
	g := graph.New(testLogger(t))

	src, err := g.AddComponent(ctx, componenttest.NewMemorySourceClass("src", componenttest.MemorySourceSpec{
		StreamID: 1, Frequency: 1, Cycles: []uint64{10, 20},
	}), "src", value.Null())
	require.NoError(t, err)

	var buf bytes.Buffer
	snk, err := g.AddComponent(ctx, NewClass("print", &buf), "print", value.Null())
	require.NoError(t, err)

	_, err = g.ConnectPorts(ctx, src.OutputPorts()[0], snk.InputPorts()[0])
	require.NoError(t, err)

	var code status.Code
	for i := 0; i < 10 && code != status.End; i++ {
		code = g.RunOnce(ctx)
		require.NotEqual(t, status.Error, code)
	}
	require.Equal(t, status.End, code)

	out := buf.String()
	require.Contains(t, out, "stream_beginning")
	require.Contains(t, out, "cycles=10")
	require.Contains(t, out, "cycles=20")
	require.Contains(t, out, "stream_end")
}
