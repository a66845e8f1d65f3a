package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/componenttest"
	"github.com/tracekit/tracekit/internal/config"
	"github.com/tracekit/tracekit/internal/graph"
	"github.com/tracekit/tracekit/internal/infrastructure/logging"
	"github.com/tracekit/tracekit/internal/plugin"
	"github.com/tracekit/tracekit/internal/plugins/printsink"
	"github.com/tracekit/tracekit/pkg/status"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	l, err := logging.New(logging.Options{})
	require.NoError(t, err)
	return l
}

func TestAssembleGraphWiresComponentsAndConnections(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	reg := plugin.New()
	require.NoError(t, reg.Register(plugin.ModuleDescriptor{
		Name: "fixtures",
		Classes: []*component.Class{
			componenttest.NewMemorySourceClass("mem_source", componenttest.MemorySourceSpec{
				StreamID:  1,
				Frequency: 1,
				Cycles:    []uint64{1, 2, 3},
			}),
			printsink.NewClass("print_sink", &out),
		},
	}))

	gd := &config.GraphDescriptor{
		Version: "1.0",
		Name:    "fixture-graph",
		Components: []config.ComponentDescriptor{
			{Name: "src", Kind: "source", Class: "mem_source"},
			{Name: "snk", Kind: "sink", Class: "print_sink"},
		},
		Connections: []config.ConnectionDescriptor{
			{Output: "src.out", Input: "snk.in"},
		},
	}

	g := graph.New(testLogger(t))
	require.NoError(t, assembleGraph(ctx, g, reg, gd))

	code := g.Run(ctx)
	require.Equal(t, status.End, code)
	require.Contains(t, out.String(), "stream_beginning")
	require.Contains(t, out.String(), "stream_end")
}

func TestAssembleGraphRejectsUnknownClass(t *testing.T) {
	reg := plugin.New()
	gd := &config.GraphDescriptor{
		Name: "broken",
		Components: []config.ComponentDescriptor{
			{Name: "src", Kind: "source", Class: "does_not_exist"},
		},
	}
	g := graph.New(testLogger(t))
	require.Error(t, assembleGraph(context.Background(), g, reg, gd))
}

func TestFindPortReportsMissingComponent(t *testing.T) {
	g := graph.New(testLogger(t))
	_, err := findPort(g, "missing", "out", component.DirectionOutput)
	require.Error(t, err)
}
