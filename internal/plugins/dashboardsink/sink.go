package dashboardsink

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/graph"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/status"
)

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const errNoGraphInContext = sentinelError("dashboardsink: no graph in context; sink must be driven by graph.Graph")

type sinkState struct {
	it      *graph.MessageIterator
	stats   *Stats
	updates chan tea.Msg
	program *tea.Program
	done    chan struct{}
}

// NewClass returns a sink component class ("in" input port) that pulls one
// message at a time from its upstream connection, tallies it into a Stats,
// and drives a bubbletea program rendering those counters live. opts are
// forwarded to tea.NewProgram, letting tests substitute a discarded output
// and nil input instead of a real terminal.
func NewClass(name string, opts ...tea.ProgramOption) *component.Class {
	return &component.Class{
		Kind: component.KindSink,
		Name: name,
		Methods: component.MethodTable{
			Initialize: func(ctx context.Context, c *component.Component, params value.Value) error {
				_, err := c.AddInputPort("in")
				return err
			},
			GraphIsConfigured: func(ctx context.Context, c *component.Component) error {
				g, ok := graph.FromContext(ctx)
				if !ok {
					return errNoGraphInContext
				}
				port := c.InputPorts()[0]
				stats := newStats()
				updates := make(chan tea.Msg, 64)

				model := NewModel(name, updates)
				programOpts := append([]tea.ProgramOption{}, opts...)
				if len(programOpts) == 0 {
					programOpts = []tea.ProgramOption{tea.WithOutput(os.Stdout), tea.WithAltScreen()}
				}
				program := tea.NewProgram(model, programOpts...)

				done := make(chan struct{})
				go func() {
					defer close(done)
					_, _ = program.Run()
				}()

				c.UserState = &sinkState{
					it:      g.CreateIterator(port),
					stats:   stats,
					updates: updates,
					program: program,
					done:    done,
				}
				return nil
			},
			Consume: func(ctx context.Context, c *component.Component) status.Code {
				st := c.UserState.(*sinkState)
				msgs, code := st.it.Next(ctx, 1)
				st.stats.RecordStatus(code)
				for _, m := range msgs {
					st.stats.RecordKind(m.Kind().String())
					m.Release()
				}
				pushSnapshot(st)
				return code
			},
			Finalize: func(ctx context.Context, c *component.Component) {
				st, ok := c.UserState.(*sinkState)
				if !ok {
					return
				}
				st.it.Finalize(ctx)
				pushSnapshot(st)
				st.program.Quit()
				<-st.done
			},
		},
	}
}

// pushSnapshot offers the current counters to the rendering goroutine
// without blocking the graph's scheduling loop if the UI is slow to drain
// the channel; a dropped snapshot just means one fewer redraw, never a
// stall of the pipeline it is observing.
func pushSnapshot(st *sinkState) {
	snap := statsMsg(st.stats.Snapshot())
	select {
	case st.updates <- snap:
	default:
	}
}
