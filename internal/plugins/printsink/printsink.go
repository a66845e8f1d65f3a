// Package printsink implements the smallest possible conforming sink: it
// pulls one message at a time and writes a one-line description of it to
// an io.Writer. Grounded on the shape of the teacher's command plug-in —
// the simplest plugin in the pack, used here as the template for "minimal
// conforming component" rather than for its shell-exec behavior.
package printsink

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/graph"
	"github.com/tracekit/tracekit/internal/message"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/errors"
	"github.com/tracekit/tracekit/pkg/status"
)

type sinkState struct {
	it *graph.MessageIterator
}

// NewClass returns a sink component class with one input port ("in") that
// writes a line per message to w. A nil w defaults to os.Stdout.
func NewClass(name string, w io.Writer) *component.Class {
	if w == nil {
		w = os.Stdout
	}
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
					return errors.NewInvalidObjectError(c.Name, "printsink must be driven by a graph.Graph")
				}
				c.UserState = &sinkState{it: g.CreateIterator(c.InputPorts()[0])}
				return nil
			},
			Consume: func(ctx context.Context, c *component.Component) status.Code {
				st := c.UserState.(*sinkState)
				msgs, code := st.it.Next(ctx, 1)
				if code != status.OK {
					return code
				}
				for _, m := range msgs {
					fmt.Fprintln(w, describe(m))
					m.Release()
				}
				return status.OK
			},
			Finalize: func(ctx context.Context, c *component.Component) {
				if st, ok := c.UserState.(*sinkState); ok {
					st.it.Finalize(ctx)
				}
			},
		},
	}
}

func describe(m *message.Message) string {
	switch m.Kind() {
	case message.KindEvent:
		ev := m.Event()
		line := fmt.Sprintf("event %s stream=%d", ev.Class.Name, ev.Stream.ID)
		if snap, ok := m.DefaultClockSnapshot(); ok {
			line += fmt.Sprintf(" cycles=%d", snap.Cycles)
		}
		return line
	case message.KindStreamBeginning:
		return fmt.Sprintf("stream_beginning stream=%d", m.Stream().ID)
	case message.KindStreamEnd:
		return fmt.Sprintf("stream_end stream=%d", m.Stream().ID)
	default:
		return m.Kind().String()
	}
}
