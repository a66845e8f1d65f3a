package componenttest

import (
	"context"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/graph"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/status"
)

type passThroughFilterState struct {
	it    *graph.MessageIterator
	calls int
}

// NewBackpressureFilterClass returns a filter component class with one
// input port ("in") and one output port ("out") that forwards messages
// one at a time, reporting AGAIN on every call whose 1-based call count is
// even and pulling from upstream (and returning OK) on every odd call.
// Used to exercise spec.md's back-pressure scenario: a sink pulling from
// this filter sees an alternating OK/AGAIN sequence rather than a steady
// stream.
func NewBackpressureFilterClass(name string) *component.Class {
	return &component.Class{
		Kind: component.KindFilter,
		Name: name,
		Methods: component.MethodTable{
			Initialize: func(ctx context.Context, c *component.Component, params value.Value) error {
				if _, err := c.AddInputPort("in"); err != nil {
					return err
				}
				_, err := c.AddOutputPort("out")
				return err
			},
			MessageIteratorInitialize: func(ctx context.Context, c *component.Component, port *component.Port) (component.IteratorState, error) {
				g, ok := graph.FromContext(ctx)
				if !ok {
					return nil, errNoGraphInContext
				}
				upstream := c.InputPorts()[0]
				return &passThroughFilterState{it: g.CreateIterator(upstream)}, nil
			},
			MessageIteratorNext: func(ctx context.Context, c *component.Component, raw component.IteratorState, capacity int) ([]any, status.Code) {
				st := raw.(*passThroughFilterState)
				st.calls++
				if st.calls%2 == 0 {
					return nil, status.Again
				}
				msgs, code := st.it.Next(ctx, capacity)
				if code != status.OK {
					return nil, code
				}
				out := make([]any, len(msgs))
				for i, m := range msgs {
					out[i] = m
				}
				return out, status.OK
			},
			MessageIteratorFinalize: func(ctx context.Context, c *component.Component, raw component.IteratorState) {
				if st, ok := raw.(*passThroughFilterState); ok {
					st.it.Finalize(ctx)
				}
			},
		},
	}
}
