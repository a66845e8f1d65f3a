package componenttest

import (
	"context"
	"sync"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/graph"
	"github.com/tracekit/tracekit/internal/message"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/status"
)

// RecordingSink collects every message pulled through its single input
// port, in order, for assertion by scenario tests. Safe to read from a
// different goroutine than the one driving the graph, guarded by mu.
//
// Deliberately never calls Release on a recorded message: it holds onto
// the message's birth reference for the test's entire lifetime so
// Messages() can still read event fields after the run completes.
// Releasing would drive the wrapped event's refcount to zero and recycle
// it (OnZeroRefs -> Event.Recycle -> reset), wiping the very fields the
// assertions are reading. A production terminal sink (printsink,
// dashboardsink) is not retaining messages past its own Consume call, so
// it releases; this fixture is, so it does not.
type RecordingSink struct {
	mu           sync.Mutex
	messages     []*message.Message
	consumeCalls int
}

type recordingSinkState struct {
	it *graph.MessageIterator
}

// Messages returns a copy of every message observed so far.
func (s *RecordingSink) Messages() []*message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*message.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// ConsumeCalls reports how many times consume has been invoked.
func (s *RecordingSink) ConsumeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumeCalls
}

// NewRecordingSinkClass returns a sink component class with one input port
// ("in") that pulls one message at a time from its upstream connection and
// appends it to rec. Used to exercise spec.md's end-to-end scenarios
// against a real graph.Graph.
func NewRecordingSinkClass(name string, rec *RecordingSink) *component.Class {
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
				c.UserState = &recordingSinkState{it: g.CreateIterator(port)}
				return nil
			},
			Consume: func(ctx context.Context, c *component.Component) status.Code {
				st := c.UserState.(*recordingSinkState)
				msgs, code := st.it.Next(ctx, 1)
				rec.mu.Lock()
				rec.consumeCalls++
				rec.mu.Unlock()
				if code != status.OK {
					return code
				}
				rec.mu.Lock()
				rec.messages = append(rec.messages, msgs...)
				rec.mu.Unlock()
				return status.OK
			},
			Finalize: func(ctx context.Context, c *component.Component) {
				if st, ok := c.UserState.(*recordingSinkState); ok {
					st.it.Finalize(ctx)
				}
			},
		},
	}
}

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const errNoGraphInContext = sentinelError("componenttest: no graph in context; sink must be driven by graph.Graph")
