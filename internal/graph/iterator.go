// Package graph implements the connection and message-iterator state
// machine (spec 4.7) and the graph engine's assembly/configure/scheduler
// phases (spec 4.8).
package graph

import (
	"context"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/message"
	"github.com/tracekit/tracekit/internal/object"
	"github.com/tracekit/tracekit/pkg/errors"
	"github.com/tracekit/tracekit/pkg/status"
)

// IteratorPhase discriminates a message iterator's lifecycle state.
// spec 4.7 describes a four-phase machine (NonInitialized -> Active <->
// Last -> Ended); the Active/Last split denotes whether the iterator is
// holding a look-ahead message already pulled from its underlying source,
// a distinction no method of the component method table (§4.6: next only
// returns OK/AGAIN/END/ERROR) ever signals separately from Active — there
// is no hook that would ever drive a transition into it. This
// implementation collapses Active/Last into the single Active phase
// (decision recorded in DESIGN.md's Open Question log) and keeps the
// three phases the protocol actually distinguishes.
type IteratorPhase int

const (
	PhaseNonInitialized IteratorPhase = iota
	PhaseActive
	PhaseEnded
)

func (p IteratorPhase) String() string {
	switch p {
	case PhaseNonInitialized:
		return "non_initialized"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MessageIterator pulls messages from one component's output port (a
// source) or a filter's internal upstream iterators, uniformly from the
// perspective of the component that created it.
type MessageIterator struct {
	object.Ref

	phase IteratorPhase

	owner *component.Component
	port  *component.Port
	conn  *component.Connection

	state   component.IteratorState
	seeking bool

	graph *Graph
}

// newMessageIterator creates a NonInitialized iterator rooted at port,
// owned by the component that will pull from it (a filter or sink
// consuming port's connection).
func newMessageIterator(g *Graph, port *component.Port) *MessageIterator {
	it := &MessageIterator{phase: PhaseNonInitialized, owner: port.Owner, port: port, conn: port.Connection(), graph: g}
	it.Init(nil, nil)
	return it
}

// initialize transitions NonInitialized -> Active by invoking the owning
// component's MessageIteratorInitialize, if any.
func (it *MessageIterator) initialize(ctx context.Context) error {
	if it.phase != PhaseNonInitialized {
		return errors.NewInvalidObjectError("message_iterator", "initialize called outside NonInitialized state")
	}
	methods := it.owner.Class.Methods
	if methods.MessageIteratorInitialize != nil {
		state, err := methods.MessageIteratorInitialize(withGraph(ctx, it.graph), it.owner, it.port)
		if err != nil {
			return errors.NewUserError(it.owner.Name, "message_iterator_initialize", err)
		}
		it.state = state
	}
	it.phase = PhaseActive
	return nil
}

// Next pulls up to capacity messages, per spec 4.7's status contract.
// Ended iterators only accept Finalize.
func (it *MessageIterator) Next(ctx context.Context, capacity int) ([]*message.Message, status.Code) {
	if it.phase == PhaseNonInitialized {
		if err := it.initialize(ctx); err != nil {
			return nil, status.Error
		}
	}
	if it.phase == PhaseEnded {
		return nil, status.Error
	}

	methods := it.owner.Class.Methods
	if methods.MessageIteratorNext == nil {
		return nil, status.Error
	}
	raw, code := methods.MessageIteratorNext(withGraph(ctx, it.graph), it.owner, it.state, capacity)
	switch code {
	case status.OK:
		msgs := make([]*message.Message, 0, len(raw))
		for _, r := range raw {
			if m, ok := r.(*message.Message); ok {
				msgs = append(msgs, m)
			}
		}
		it.phase = PhaseActive
		return msgs, status.OK
	case status.Again:
		return nil, status.Again
	case status.End:
		it.phase = PhaseEnded
		return nil, status.End
	default:
		it.phase = PhaseEnded
		return nil, status.Error
	}
}

// Phase reports the iterator's current lifecycle state.
func (it *MessageIterator) Phase() IteratorPhase { return it.phase }

// CanSeekBeginning reports whether the iterator supports seek_beginning.
func (it *MessageIterator) CanSeekBeginning() bool {
	fn := it.owner.Class.Methods.MessageIteratorCanSeekBeginning
	if fn == nil {
		return false
	}
	return fn(it.owner, it.state)
}

// SeekBeginning restarts the iterator from the beginning, if supported.
func (it *MessageIterator) SeekBeginning(ctx context.Context) error {
	fn := it.owner.Class.Methods.MessageIteratorSeekBeginning
	if fn == nil {
		return errors.NewInvalidObjectError("message_iterator", "seek_beginning not supported")
	}
	it.seeking = true
	defer func() { it.seeking = false }()
	if err := fn(withGraph(ctx, it.graph), it.owner, it.state); err != nil {
		return errors.NewUserError(it.owner.Name, "message_iterator_seek_beginning", err)
	}
	it.phase = PhaseActive
	return nil
}

// Finalize releases the iterator's user state. Valid from any phase.
func (it *MessageIterator) Finalize(ctx context.Context) {
	if fn := it.owner.Class.Methods.MessageIteratorFinalize; fn != nil {
		fn(withGraph(ctx, it.graph), it.owner, it.state)
	}
	it.phase = PhaseEnded
}
