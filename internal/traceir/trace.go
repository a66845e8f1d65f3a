package traceir

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tracekit/tracekit/internal/object"
)

// Trace is a trace instance of tc, per spec section 3: an ordered set of
// stream instances (unique IDs within the trace) plus its own UUID, copied
// from the class at creation; the environment stays on the class. A Trace
// is the root of its ownership subtree; it has no parent.
type Trace struct {
	object.Ref

	Class *TraceClass

	UUID    uuid.UUID
	HasUUID bool

	streams   []*Stream
	streamByID map[uint64]*Stream
}

// NewTrace creates a trace instance of tc. tc is frozen as a side effect,
// per spec 4.2's "frozen on first use" rule: instantiating a trace class is
// the canonical first use.
func NewTrace(tc *TraceClass) (*Trace, error) {
	if err := tc.Freeze(); err != nil {
		return nil, err
	}
	t := &Trace{
		Class:      tc,
		UUID:       tc.UUID,
		HasUUID:    tc.HasUUID,
		streamByID: make(map[uint64]*Stream),
	}
	t.Init(nil, t)
	tc.Acquire()
	return t, nil
}

// OnZeroRefs releases the trace's hold on its class once the trace itself
// is destroyed.
func (t *Trace) OnZeroRefs() {
	t.Class.Release()
}

// CreateStream creates a stream instance of sc within t. sc must belong to
// t.Class, and its ID must not already be in use by this trace.
func (t *Trace) CreateStream(sc *StreamClass, id uint64) (*Stream, error) {
	found := false
	for _, candidate := range t.Class.StreamClasses() {
		if candidate == sc {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("traceir: stream class does not belong to this trace's class")
	}
	if _, exists := t.streamByID[id]; exists {
		return nil, fmt.Errorf("traceir: duplicate stream id %d within trace", id)
	}
	s := newStream(t, sc, id)
	s.Ref.Init(t, nil)
	t.streams = append(t.streams, s)
	t.streamByID[id] = s
	return s, nil
}

// Streams returns the trace's stream instances in creation order.
func (t *Trace) Streams() []*Stream { return t.streams }

// StreamByID looks up a stream instance by its unique ID within the trace.
func (t *Trace) StreamByID(id uint64) (*Stream, bool) {
	s, ok := t.streamByID[id]
	return s, ok
}
