package traceir

import (
	"github.com/tracekit/tracekit/internal/object"
)

// Event is an event instance of an EventClass within a stream, per spec
// section 3: header, common-context, specific-context, and payload fields,
// each present only if the owning stream/event class declares the
// corresponding field class.
type Event struct {
	object.Ref

	Stream *Stream
	Class  *EventClass
	Packet *Packet // the packet this event belongs to, if the stream uses packets

	header          *Field
	commonContext   *Field
	specificContext *Field
	payload         *Field
}

func newEvent(s *Stream, ec *EventClass) *Event {
	ev := &Event{Stream: s, Class: ec}
	ev.allocateFields()
	return ev
}

func (ev *Event) allocateFields() {
	if fc := ev.Stream.Class.EventHeaderFieldClass(); fc != nil {
		ev.header = CreateField(fc)
	}
	if fc := ev.Stream.Class.EventCommonContextFieldClass(); fc != nil {
		ev.commonContext = CreateField(fc)
	}
	if fc := ev.Class.SpecificContextFieldClass(); fc != nil {
		ev.specificContext = CreateField(fc)
	}
	if fc := ev.Class.PayloadFieldClass(); fc != nil {
		ev.payload = CreateField(fc)
	}
}

// Header returns the event's header field, or nil.
func (ev *Event) Header() *Field { return ev.header }

// CommonContext returns the event's common-context field, or nil.
func (ev *Event) CommonContext() *Field { return ev.commonContext }

// SpecificContext returns the event's specific-context field, or nil.
func (ev *Event) SpecificContext() *Field { return ev.specificContext }

// Payload returns the event's payload field, or nil.
func (ev *Event) Payload() *Field { return ev.payload }

// Freeze marks every present field of the event read-only, called when the
// event is attached to an Event message.
func (ev *Event) Freeze() {
	for _, f := range []*Field{ev.header, ev.commonContext, ev.specificContext, ev.payload} {
		if f != nil {
			f.Freeze()
		}
	}
}

// reset restores the event's fields to their zero-initialized, mutable
// state for reuse from its stream's pool.
func (ev *Event) reset() {
	for _, f := range []*Field{ev.header, ev.commonContext, ev.specificContext, ev.payload} {
		if f != nil {
			f.Reset()
		}
	}
	ev.Packet = nil
}

// Recycle returns the event to its stream's pool. The graph engine calls
// this instead of letting the event be garbage collected once the message
// wrapping it is fully released (spec 4.3's free-list discipline).
func (ev *Event) Recycle() {
	ev.Stream.recycleEvent(ev)
}
