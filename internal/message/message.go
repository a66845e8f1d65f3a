// Package message implements the nine message variants that flow between
// message iterators in a graph, per spec section 3: strong references to
// the trace-IR objects they carry, plus a default clock snapshot where the
// originating stream class declares one.
package message

import (
	"fmt"

	"github.com/tracekit/tracekit/internal/object"
	"github.com/tracekit/tracekit/internal/traceir"
)

// Kind discriminates the nine message variants.
type Kind int

const (
	KindStreamBeginning Kind = iota
	KindStreamEnd
	KindPacketBeginning
	KindPacketEnd
	KindEvent
	KindInactivity
	KindDiscardedEvents
	KindDiscardedPackets
	KindMessageIteratorInactivity
)

func (k Kind) String() string {
	switch k {
	case KindStreamBeginning:
		return "stream_beginning"
	case KindStreamEnd:
		return "stream_end"
	case KindPacketBeginning:
		return "packet_beginning"
	case KindPacketEnd:
		return "packet_end"
	case KindEvent:
		return "event"
	case KindInactivity:
		return "inactivity"
	case KindDiscardedEvents:
		return "discarded_events"
	case KindDiscardedPackets:
		return "discarded_packets"
	case KindMessageIteratorInactivity:
		return "message_iterator_inactivity"
	default:
		return "unknown"
	}
}

// Message is the common envelope for every variant. Exactly the fields
// relevant to Kind are populated, mirroring internal/value and
// internal/traceir's kind-tagged-union convention.
type Message struct {
	object.Ref

	kind Kind

	stream *traceir.Stream
	packet *traceir.Packet
	event  *traceir.Event

	defaultClock      traceir.ClockSnapshot
	hasDefaultClock   bool

	beginClock traceir.ClockSnapshot
	endClock   traceir.ClockSnapshot
	hasRange   bool

	discardedCount    uint64
	hasDiscardedCount bool

	recycle func(*Message) // returns m to its owning pool on zero refcount
}

// OnZeroRefs recycles the wrapped event, if any, then returns the message
// to the pool it was attached to with Pool.Attach, if any; a message with
// no attached pool is simply dropped.
func (m *Message) OnZeroRefs() {
	if m.event != nil {
		m.event.Recycle()
	}
	if m.recycle != nil {
		m.recycle(m)
		return
	}
}

// Kind reports the message's discriminant.
func (m *Message) Kind() Kind { return m.kind }

// Stream returns the message's stream, for StreamBeginning, StreamEnd,
// PacketBeginning, PacketEnd, Event, DiscardedEvents and DiscardedPackets
// messages.
func (m *Message) Stream() *traceir.Stream { return m.stream }

// Packet returns the message's packet, for PacketBeginning, PacketEnd and
// Event (when the stream uses packets) messages.
func (m *Message) Packet() *traceir.Packet { return m.packet }

// Event returns the message's event instance, for Event messages only.
func (m *Message) Event() *traceir.Event { return m.event }

// DefaultClockSnapshot returns the message's default clock snapshot and
// whether one is present. Required for ordering messages from streams
// whose class declares a default clock class.
func (m *Message) DefaultClockSnapshot() (traceir.ClockSnapshot, bool) {
	return m.defaultClock, m.hasDefaultClock
}

// ClockRange returns the (begin, end) clock snapshot pair of an Inactivity,
// DiscardedEvents, or DiscardedPackets message, and whether one is present.
func (m *Message) ClockRange() (begin, end traceir.ClockSnapshot, ok bool) {
	return m.beginClock, m.endClock, m.hasRange
}

// DiscardedCount returns the number of discarded events/packets and whether
// a count is known (it may be unknown per spec's event/packet loss model).
func (m *Message) DiscardedCount() (uint64, bool) {
	return m.discardedCount, m.hasDiscardedCount
}

// newMessage allocates a root-owned message and hands the caller its one
// birth reference. That single reference is the message's chain of
// custody: it moves by ordinary pointer-passing through any pass-through
// filter (the muxer never calls Acquire or Release), and only a genuine
// terminal consumer releases it once it is done reading the message, at
// which point OnZeroRefs recycles the wrapped event, if any, per spec 4.3.
func newMessage(kind Kind) *Message {
	m := &Message{kind: kind}
	m.Init(nil, m)
	m.Acquire()
	return m
}

// NewStreamBeginning creates a StreamBeginning message for s.
func NewStreamBeginning(s *traceir.Stream) *Message {
	m := newMessage(KindStreamBeginning)
	m.stream = s
	return m
}

// NewStreamEnd creates a StreamEnd message for s.
func NewStreamEnd(s *traceir.Stream) *Message {
	m := newMessage(KindStreamEnd)
	m.stream = s
	return m
}

// NewPacketBeginning creates a PacketBeginning message for p, freezing its
// context field as a side effect (spec's freeze-on-emit rule).
func NewPacketBeginning(p *traceir.Packet) *Message {
	p.Freeze()
	m := newMessage(KindPacketBeginning)
	m.stream = p.Stream
	m.packet = p
	return m
}

// NewPacketEnd creates a PacketEnd message for p.
func NewPacketEnd(p *traceir.Packet) *Message {
	m := newMessage(KindPacketEnd)
	m.stream = p.Stream
	m.packet = p
	return m
}

// NewEvent creates an Event message wrapping ev, freezing its fields as a
// side effect. clock and hasClock carry the stream class's default clock
// snapshot, if any; spec invariant I-Clock-Req requires every message of a
// stream whose class declares a default clock class to carry one.
func NewEvent(ev *traceir.Event, packet *traceir.Packet, clock traceir.ClockSnapshot, hasClock bool) (*Message, error) {
	if ev.Stream.Class.DefaultClockClass() != nil && !hasClock {
		return nil, fmt.Errorf("message: stream class declares a default clock class, event message built without a snapshot")
	}
	ev.Freeze()
	m := newMessage(KindEvent)
	m.stream = ev.Stream
	m.packet = packet
	m.event = ev
	m.defaultClock = clock
	m.hasDefaultClock = hasClock
	return m, nil
}

// NewInactivity creates an Inactivity message spanning [begin, end] on no
// particular stream (a whole-iterator heartbeat).
func NewInactivity(begin, end traceir.ClockSnapshot) *Message {
	m := newMessage(KindInactivity)
	m.beginClock, m.endClock, m.hasRange = begin, end, true
	return m
}

// NewDiscardedEvents creates a DiscardedEvents message for s. hasCount is
// false when the exact number lost is unknown.
func NewDiscardedEvents(s *traceir.Stream, begin, end traceir.ClockSnapshot, count uint64, hasCount bool) *Message {
	m := newMessage(KindDiscardedEvents)
	m.stream = s
	m.beginClock, m.endClock, m.hasRange = begin, end, true
	m.discardedCount, m.hasDiscardedCount = count, hasCount
	return m
}

// NewDiscardedPackets creates a DiscardedPackets message for s.
func NewDiscardedPackets(s *traceir.Stream, begin, end traceir.ClockSnapshot, count uint64, hasCount bool) *Message {
	m := newMessage(KindDiscardedPackets)
	m.stream = s
	m.beginClock, m.endClock, m.hasRange = begin, end, true
	m.discardedCount, m.hasDiscardedCount = count, hasCount
	return m
}

// NewMessageIteratorInactivity creates a message-iterator-scoped
// inactivity heartbeat carrying a single clock snapshot.
func NewMessageIteratorInactivity(snapshot traceir.ClockSnapshot) *Message {
	m := newMessage(KindMessageIteratorInactivity)
	m.beginClock = snapshot
	m.endClock = snapshot
	m.hasRange = true
	return m
}
