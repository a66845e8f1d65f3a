package traceir

import (
	"github.com/tracekit/tracekit/internal/object"
)

// Stream is a stream instance of sc within a trace, per spec section 3. It
// owns a packet sequence (if sc.UsesPackets()) and the event pools that
// back CreateEvent's recycling discipline (spec 4.3: "event objects are
// recycled through a free-list keyed by event class, not deallocated on
// every message").
type Stream struct {
	object.Ref

	Trace *Trace
	Class *StreamClass
	ID    uint64

	packetSeq uint64
	pools     map[int64]*eventPool
}

func newStream(tr *Trace, sc *StreamClass, id uint64) *Stream {
	return &Stream{
		Trace: tr,
		Class: sc,
		ID:    id,
		pools: make(map[int64]*eventPool),
	}
}

// CreatePacket creates a packet instance on the stream. Returns an error if
// the stream's class does not use packets.
func (s *Stream) CreatePacket() (*Packet, error) {
	if !s.Class.UsesPackets() {
		return nil, errPacketlessStreamClass
	}
	p := newPacket(s, s.packetSeq)
	s.packetSeq++
	p.Ref.Init(s, nil)
	return p, nil
}

// CreateEvent creates an event instance of ec on the stream, reusing a
// pooled instance if one is available (spec 4.3's event-pool recycling),
// or allocating fresh field trees otherwise.
func (s *Stream) CreateEvent(ec *EventClass) *Event {
	pool := s.pools[ec.ID]
	if pool == nil {
		pool = newEventPool(s, ec)
		s.pools[ec.ID] = pool
	}
	return pool.get()
}

// recycleEvent returns ev to its stream's pool for reuse, instead of
// letting it be garbage collected. Called by the graph engine once a
// message wrapping ev has been fully consumed (refcount reaches zero).
func (s *Stream) recycleEvent(ev *Event) {
	if pool, ok := s.pools[ev.Class.ID]; ok {
		pool.put(ev)
	}
}
