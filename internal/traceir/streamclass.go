package traceir

import (
	"fmt"

	"github.com/tracekit/tracekit/internal/object"
)

// StreamClass is the schema for a stream, per spec section 3.
type StreamClass struct {
	object.Ref

	ID   uint64
	Name string

	packetContext     *FieldClass
	eventHeader       *FieldClass
	eventCommonContext *FieldClass

	defaultClock *ClockClass

	events   []*EventClass
	eventByID map[int64]*EventClass

	packetsUsed       bool
	supportsDiscarded bool

	frozen bool
}

// NewStreamClass returns an empty, mutable stream class with the given
// unique ID.
func NewStreamClass(id uint64, name string) *StreamClass {
	sc := &StreamClass{ID: id, Name: name, eventByID: make(map[int64]*EventClass)}
	sc.Init(nil, nil)
	return sc
}

// SetPacketContextFieldClass sets the optional per-packet context field
// class. A non-nil value implies the stream class uses packets.
func (sc *StreamClass) SetPacketContextFieldClass(fc *FieldClass) error {
	if sc.frozen {
		return errFrozenStreamClass("SetPacketContextFieldClass")
	}
	if fc != nil {
		fc.Ref.Init(sc, nil)
	}
	sc.packetContext = fc
	sc.packetsUsed = fc != nil
	return nil
}

// PacketContextFieldClass returns the stream's packet-context field class,
// or nil.
func (sc *StreamClass) PacketContextFieldClass() *FieldClass { return sc.packetContext }

// SetEventHeaderFieldClass sets the optional event-header field class.
func (sc *StreamClass) SetEventHeaderFieldClass(fc *FieldClass) error {
	if sc.frozen {
		return errFrozenStreamClass("SetEventHeaderFieldClass")
	}
	if fc != nil {
		fc.Ref.Init(sc, nil)
	}
	sc.eventHeader = fc
	return nil
}

// EventHeaderFieldClass returns the stream's event-header field class, or
// nil.
func (sc *StreamClass) EventHeaderFieldClass() *FieldClass { return sc.eventHeader }

// SetEventCommonContextFieldClass sets the optional event-common-context
// field class, shared across every event class of the stream.
func (sc *StreamClass) SetEventCommonContextFieldClass(fc *FieldClass) error {
	if sc.frozen {
		return errFrozenStreamClass("SetEventCommonContextFieldClass")
	}
	if fc != nil {
		fc.Ref.Init(sc, nil)
	}
	sc.eventCommonContext = fc
	return nil
}

// EventCommonContextFieldClass returns the stream's event-common-context
// field class, or nil.
func (sc *StreamClass) EventCommonContextFieldClass() *FieldClass { return sc.eventCommonContext }

// SetDefaultClockClass sets the stream's default clock class, used for
// every message's default clock snapshot.
func (sc *StreamClass) SetDefaultClockClass(cc *ClockClass) error {
	if sc.frozen {
		return errFrozenStreamClass("SetDefaultClockClass")
	}
	sc.defaultClock = cc
	return nil
}

// DefaultClockClass returns the stream's default clock class, or nil.
func (sc *StreamClass) DefaultClockClass() *ClockClass { return sc.defaultClock }

// SetSupportsDiscardedEvents toggles whether the stream class allows
// DiscardedEvents messages.
func (sc *StreamClass) SetSupportsDiscardedEvents(v bool) { sc.supportsDiscarded = v }

// SupportsDiscardedEvents reports the discarded-events policy flag.
func (sc *StreamClass) SupportsDiscardedEvents() bool { return sc.supportsDiscarded }

// UsesPackets reports whether streams of this class have packets.
func (sc *StreamClass) UsesPackets() bool { return sc.packetsUsed }

// AddEventClass appends ec to the stream class. ec.ID must be unique
// within the stream class.
func (sc *StreamClass) AddEventClass(ec *EventClass) error {
	if sc.frozen {
		return errFrozenStreamClass("AddEventClass")
	}
	if _, exists := sc.eventByID[ec.ID]; exists {
		return fmt.Errorf("traceir: duplicate event class id %d", ec.ID)
	}
	ec.Ref.Init(sc, nil)
	sc.events = append(sc.events, ec)
	sc.eventByID[ec.ID] = ec
	return nil
}

// EventClasses returns the stream's event classes in declaration order.
func (sc *StreamClass) EventClasses() []*EventClass { return sc.events }

// EventClassByID looks up an event class by its unique numeric ID.
func (sc *StreamClass) EventClassByID(id int64) (*EventClass, bool) {
	ec, ok := sc.eventByID[id]
	return ec, ok
}

// Frozen reports whether sc has been frozen.
func (sc *StreamClass) Frozen() bool { return sc.frozen }

func (sc *StreamClass) validate() error {
	if sc.packetContext != nil {
		if err := validateFieldClassTree(sc.packetContext, ScopePacketContext, nil, nil); err != nil {
			return err
		}
	}
	if sc.eventHeader != nil {
		if err := validateFieldClassTree(sc.eventHeader, ScopeEventHeader, nil, nil); err != nil {
			return err
		}
	}
	if sc.eventCommonContext != nil {
		if err := validateFieldClassTree(sc.eventCommonContext, ScopeEventCommonContext, nil, nil); err != nil {
			return err
		}
	}
	for _, ec := range sc.events {
		if err := ec.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (sc *StreamClass) freeze() {
	if sc.frozen {
		return
	}
	if sc.packetContext != nil {
		sc.packetContext.freeze()
	}
	if sc.eventHeader != nil {
		sc.eventHeader.freeze()
	}
	if sc.eventCommonContext != nil {
		sc.eventCommonContext.freeze()
	}
	for _, ec := range sc.events {
		ec.freeze()
	}
	sc.frozen = true
}

func errFrozenStreamClass(op string) error {
	return fmt.Errorf("traceir: %s on frozen stream class", op)
}
