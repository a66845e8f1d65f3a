package traceir

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tracekit/tracekit/internal/object"
)

// ByteOrder is the trace's native byte order.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// TraceClass is the schema root of spec section 3: an ordered list of
// stream classes (unique IDs), an optional packet-header field class,
// trace-level environment entries, an optional UUID, and a native byte
// order. Frozen by Freeze, which NewTrace calls for the first trace
// instance; adding components to a graph or configuring it does not freeze
// it.
type TraceClass struct {
	object.Ref

	Name        string
	UUID        uuid.UUID
	HasUUID     bool
	ByteOrder   ByteOrder
	Environment map[string]EnvEntry

	packetHeader *FieldClass
	streams      []*StreamClass
	streamByID   map[uint64]*StreamClass

	frozen bool
}

// EnvEntry is a trace-level environment value: string or int.
type EnvEntry struct {
	IsString bool
	String   string
	Int      int64
}

// NewTraceClass returns an empty, mutable trace class.
func NewTraceClass(name string) *TraceClass {
	tc := &TraceClass{
		Name:        name,
		Environment: make(map[string]EnvEntry),
		streamByID:  make(map[uint64]*StreamClass),
	}
	tc.Init(nil, nil)
	return tc
}

// SetPacketHeaderFieldClass sets the optional packet-header field class,
// shared by every stream in the trace.
func (tc *TraceClass) SetPacketHeaderFieldClass(fc *FieldClass) error {
	if tc.frozen {
		return errFrozenTraceClass("SetPacketHeaderFieldClass")
	}
	if fc != nil {
		fc.Ref.Init(tc, nil)
	}
	tc.packetHeader = fc
	return nil
}

// PacketHeaderFieldClass returns the trace's packet-header field class, or
// nil.
func (tc *TraceClass) PacketHeaderFieldClass() *FieldClass { return tc.packetHeader }

// AddStreamClass appends sc to the trace class. sc.ID must be unique
// within the trace class.
func (tc *TraceClass) AddStreamClass(sc *StreamClass) error {
	if tc.frozen {
		return errFrozenTraceClass("AddStreamClass")
	}
	if _, exists := tc.streamByID[sc.ID]; exists {
		return fmt.Errorf("traceir: duplicate stream class id %d", sc.ID)
	}
	sc.Ref.Init(tc, nil)
	tc.streams = append(tc.streams, sc)
	tc.streamByID[sc.ID] = sc
	return nil
}

// StreamClasses returns the trace's stream classes in declaration order.
func (tc *TraceClass) StreamClasses() []*StreamClass { return tc.streams }

// StreamClassByID looks up a stream class by its unique ID.
func (tc *TraceClass) StreamClassByID(id uint64) (*StreamClass, bool) {
	sc, ok := tc.streamByID[id]
	return sc, ok
}

// Frozen reports whether tc has been frozen.
func (tc *TraceClass) Frozen() bool { return tc.frozen }

// Freeze validates the full schema DAG reachable from tc (cycle detection,
// field-path visibility rules for dynamic arrays/options/variants) and, on
// success, marks tc and every reachable field/stream/event class frozen.
// Freeze is idempotent.
func (tc *TraceClass) Freeze() error {
	if tc.frozen {
		return nil
	}
	if tc.packetHeader != nil {
		if err := validateFieldClassTree(tc.packetHeader, ScopePacketHeader, nil, nil); err != nil {
			return err
		}
	}
	for _, sc := range tc.streams {
		if err := sc.validate(); err != nil {
			return err
		}
	}

	if tc.packetHeader != nil {
		tc.packetHeader.freeze()
	}
	for _, sc := range tc.streams {
		sc.freeze()
	}
	tc.frozen = true
	return nil
}

func errFrozenTraceClass(op string) error {
	return fmt.Errorf("traceir: %s on frozen trace class", op)
}
