// Package ctfsource implements a synthetic CTF-shaped source: a
// packet-oriented stream of events, complete with packet-context fields
// and discarded-event counts between packets, the way a Common Trace
// Format reader assembles a stream — without adopting CTF's actual binary
// metadata/wire decoder. Grounded on the shape described across
// original_source/formats/ctf and original_source/src/plugins/ctf (packet
// sequencing, discarded-event accounting), reimplemented here as an
// in-memory spec rather than a file reader, since this plug-in's job is
// to exercise the packet/discarded-event corner of the trace IR that the
// simpler memory-backed test source never touches.
package ctfsource

import (
	"context"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/message"
	"github.com/tracekit/tracekit/internal/traceir"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/status"
)

// EventSpec describes one synthetic event within a packet: its default
// clock snapshot cycle count and a single free-text payload message.
type EventSpec struct {
	Cycles  uint64
	Message string
}

// PacketSpec describes one packet: the events it carries and, optionally,
// a discarded-events count CTF readers report when a packet's sequence
// number skips ahead of the last one seen.
type PacketSpec struct {
	Events              []EventSpec
	DiscardedEventCount uint64
	HasDiscarded        bool
}

// SourceSpec configures a synthetic CTF-shaped stream.
type SourceSpec struct {
	StreamID  uint64
	Frequency uint64
	Packets   []PacketSpec
}

type phase int

const (
	phaseStreamBeginning phase = iota
	phasePacketBeginning
	phaseEvent
	phasePacketEnd
	phaseDiscarded
	phaseStreamEnd
	phaseDone
)

type iteratorState struct {
	stream  *traceir.Stream
	ec      *traceir.EventClass
	clock   *traceir.ClockClass
	packets []PacketSpec

	packetIdx int
	eventIdx  int
	phase     phase

	curPacket *traceir.Packet
}

// NewClass returns a source component class emitting StreamBeginning, then
// for each of spec.Packets: PacketBeginning, one Event per EventSpec,
// PacketEnd, and (when HasDiscarded) a DiscardedEvents message — then
// StreamEnd, then End.
func NewClass(name string, spec SourceSpec) *component.Class {
	return &component.Class{
		Kind: component.KindSource,
		Name: name,
		Methods: component.MethodTable{
			Initialize: func(ctx context.Context, c *component.Component, params value.Value) error {
				_, err := c.AddOutputPort("out")
				return err
			},
			MessageIteratorInitialize: func(ctx context.Context, c *component.Component, port *component.Port) (component.IteratorState, error) {
				tc := traceir.NewTraceClass(name)
				sc := traceir.NewStreamClass(spec.StreamID, name+"-stream")
				cc := &traceir.ClockClass{Name: name + "-clock", Frequency: spec.Frequency, OriginIsUnixEpoch: true}
				if err := sc.SetDefaultClockClass(cc); err != nil {
					return nil, err
				}

				packetContext := traceir.NewStructureFieldClass()
				if err := packetContext.AppendMember("packet_seq", traceir.NewIntegerFieldClass(64, false, traceir.BaseDecimal)); err != nil {
					return nil, err
				}
				if err := sc.SetPacketContextFieldClass(packetContext); err != nil {
					return nil, err
				}

				payload := traceir.NewStructureFieldClass()
				if err := payload.AppendMember("message", traceir.NewStringFieldClass()); err != nil {
					return nil, err
				}
				ec := traceir.NewEventClass(0, "ctf-event")
				if err := ec.SetPayloadFieldClass(payload); err != nil {
					return nil, err
				}
				if err := sc.AddEventClass(ec); err != nil {
					return nil, err
				}
				if err := tc.AddStreamClass(sc); err != nil {
					return nil, err
				}

				tr, err := traceir.NewTrace(tc)
				if err != nil {
					return nil, err
				}
				stream, err := tr.CreateStream(sc, spec.StreamID)
				if err != nil {
					return nil, err
				}

				packets := make([]PacketSpec, len(spec.Packets))
				copy(packets, spec.Packets)

				return &iteratorState{stream: stream, ec: ec, clock: cc, packets: packets}, nil
			},
			MessageIteratorNext: nextFn,
		},
	}
}

func nextFn(ctx context.Context, c *component.Component, raw component.IteratorState, capacity int) ([]any, status.Code) {
	st := raw.(*iteratorState)
	if capacity == 0 {
		return nil, status.OK
	}

	for {
		switch st.phase {
		case phaseStreamBeginning:
			st.phase = phasePacketBeginning
			return []any{message.NewStreamBeginning(st.stream)}, status.OK

		case phasePacketBeginning:
			if st.packetIdx >= len(st.packets) {
				st.phase = phaseStreamEnd
				continue
			}
			pkt, err := st.stream.CreatePacket()
			if err != nil {
				return nil, status.Error
			}
			setPacketSeq(pkt, uint64(st.packetIdx))
			pkt.Freeze()
			st.curPacket = pkt
			st.eventIdx = 0
			st.phase = phaseEvent
			return []any{message.NewPacketBeginning(pkt)}, status.OK

		case phaseEvent:
			events := st.packets[st.packetIdx].Events
			if st.eventIdx >= len(events) {
				st.phase = phasePacketEnd
				continue
			}
			spec := events[st.eventIdx]
			st.eventIdx++

			ev := st.stream.CreateEvent(st.ec)
			if member, ok := ev.Payload().MemberByName("message"); ok {
				_ = member.SetString(spec.Message)
			}
			snapshot := traceir.ClockSnapshot{Class: st.clock, Cycles: spec.Cycles}
			m, err := message.NewEvent(ev, st.curPacket, snapshot, true)
			if err != nil {
				return nil, status.Error
			}
			return []any{m}, status.OK

		case phasePacketEnd:
			pkt := st.curPacket
			st.curPacket = nil
			if st.packets[st.packetIdx].HasDiscarded {
				st.phase = phaseDiscarded
			} else {
				st.packetIdx++
				st.phase = phasePacketBeginning
			}
			return []any{message.NewPacketEnd(pkt)}, status.OK

		case phaseDiscarded:
			count := st.packets[st.packetIdx].DiscardedEventCount
			st.packetIdx++
			st.phase = phasePacketBeginning
			zero := traceir.ClockSnapshot{Class: st.clock, Cycles: 0}
			return []any{message.NewDiscardedEvents(st.stream, zero, zero, count, true)}, status.OK

		case phaseStreamEnd:
			st.phase = phaseDone
			return []any{message.NewStreamEnd(st.stream)}, status.OK

		default:
			return nil, status.End
		}
	}
}

func setPacketSeq(pkt *traceir.Packet, seq uint64) {
	ctxField := pkt.Context()
	if ctxField == nil {
		return
	}
	if member, ok := ctxField.MemberByName("packet_seq"); ok {
		_ = member.SetUnsignedInteger(seq)
	}
}
