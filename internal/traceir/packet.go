package traceir

import (
	"fmt"

	"github.com/tracekit/tracekit/internal/object"
)

var errPacketlessStreamClass = fmt.Errorf("traceir: stream class does not use packets")

// Packet is a packet instance on a stream, per spec section 3: an optional
// context field matching the stream class's packet-context field class,
// and a monotonically increasing sequence number within the stream.
type Packet struct {
	object.Ref

	Stream *Stream
	Seq    uint64

	context *Field
}

func newPacket(s *Stream, seq uint64) *Packet {
	p := &Packet{Stream: s, Seq: seq}
	if fc := s.Class.PacketContextFieldClass(); fc != nil {
		p.context = CreateField(fc)
	}
	return p
}

// Context returns the packet's context field, or nil if the stream class
// has no packet-context field class.
func (p *Packet) Context() *Field { return p.context }

// Freeze marks the packet's context field read-only, called when the
// packet is attached to a PacketBeginning message.
func (p *Packet) Freeze() {
	if p.context != nil {
		p.context.Freeze()
	}
}
