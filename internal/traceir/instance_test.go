package traceir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSimpleTraceClass(t *testing.T, usesPackets bool) (*TraceClass, *StreamClass, *EventClass) {
	t.Helper()
	tc := NewTraceClass("trace")
	sc := NewStreamClass(0, "stream")
	if usesPackets {
		ctx := NewStructureFieldClass()
		require.NoError(t, ctx.AppendMember("size", NewIntegerFieldClass(32, false, BaseDecimal)))
		require.NoError(t, sc.SetPacketContextFieldClass(ctx))
	}
	ec := NewEventClass(0, "ev")
	payload := NewStructureFieldClass()
	require.NoError(t, payload.AppendMember("v", NewIntegerFieldClass(32, true, BaseDecimal)))
	require.NoError(t, ec.SetPayloadFieldClass(payload))
	require.NoError(t, sc.AddEventClass(ec))
	require.NoError(t, tc.AddStreamClass(sc))
	return tc, sc, ec
}

func TestNewTraceFreezesClassAndCreatesStream(t *testing.T) {
	tc, sc, _ := buildSimpleTraceClass(t, false)
	tr, err := NewTrace(tc)
	require.NoError(t, err)
	require.True(t, tc.Frozen())

	s, err := tr.CreateStream(sc, 0)
	require.NoError(t, err)
	require.Same(t, tc, tr.Class)
	got, ok := tr.StreamByID(0)
	require.True(t, ok)
	require.Same(t, s, got)
}

func TestCreateStreamRejectsDuplicateID(t *testing.T) {
	tc, sc, _ := buildSimpleTraceClass(t, false)
	tr, err := NewTrace(tc)
	require.NoError(t, err)

	_, err = tr.CreateStream(sc, 1)
	require.NoError(t, err)
	_, err = tr.CreateStream(sc, 1)
	require.Error(t, err)
}

func TestCreatePacketRejectedWhenStreamClassHasNoPacketContext(t *testing.T) {
	tc, sc, _ := buildSimpleTraceClass(t, false)
	tr, err := NewTrace(tc)
	require.NoError(t, err)
	s, err := tr.CreateStream(sc, 0)
	require.NoError(t, err)

	_, err = s.CreatePacket()
	require.Error(t, err)
}

func TestCreatePacketAssignsIncreasingSequence(t *testing.T) {
	tc, sc, _ := buildSimpleTraceClass(t, true)
	tr, err := NewTrace(tc)
	require.NoError(t, err)
	s, err := tr.CreateStream(sc, 0)
	require.NoError(t, err)

	p0, err := s.CreatePacket()
	require.NoError(t, err)
	p1, err := s.CreatePacket()
	require.NoError(t, err)
	require.Equal(t, uint64(0), p0.Seq)
	require.Equal(t, uint64(1), p1.Seq)

	require.NoError(t, p0.Context().MemberByIndex(0).SetUnsignedInteger(100))
}

func TestCreateEventRecyclesFromPool(t *testing.T) {
	tc, sc, ec := buildSimpleTraceClass(t, false)
	tr, err := NewTrace(tc)
	require.NoError(t, err)
	s, err := tr.CreateStream(sc, 0)
	require.NoError(t, err)

	ev1 := s.CreateEvent(ec)
	vField, ok := ev1.Payload().MemberByName("v")
	require.True(t, ok)
	require.NoError(t, vField.SetSignedInteger(42))
	ev1.Freeze()
	ev1.Recycle()

	ev2 := s.CreateEvent(ec)
	require.Same(t, ev1, ev2, "recycled event must be reused, not reallocated")
	v2, _ := ev2.Payload().MemberByName("v")
	require.True(t, v2.Mutable(), "recycled event fields must be reset to mutable")
	require.Equal(t, int64(0), v2.SignedInteger(), "recycled event fields must be zeroed")
}
