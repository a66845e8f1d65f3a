package traceir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildEventClass(t *testing.T, id int64) *EventClass {
	t.Helper()
	ec := NewEventClass(id, "ev")
	payload := NewStructureFieldClass()
	require.NoError(t, payload.AppendMember("a", NewIntegerFieldClass(32, true, BaseDecimal)))
	require.NoError(t, ec.SetPayloadFieldClass(payload))
	return ec
}

func TestTraceClassFreezeValidatesAndFreezesWholeTree(t *testing.T) {
	tc := NewTraceClass("trace")
	sc := NewStreamClass(0, "stream")
	require.NoError(t, sc.AddEventClass(buildEventClass(t, 0)))
	require.NoError(t, tc.AddStreamClass(sc))

	require.NoError(t, tc.Freeze())
	require.True(t, tc.Frozen())
	require.True(t, sc.Frozen())
	ec, ok := sc.EventClassByID(0)
	require.True(t, ok)
	require.True(t, ec.Frozen())
}

func TestTraceClassFreezeIsIdempotent(t *testing.T) {
	tc := NewTraceClass("trace")
	require.NoError(t, tc.Freeze())
	require.NoError(t, tc.Freeze())
}

func TestFrozenTraceClassRejectsAddStreamClass(t *testing.T) {
	tc := NewTraceClass("trace")
	require.NoError(t, tc.Freeze())

	err := tc.AddStreamClass(NewStreamClass(0, "late"))
	require.Error(t, err)
	require.Empty(t, tc.StreamClasses())
}

func TestDuplicateStreamClassIDRejected(t *testing.T) {
	tc := NewTraceClass("trace")
	require.NoError(t, tc.AddStreamClass(NewStreamClass(1, "a")))
	err := tc.AddStreamClass(NewStreamClass(1, "b"))
	require.Error(t, err)
}

func TestDynamicArrayLengthPathMustBePrecedingSibling(t *testing.T) {
	lenField := NewIntegerFieldClass(32, false, BaseDecimal)
	arr := NewDynamicArrayFieldClass(NewBoolFieldClass(), FieldPath{Scope: ScopeEventPayload, Indexes: []int{5}})

	payload := NewStructureFieldClass()
	require.NoError(t, payload.AppendMember("len", lenField))
	require.NoError(t, payload.AppendMember("items", arr))

	tc := NewTraceClass("trace")
	sc := NewStreamClass(0, "stream")
	ec := NewEventClass(0, "ev")
	require.NoError(t, ec.SetPayloadFieldClass(payload))
	require.NoError(t, sc.AddEventClass(ec))
	require.NoError(t, tc.AddStreamClass(sc))

	err := tc.Freeze()
	require.Error(t, err, "length path index 5 does not point at the preceding 'len' sibling")
}

func TestDynamicArrayLengthPathResolvesToPrecedingSibling(t *testing.T) {
	payload := NewStructureFieldClass()
	require.NoError(t, payload.AppendMember("len", NewIntegerFieldClass(32, false, BaseDecimal)))

	lenPath, err := ResolveMemberPath(payload, ScopeEventPayload, []string{"len"})
	require.NoError(t, err)

	arr := NewDynamicArrayFieldClass(NewBoolFieldClass(), lenPath)
	require.NoError(t, payload.AppendMember("items", arr))

	tc := NewTraceClass("trace")
	sc := NewStreamClass(0, "stream")
	ec := NewEventClass(0, "ev")
	require.NoError(t, ec.SetPayloadFieldClass(payload))
	require.NoError(t, sc.AddEventClass(ec))
	require.NoError(t, tc.AddStreamClass(sc))

	require.NoError(t, tc.Freeze())
}

func TestFieldClassCycleIsRejected(t *testing.T) {
	st := NewStructureFieldClass()
	// Force a self-referential member without going through AppendMember's
	// normal ownership wiring, to exercise the ancestor-cycle guard.
	st.members = append(st.members, StructureMember{Name: "self", Class: st})

	tc := NewTraceClass("trace")
	sc := NewStreamClass(0, "stream")
	ec := NewEventClass(0, "ev")
	require.NoError(t, ec.SetPayloadFieldClass(st))
	require.NoError(t, sc.AddEventClass(ec))
	require.NoError(t, tc.AddStreamClass(sc))

	err := tc.Freeze()
	require.Error(t, err)
}
