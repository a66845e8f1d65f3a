package message

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tracekit/tracekit/internal/traceir"
)

func buildStream(t *testing.T, withDefaultClock bool) (*traceir.Stream, *traceir.EventClass) {
	t.Helper()
	tc := traceir.NewTraceClass("t")
	sc := traceir.NewStreamClass(0, "s")
	if withDefaultClock {
		require.NoError(t, sc.SetDefaultClockClass(&traceir.ClockClass{Frequency: 1}))
	}
	ec := traceir.NewEventClass(0, "ev")
	require.NoError(t, sc.AddEventClass(ec))
	require.NoError(t, tc.AddStreamClass(sc))

	tr, err := traceir.NewTrace(tc)
	require.NoError(t, err)
	s, err := tr.CreateStream(sc, 0)
	require.NoError(t, err)
	return s, ec
}

func TestNewEventRequiresClockWhenStreamDeclaresDefaultClockClass(t *testing.T) {
	s, ec := buildStream(t, true)
	ev := s.CreateEvent(ec)

	_, err := NewEvent(ev, nil, traceir.ClockSnapshot{}, false)
	require.Error(t, err)

	cc := s.Class.DefaultClockClass()
	m, err := NewEvent(ev, nil, traceir.ClockSnapshot{Class: cc, Cycles: 1}, true)
	require.NoError(t, err)
	require.Equal(t, KindEvent, m.Kind())
}

func TestNewEventWithoutDefaultClockClassDoesNotRequireSnapshot(t *testing.T) {
	s, ec := buildStream(t, false)
	ev := s.CreateEvent(ec)

	m, err := NewEvent(ev, nil, traceir.ClockSnapshot{}, false)
	require.NoError(t, err)
	_, has := m.DefaultClockSnapshot()
	require.False(t, has)
}

func TestStreamBeginningCarriesStream(t *testing.T) {
	s, _ := buildStream(t, false)
	m := NewStreamBeginning(s)
	require.Equal(t, KindStreamBeginning, m.Kind())
	require.Same(t, s, m.Stream())
}

func TestDiscardedEventsCarriesRangeAndCount(t *testing.T) {
	s, _ := buildStream(t, false)
	cc := &traceir.ClockClass{Frequency: 1}
	begin := traceir.ClockSnapshot{Class: cc, Cycles: 0}
	end := traceir.ClockSnapshot{Class: cc, Cycles: 10}
	m := NewDiscardedEvents(s, begin, end, 3, true)

	gotBegin, gotEnd, ok := m.ClockRange()
	require.True(t, ok)
	require.Equal(t, begin, gotBegin)
	require.Equal(t, end, gotEnd)
	count, hasCount := m.DiscardedCount()
	require.True(t, hasCount)
	require.Equal(t, uint64(3), count)
}

func TestPoolRecyclesReleasedMessage(t *testing.T) {
	s, _ := buildStream(t, false)
	pool := NewPool()

	m := NewStreamBeginning(s)
	pool.Attach(m)
	require.Equal(t, 1, m.Count())
	m.Release()

	require.NotNil(t, pool.acquire(KindStreamBeginning))
}
