package traceir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCyclesToNsFromOriginBasic(t *testing.T) {
	cc := &ClockClass{Frequency: 1_000_000_000}
	ns, err := cc.CyclesToNsFromOrigin(42)
	require.NoError(t, err)
	require.Equal(t, int64(42), ns)
}

func TestCyclesToNsFromOriginFlooredDivision(t *testing.T) {
	cc := &ClockClass{Frequency: 3, OffsetCycles: 0}
	// 1 cycle * 1e9 / 3 = 333333333.33... should floor, not truncate oddly,
	// and stay exact for this well-behaved case.
	ns, err := cc.CyclesToNsFromOrigin(1)
	require.NoError(t, err)
	require.Equal(t, int64(333333333), ns)
}

func TestCyclesToNsFromOriginZeroFrequencyOverflows(t *testing.T) {
	cc := &ClockClass{Frequency: 0}
	_, err := cc.CyclesToNsFromOrigin(1)
	require.Error(t, err)
}

func TestCyclesToNsFromOriginOverflowsInt64(t *testing.T) {
	cc := &ClockClass{Frequency: 1, OffsetSeconds: math.MaxInt64}
	_, err := cc.CyclesToNsFromOrigin(1)
	require.Error(t, err)
}

func TestComparableRequiresSharedClockOrUnixOrigin(t *testing.T) {
	a := &ClockClass{Frequency: 1, OriginIsUnixEpoch: true}
	b := &ClockClass{Frequency: 1, OriginIsUnixEpoch: true}
	require.True(t, Comparable(ClockSnapshot{Class: a}, ClockSnapshot{Class: b}))

	c := &ClockClass{Frequency: 1}
	require.False(t, Comparable(ClockSnapshot{Class: a}, ClockSnapshot{Class: c}))
}

func TestCompareOrdersByNanosecondDistance(t *testing.T) {
	cc := &ClockClass{Frequency: 1_000_000_000}
	cmp, err := Compare(ClockSnapshot{Class: cc, Cycles: 10}, ClockSnapshot{Class: cc, Cycles: 20})
	require.NoError(t, err)
	require.Equal(t, -1, cmp)
}
