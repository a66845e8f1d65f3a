package traceir

import (
	"math/big"

	"github.com/google/uuid"
	tkerrors "github.com/tracekit/tracekit/pkg/errors"
)

// ClockClass describes a trace's notion of time: frequency in cycles per
// second, an offset expressed as whole seconds plus subsecond cycles, an
// optional UUID, and whether cycle zero is the Unix epoch.
type ClockClass struct {
	Name            string
	Frequency       uint64
	OffsetSeconds   int64
	OffsetCycles    int64
	UUID            uuid.UUID
	HasUUID         bool
	OriginIsUnixEpoch bool
}

// ClockSnapshot is (clock_class, cycles), per spec section 3.
type ClockSnapshot struct {
	Class  *ClockClass
	Cycles uint64
}

// CyclesToNsFromOrigin converts a raw cycle count to nanoseconds from the
// clock class's origin, per spec section 4.5:
//
//	total_cycles = cycles + offset_cycles          (128-bit signed)
//	ns = offset_seconds*1e9 + (total_cycles*1e9)/freq   (truncated toward -inf)
//
// using 128-bit intermediates (math/big here, standing in for the spec's
// "128-bit signed" requirement since Go has no native int128) and failing
// with an OverflowError if the final result does not fit in an int64.
func (c *ClockClass) CyclesToNsFromOrigin(cycles uint64) (int64, error) {
	freq := big.NewInt(0).SetUint64(c.Frequency)
	if freq.Sign() == 0 {
		return 0, tkerrors.NewOverflowError("cycles_to_ns_from_origin", errDivideByZeroFrequency)
	}

	totalCycles := big.NewInt(0).SetUint64(cycles)
	totalCycles.Add(totalCycles, big.NewInt(c.OffsetCycles))

	billion := big.NewInt(1_000_000_000)

	scaled := big.NewInt(0).Mul(totalCycles, billion)

	// Truncating division toward negative infinity (floored division),
	// matching spec's explicit truncation rule rather than Go's
	// truncate-toward-zero big.Int.Quo.
	quotient, remainder := big.NewInt(0), big.NewInt(0)
	quotient.QuoRem(scaled, freq, remainder)
	if remainder.Sign() != 0 && (remainder.Sign() < 0) != (freq.Sign() < 0) {
		quotient.Sub(quotient, big.NewInt(1))
	}

	offsetNs := big.NewInt(0).Mul(big.NewInt(c.OffsetSeconds), billion)
	result := big.NewInt(0).Add(offsetNs, quotient)

	if !result.IsInt64() {
		return 0, tkerrors.NewOverflowError("cycles_to_ns_from_origin", errResultOverflowsInt64)
	}
	return result.Int64(), nil
}

// Comparable reports whether two clock snapshots can be ordered: they must
// share a clock class, or both clock classes must have OriginIsUnixEpoch
// set, per spec section 4.5.
func Comparable(a, b ClockSnapshot) bool {
	if a.Class == b.Class {
		return true
	}
	return a.Class != nil && b.Class != nil && a.Class.OriginIsUnixEpoch && b.Class.OriginIsUnixEpoch
}

// Compare orders two comparable clock snapshots by their nanosecond
// distance from origin. Callers must check Comparable first; Compare
// panics otherwise since comparing snapshots from unrelated clocks is a
// programming error, not a runtime condition.
func Compare(a, b ClockSnapshot) (int, error) {
	if !Comparable(a, b) {
		panic("traceir: Compare called on non-comparable clock snapshots")
	}
	an, err := a.Class.CyclesToNsFromOrigin(a.Cycles)
	if err != nil {
		return 0, err
	}
	bn, err := b.Class.CyclesToNsFromOrigin(b.Cycles)
	if err != nil {
		return 0, err
	}
	switch {
	case an < bn:
		return -1, nil
	case an > bn:
		return 1, nil
	default:
		return 0, nil
	}
}

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const (
	errDivideByZeroFrequency = sentinelError("clock class frequency is zero")
	errResultOverflowsInt64  = sentinelError("nanoseconds-from-origin result overflows int64")
)
