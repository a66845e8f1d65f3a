// Package componenttest provides a minimal, in-memory source/filter/sink
// trio used to exercise the graph engine and message-iterator protocol
// end-to-end, the way the teacher's contract_test.go runs one shared suite
// against every plug-in implementation.
package componenttest

import (
	"context"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/message"
	"github.com/tracekit/tracekit/internal/traceir"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/status"
)

// MemorySourceSpec configures a synthetic stream: one event per entry of
// Cycles, each carrying a default clock snapshot at that cycle count.
type MemorySourceSpec struct {
	StreamID  uint64
	Frequency uint64
	Cycles    []uint64
}

type memorySourceState struct {
	stream *traceir.Stream
	ec     *traceir.EventClass
	clock  *traceir.ClockClass

	cycles []uint64
	pos    int
	phase  int // 0: emit StreamBeginning, 1..len(cycles): events, len+1: StreamEnd, len+2: done
}

// NewMemorySourceClass returns a source component class emitting
// StreamBeginning, one Event per spec.Cycles (in order), then StreamEnd,
// then ending. message_iterator_next emits at most one message per call so
// tests can exercise exact call counts (spec.md §8 scenario 1).
func NewMemorySourceClass(name string, spec MemorySourceSpec) *component.Class {
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
				ec := traceir.NewEventClass(0, "tick")
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

				cycles := make([]uint64, len(spec.Cycles))
				copy(cycles, spec.Cycles)
				return &memorySourceState{stream: stream, ec: ec, clock: cc, cycles: cycles}, nil
			},
			MessageIteratorNext: func(ctx context.Context, c *component.Component, raw component.IteratorState, capacity int) ([]any, status.Code) {
				st := raw.(*memorySourceState)
				if capacity == 0 {
					return nil, status.OK
				}
				switch {
				case st.phase == 0:
					st.phase = 1
					return []any{message.NewStreamBeginning(st.stream)}, status.OK
				case st.phase >= 1 && st.phase <= len(st.cycles):
					idx := st.phase - 1
					cycle := st.cycles[idx]
					st.phase++
					ev := st.stream.CreateEvent(st.ec)
					snapshot := traceir.ClockSnapshot{Class: st.clock, Cycles: cycle}
					m, err := message.NewEvent(ev, nil, snapshot, true)
					if err != nil {
						return nil, status.Error
					}
					return []any{m}, status.OK
				case st.phase == len(st.cycles)+1:
					st.phase++
					return []any{message.NewStreamEnd(st.stream)}, status.OK
				default:
					return nil, status.End
				}
			},
		},
	}
}

// NewOneShotValueSourceClass returns a minimal source-kind class with no
// ports, used only to exercise component.New/AddComponent wiring in tests
// that don't need real message flow.
func NewOneShotValueSourceClass(name string) *component.Class {
	return &component.Class{
		Kind: component.KindSource,
		Name: name,
		Methods: component.MethodTable{
			MessageIteratorNext: func(ctx context.Context, c *component.Component, s component.IteratorState, capacity int) ([]any, status.Code) {
				return nil, status.End
			},
			Query: func(ctx context.Context, object string, params value.Value) (value.Value, status.Code) {
				return value.String(name), status.OK
			},
		},
	}
}
