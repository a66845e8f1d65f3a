// Package dashboardsink implements a sink component that renders a graph's
// live scheduler progress as a terminal UI, the way the teacher's
// internal/tui/dashboard renders pipeline status: a bubbletea Model fed by
// messages arriving on a channel, redrawn on a ticker.
package dashboardsink

import (
	"sync"

	"github.com/tracekit/tracekit/pkg/status"
)

// Stats accumulates per-kind message counts and consume outcomes for a
// single sink instance. Updated from Consume (the graph goroutine), read
// from the bubbletea program goroutine via Snapshot, so every access is
// guarded by mu.
type Stats struct {
	mu sync.Mutex

	messagesByKind map[string]int64
	totalMessages  int64

	again       int64
	errors      int64
	ended       bool
	consumeCnt  int64
}

func newStats() *Stats {
	return &Stats{messagesByKind: make(map[string]int64)}
}

// RecordStatus tallies a single Consume outcome.
func (s *Stats) RecordStatus(code status.Code) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumeCnt++
	switch code {
	case status.Again:
		s.again++
	case status.End:
		s.ended = true
	default:
		if code.IsError() {
			s.errors++
		}
	}
}

// RecordKind tallies one delivered message of the given kind.
func (s *Stats) RecordKind(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalMessages++
	s.messagesByKind[kind]++
}

// Snapshot is an immutable copy of Stats suitable for passing across
// goroutines in a bubbletea message.
type Snapshot struct {
	MessagesByKind map[string]int64
	TotalMessages  int64
	Again          int64
	Errors         int64
	Ended          bool
	ConsumeCalls   int64
}

// Snapshot copies the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	byKind := make(map[string]int64, len(s.messagesByKind))
	for k, v := range s.messagesByKind {
		byKind[k] = v
	}
	return Snapshot{
		MessagesByKind: byKind,
		TotalMessages:  s.totalMessages,
		Again:          s.again,
		Errors:         s.errors,
		Ended:          s.ended,
		ConsumeCalls:   s.consumeCnt,
	}
}
