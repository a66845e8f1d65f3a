// Package errstack implements the per-run, append-only error stack described
// in spec section 7: a chain of {component_or_plugin_name, file, line,
// message} records attachable by any layer and readable by the owner after a
// failing call. The reference implementation makes this thread-local; since
// Go has no ambient thread-local storage and the core is single-threaded per
// graph, this package scopes the stack to a context.Context value instead,
// carried the same way a correlation ID is (see internal/ports).
package errstack

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// Record is one cause appended to the stack by a layer that observed a
// failure from a deeper layer.
type Record struct {
	Component string
	File      string
	Line      int
	Message   string
}

func (r Record) String() string {
	if r.Component != "" {
		return fmt.Sprintf("%s:%d [%s] %s", r.File, r.Line, r.Component, r.Message)
	}
	return fmt.Sprintf("%s:%d %s", r.File, r.Line, r.Message)
}

type stack struct {
	mu      sync.Mutex
	records []Record
}

type stackKey struct{}

// NewContext returns a context carrying a fresh, empty error stack. Call
// this once per Graph.Run / Graph.RunOnce invocation.
func NewContext(parent context.Context) context.Context {
	return context.WithValue(parent, stackKey{}, &stack{})
}

func stackFrom(ctx context.Context) *stack {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(stackKey{}).(*stack)
	return s
}

// Append pushes a cause onto ctx's error stack, recording the caller's file
// and line via runtime.Caller. If ctx carries no stack (NewContext was never
// called), Append is a no-op: the caller still has its own returned error.
func Append(ctx context.Context, component, message string) {
	s := stackFrom(ctx)
	if s == nil {
		return
	}
	_, file, line, _ := runtime.Caller(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, Record{Component: component, File: file, Line: line, Message: message})
}

// Drain returns a snapshot of every record appended so far, oldest first,
// without clearing the stack.
func Drain(ctx context.Context) []Record {
	s := stackFrom(ctx)
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Clear empties ctx's error stack. Called by the owner on explicit release,
// e.g. after reading and logging a failing call's causes.
func Clear(ctx context.Context) {
	s := stackFrom(ctx)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
}
