// Package status defines the uniform status codes used at every boundary of
// the core runtime, per the wire/binding-compatible numeric values.
package status

// Code is a uniform status returned from message-iterator, component-method,
// query, and graph-level calls. The numeric values are preserved for
// wire/binding compatibility and must never be renumbered.
type Code int

const (
	OK             Code = 0
	End            Code = 1
	NotFound       Code = 2
	Interrupted    Code = 4
	NoMatch        Code = 6
	Again          Code = 11
	UnknownObject  Code = 42
	Overflow       Code = -75
	Memory         Code = -12
	User           Code = -2
	Error          Code = -1
)

// String renders a human-readable status name, used in log fields and error
// messages.
func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case End:
		return "END"
	case NotFound:
		return "NOT_FOUND"
	case Interrupted:
		return "INTERRUPTED"
	case NoMatch:
		return "NO_MATCH"
	case Again:
		return "AGAIN"
	case UnknownObject:
		return "UNKNOWN_OBJECT"
	case Overflow:
		return "OVERFLOW_ERROR"
	case Memory:
		return "MEMORY_ERROR"
	case User:
		return "USER_ERROR"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN_STATUS"
	}
}

// IsError reports whether c represents a failure rather than a terminal
// success (End) or backpressure (Again) signal.
func (c Code) IsError() bool {
	switch c {
	case OK, End, Again:
		return false
	default:
		return true
	}
}
