package traceir

import (
	"fmt"

	"github.com/tracekit/tracekit/internal/object"
)

// LogLevel is an optional severity hint carried by an event class.
type LogLevel int

const (
	LogLevelUnspecified LogLevel = iota
	LogLevelEmergency
	LogLevelAlert
	LogLevelCritical
	LogLevelError
	LogLevelWarning
	LogLevelNotice
	LogLevelInfo
	LogLevelDebug
)

// EventClass is the schema for an event, per spec section 3.
type EventClass struct {
	object.Ref

	ID   int64
	Name string

	specificContext *FieldClass
	payload         *FieldClass

	logLevel    LogLevel
	hasLogLevel bool

	frozen bool
}

// NewEventClass returns an empty, mutable event class with the given
// numeric ID, unique within its stream class.
func NewEventClass(id int64, name string) *EventClass {
	ec := &EventClass{ID: id, Name: name}
	ec.Init(nil, nil)
	return ec
}

// SetSpecificContextFieldClass sets the optional event-specific-context
// field class.
func (ec *EventClass) SetSpecificContextFieldClass(fc *FieldClass) error {
	if ec.frozen {
		return errFrozenEventClass("SetSpecificContextFieldClass")
	}
	if fc != nil {
		fc.Ref.Init(ec, nil)
	}
	ec.specificContext = fc
	return nil
}

// SpecificContextFieldClass returns the event's specific-context field
// class, or nil.
func (ec *EventClass) SpecificContextFieldClass() *FieldClass { return ec.specificContext }

// SetPayloadFieldClass sets the optional event-payload field class.
func (ec *EventClass) SetPayloadFieldClass(fc *FieldClass) error {
	if ec.frozen {
		return errFrozenEventClass("SetPayloadFieldClass")
	}
	if fc != nil {
		fc.Ref.Init(ec, nil)
	}
	ec.payload = fc
	return nil
}

// PayloadFieldClass returns the event's payload field class, or nil.
func (ec *EventClass) PayloadFieldClass() *FieldClass { return ec.payload }

// SetLogLevel records an optional log level for the event class.
func (ec *EventClass) SetLogLevel(level LogLevel) {
	ec.logLevel = level
	ec.hasLogLevel = true
}

// LogLevel returns the event class's log level and whether one was set.
func (ec *EventClass) LogLevel() (LogLevel, bool) { return ec.logLevel, ec.hasLogLevel }

// Frozen reports whether ec has been frozen.
func (ec *EventClass) Frozen() bool { return ec.frozen }

func (ec *EventClass) validate() error {
	if ec.specificContext != nil {
		if err := validateFieldClassTree(ec.specificContext, ScopeEventSpecificContext, nil, nil); err != nil {
			return err
		}
	}
	if ec.payload != nil {
		if err := validateFieldClassTree(ec.payload, ScopeEventPayload, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

func (ec *EventClass) freeze() {
	if ec.frozen {
		return
	}
	if ec.specificContext != nil {
		ec.specificContext.freeze()
	}
	if ec.payload != nil {
		ec.payload.freeze()
	}
	ec.frozen = true
}

func errFrozenEventClass(op string) error {
	return fmt.Errorf("traceir: %s on frozen event class", op)
}
