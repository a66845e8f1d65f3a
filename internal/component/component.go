// Package component implements the component class/instance/port model of
// spec section 4.6: a method table per class, components that own ports,
// and the rule that port topology is mutable only before configure.
package component

import (
	"context"

	"github.com/tracekit/tracekit/internal/object"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/errors"
	"github.com/tracekit/tracekit/pkg/status"
)

// Kind discriminates the three component roles.
type Kind int

const (
	KindSource Kind = iota
	KindFilter
	KindSink
)

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindFilter:
		return "filter"
	case KindSink:
		return "sink"
	default:
		return "unknown"
	}
}

// ParseKind parses the inverse of Kind.String, used by config loaders that
// read a component's kind as a plain string.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "source":
		return KindSource, nil
	case "filter":
		return KindFilter, nil
	case "sink":
		return KindSink, nil
	default:
		return 0, errors.NewInvalidParamsError("kind", "unknown component kind "+s)
	}
}

// Direction discriminates a port's data-flow direction.
type Direction int

const (
	DirectionOutput Direction = iota
	DirectionInput
)

// MethodTable is a component class's callback set. Every method is
// optional except as noted in spec 4.6: Consume and GraphIsConfigured are
// required for Kind == KindSink; MessageIteratorNext is required for
// KindSource and KindFilter.
type MethodTable struct {
	Initialize    func(ctx context.Context, c *Component, params value.Value) error
	Finalize      func(ctx context.Context, c *Component)
	Query         func(ctx context.Context, object string, params value.Value) (value.Value, status.Code)
	PortConnected func(ctx context.Context, c *Component, self, other *Port) error

	GraphIsConfigured func(ctx context.Context, c *Component) error
	Consume           func(ctx context.Context, c *Component) status.Code

	MessageIteratorInitialize       func(ctx context.Context, c *Component, port *Port) (IteratorState, error)
	MessageIteratorFinalize         func(ctx context.Context, c *Component, state IteratorState)
	MessageIteratorNext             func(ctx context.Context, c *Component, state IteratorState, capacity int) ([]any, status.Code)
	MessageIteratorSeekBeginning    func(ctx context.Context, c *Component, state IteratorState) error
	MessageIteratorCanSeekBeginning func(c *Component, state IteratorState) bool
}

// IteratorState is component-defined per-iterator user state, opaque to
// the graph engine.
type IteratorState any

// Class is a component class: a kind, a name unique within a plug-in
// registry, and its method table.
type Class struct {
	Kind    Kind
	Name    string
	Methods MethodTable
}

// Validate checks that the class supplies the methods required for its
// kind, per spec 4.6's table.
func (cc *Class) Validate() error {
	switch cc.Kind {
	case KindSink:
		if cc.Methods.Consume == nil {
			return errors.NewInvalidObjectError(cc.Name, "sink component class must implement consume")
		}
		if cc.Methods.GraphIsConfigured == nil {
			return errors.NewInvalidObjectError(cc.Name, "sink component class must implement graph_is_configured")
		}
	case KindSource, KindFilter:
		if cc.Methods.MessageIteratorNext == nil {
			return errors.NewInvalidObjectError(cc.Name, "source/filter component class must implement message_iterator_next")
		}
	}
	return nil
}

// Port is one named connection point of a component.
type Port struct {
	object.Ref

	Name      string
	Direction Direction
	Owner     *Component

	connection *Connection
}

// Connected reports whether the port currently has a live connection.
func (p *Port) Connected() bool { return p.connection != nil }

// Connection returns the port's connection, or nil.
func (p *Port) Connection() *Connection { return p.connection }

// SetConnection wires or clears p's connection. Called only by
// internal/graph during connect_ports and rollback.
func (p *Port) SetConnection(conn *Connection) { p.connection = conn }

// Connection is the graph-level edge between one output port and one
// input port. Declared here (rather than internal/graph) so Port can
// reference it without an import cycle; internal/graph owns construction.
type Connection struct {
	object.Ref

	Output *Port
	Input  *Port
}

// Component is a component instance: a class, a unique name within its
// graph, instantiation params, opaque user state, and its ports.
type Component struct {
	object.Ref

	Class  *Class
	Name   string
	Params value.Value

	UserState any

	inputPorts   []*Port
	outputPorts  []*Port
	portsFrozen  bool
}

// New creates a component instance of cc, invoking Initialize if present.
func New(ctx context.Context, cc *Class, name string, params value.Value) (*Component, error) {
	if err := cc.Validate(); err != nil {
		return nil, err
	}
	c := &Component{Class: cc, Name: name, Params: params}
	c.Init(nil, nil)
	if cc.Methods.Initialize != nil {
		if err := cc.Methods.Initialize(ctx, c, params); err != nil {
			return nil, errors.NewUserError(name, "initialize", err)
		}
	}
	return c, nil
}

// FreezePorts prevents further AddInputPort/AddOutputPort calls, called by
// the graph engine at configure time (spec 4.6: "after the graph is
// configured, port topology is frozen").
func (c *Component) FreezePorts() { c.portsFrozen = true }

// AddInputPort declares a new input port, legal only during Initialize or
// PortConnected (spec 4.6), modeled here as "before FreezePorts is called".
func (c *Component) AddInputPort(name string) (*Port, error) {
	if c.portsFrozen {
		return nil, errors.NewInvalidObjectError(c.Name, "cannot add ports after the graph is configured")
	}
	p := &Port{Name: name, Direction: DirectionInput, Owner: c}
	p.Init(c, nil)
	c.inputPorts = append(c.inputPorts, p)
	return p, nil
}

// AddOutputPort declares a new output port, subject to the same timing
// restriction as AddInputPort.
func (c *Component) AddOutputPort(name string) (*Port, error) {
	if c.portsFrozen {
		return nil, errors.NewInvalidObjectError(c.Name, "cannot add ports after the graph is configured")
	}
	p := &Port{Name: name, Direction: DirectionOutput, Owner: c}
	p.Init(c, nil)
	c.outputPorts = append(c.outputPorts, p)
	return p, nil
}

// InputPorts returns the component's input ports in declaration order.
func (c *Component) InputPorts() []*Port { return c.inputPorts }

// OutputPorts returns the component's output ports in declaration order.
func (c *Component) OutputPorts() []*Port { return c.outputPorts }

// Finalize invokes the class's Finalize method, if any, releasing user
// state. The graph engine calls it for a sink when that sink's consume
// returns End; it does not call it for sources or filters.
func (c *Component) Finalize(ctx context.Context) {
	if c.Class.Methods.Finalize != nil {
		c.Class.Methods.Finalize(ctx, c)
	}
}
