package graph

import (
	"context"
	"sync/atomic"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/ports"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/errors"
	"github.com/tracekit/tracekit/pkg/errstack"
	"github.com/tracekit/tracekit/pkg/status"
)

// Graph assembles components and connections, then schedules sink
// consumption, per spec 4.8. A Graph is single-threaded per the
// concurrency model: every call from the owner must be serialized.
type Graph struct {
	logger ports.Logger

	components []*component.Component
	byName     map[string]*component.Component
	connections []*component.Connection

	sinkQueue []*component.Component

	configured bool
	canceled   atomic.Bool
}

// New returns an empty graph.
func New(logger ports.Logger) *Graph {
	if logger == nil {
		panic("graph: New requires a non-nil logger")
	}
	return &Graph{logger: logger, byName: make(map[string]*component.Component)}
}

// AddComponent instantiates cc as a named component and adds it to the
// graph. Rejected once the graph is configured (spec's I-Config).
func (g *Graph) AddComponent(ctx context.Context, cc *component.Class, name string, params value.Value) (*component.Component, error) {
	if g.configured {
		return nil, errors.NewInvalidObjectError(name, "add_component after configure")
	}
	if _, exists := g.byName[name]; exists {
		return nil, errors.NewInvalidObjectError(name, "duplicate component name")
	}
	c, err := component.New(withGraph(ctx, g), cc, name, params)
	if err != nil {
		errstack.Append(ctx, name, "component initialize failed")
		return nil, err
	}
	g.components = append(g.components, c)
	g.byName[name] = c
	if cc.Kind == component.KindSink {
		g.sinkQueue = append(g.sinkQueue, c)
	}
	g.logger.Debug(ctx, "component added", "component", name, "kind", cc.Kind.String())
	return c, nil
}

// ConnectPorts connects output to input, per spec 4.8's assembly-phase
// rules: I-Port-Uniq (neither port already connected), I-Graph-Bipartite
// (output -> input only), I-Graph-Same (both ports belong to components of
// this graph). port_connected is invoked upstream-first, then downstream;
// either side may refuse, which rolls the connection back.
func (g *Graph) ConnectPorts(ctx context.Context, output, input *component.Port) (*component.Connection, error) {
	if g.configured {
		return nil, errors.NewInvalidObjectError("connect_ports", "connect_ports after configure")
	}
	if output.Direction != component.DirectionOutput || input.Direction != component.DirectionInput {
		return nil, errors.NewInvalidObjectError("connect_ports", "not bipartite: expected an output port and an input port")
	}
	if output.Connected() || input.Connected() {
		return nil, errors.NewInvalidObjectError("connect_ports", "port already connected")
	}
	if !g.owns(output.Owner) || !g.owns(input.Owner) {
		return nil, errors.NewInvalidObjectError("connect_ports", "port belongs to a component outside this graph")
	}

	conn := &component.Connection{Output: output, Input: input}
	conn.Init(nil, nil)

	output.SetConnection(conn)
	if err := g.notifyPortConnected(ctx, output, input); err != nil {
		output.SetConnection(nil)
		return nil, err
	}
	input.SetConnection(conn)
	if err := g.notifyPortConnected(ctx, input, output); err != nil {
		output.SetConnection(nil)
		input.SetConnection(nil)
		return nil, err
	}

	g.connections = append(g.connections, conn)
	g.logger.Debug(ctx, "ports connected", "output", output.Owner.Name+"."+output.Name, "input", input.Owner.Name+"."+input.Name)
	return conn, nil
}

func (g *Graph) owns(c *component.Component) bool {
	owned, ok := g.byName[c.Name]
	return ok && owned == c
}

func (g *Graph) notifyPortConnected(ctx context.Context, self, other *component.Port) error {
	fn := self.Owner.Class.Methods.PortConnected
	if fn == nil {
		return nil
	}
	if err := fn(withGraph(ctx, g), self.Owner, self, other); err != nil {
		errstack.Append(ctx, self.Owner.Name, "port_connected refused the connection")
		return errors.NewUserError(self.Owner.Name, "port_connected", err)
	}
	return nil
}

// Configure freezes port topology and invokes graph_is_configured on every
// sink in declaration order, per spec 4.8. Idempotent: a second call is a
// no-op. Schema freezing (trace classes reachable from components) is each
// component's own responsibility at first-instantiation time, per
// internal/traceir's freeze-on-first-use rule; the graph only enforces the
// port-topology and sink-readiness half of the configure transition.
func (g *Graph) Configure(ctx context.Context) error {
	if g.configured {
		return nil
	}
	for _, c := range g.components {
		c.FreezePorts()
	}
	for _, c := range g.sinkQueue {
		if fn := c.Class.Methods.GraphIsConfigured; fn != nil {
			if err := fn(withGraph(ctx, g), c); err != nil {
				errstack.Append(ctx, c.Name, "graph_is_configured failed")
				return errors.NewUserError(c.Name, "graph_is_configured", err)
			}
		}
	}
	g.configured = true
	return nil
}

// Cancel requests cooperative cancellation, observed by the scheduler
// between sinks and exposed to components via IsCanceled.
func (g *Graph) Cancel() { g.canceled.Store(true) }

// IsCanceled reports whether Cancel has been called.
func (g *Graph) IsCanceled() bool { return g.canceled.Load() }

// Run drains progress until every sink has ended (graph status End),
// cancellation fires (Interrupted), a full round makes no progress
// (status Again), or a sink errors (status Error). The erroring sink is
// dropped from the queue; the graph is not otherwise marked, so a later Run
// or RunOnce keeps scheduling the remaining sinks.
func (g *Graph) Run(ctx context.Context) status.Code {
	if err := g.Configure(ctx); err != nil {
		return status.Error
	}
	for {
		if len(g.sinkQueue) == 0 {
			return status.End
		}
		if g.IsCanceled() {
			return status.Interrupted
		}
		progressed, code := g.runRound(ctx)
		if code == status.Error {
			return status.Error
		}
		if code == status.Interrupted {
			return status.Interrupted
		}
		if len(g.sinkQueue) == 0 {
			return status.End
		}
		if !progressed {
			return status.Again
		}
	}
}

// RunOnce executes exactly one head-sink consume and returns.
func (g *Graph) RunOnce(ctx context.Context) status.Code {
	if err := g.Configure(ctx); err != nil {
		return status.Error
	}
	if len(g.sinkQueue) == 0 {
		return status.End
	}
	if g.IsCanceled() {
		return status.Interrupted
	}
	return g.consumeHead(ctx)
}

// runRound pops and consumes every sink currently in the queue exactly
// once (one full FIFO round), reporting whether any sink made progress
// (returned OK, as opposed to Again/End).
func (g *Graph) runRound(ctx context.Context) (progressed bool, code status.Code) {
	n := len(g.sinkQueue)
	for i := 0; i < n; i++ {
		if g.IsCanceled() {
			return progressed, status.Interrupted
		}
		if len(g.sinkQueue) == 0 {
			break
		}
		c := g.sinkQueue[0]
		g.sinkQueue = g.sinkQueue[1:]

		result := c.Class.Methods.Consume(withGraph(ctx, g), c)
		switch result {
		case status.OK:
			progressed = true
			g.sinkQueue = append(g.sinkQueue, c)
		case status.Again:
			// No forward progress from this sink this round, but the
			// scheduler's own open question decision (see DESIGN.md):
			// retried at the next scheduler round, not immediately.
			g.sinkQueue = append(g.sinkQueue, c)
		case status.End:
			c.Finalize(ctx)
			g.logger.Info(ctx, "sink ended", "component", c.Name)
		default:
			errstack.Append(ctx, c.Name, "consume returned an error status")
			return progressed, status.Error
		}
	}
	return progressed, status.OK
}

func (g *Graph) consumeHead(ctx context.Context) status.Code {
	c := g.sinkQueue[0]
	g.sinkQueue = g.sinkQueue[1:]
	result := c.Class.Methods.Consume(withGraph(ctx, g), c)
	switch result {
	case status.OK:
		g.sinkQueue = append(g.sinkQueue, c)
		return status.OK
	case status.Again:
		g.sinkQueue = append(g.sinkQueue, c)
		return status.Again
	case status.End:
		c.Finalize(ctx)
		if len(g.sinkQueue) == 0 {
			return status.End
		}
		return status.OK
	default:
		errstack.Append(ctx, c.Name, "consume returned an error status")
		return status.Error
	}
}

// CreateIterator creates a NonInitialized message iterator over port's
// connection, for use by a filter or sink component pulling from an
// upstream output port at message_iterator_initialize / consume time.
func (g *Graph) CreateIterator(port *component.Port) *MessageIterator {
	return newMessageIterator(g, port)
}

// ComponentByName looks up a component instance by its unique name.
func (g *Graph) ComponentByName(name string) (*component.Component, bool) {
	c, ok := g.byName[name]
	return c, ok
}
