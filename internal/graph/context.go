package graph

import "context"

type graphContextKey struct{}

// withGraph attaches g to ctx so a component method invoked by g can create
// iterators over its own ports (graph.FromContext) without the method
// tables needing a *Graph parameter of their own.
func withGraph(ctx context.Context, g *Graph) context.Context {
	return context.WithValue(ctx, graphContextKey{}, g)
}

// FromContext retrieves the Graph driving the current component-method
// call, if any. Component implementations use this to call CreateIterator
// on their own ports from inside Consume or MessageIteratorInitialize.
func FromContext(ctx context.Context) (*Graph, bool) {
	g, ok := ctx.Value(graphContextKey{}).(*Graph)
	return g, ok
}
