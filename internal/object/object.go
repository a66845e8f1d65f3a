// Package object implements the reference-counted, parent/child ownership
// model described in spec section 4.1. It is not arbitrary reference
// counting: it is a forest of trees with shared-subtree semantics, letting
// children be reached through a live parent without an independent count
// bump while nobody holds them externally.
package object

// Destroyer is implemented by objects that must run cleanup when their
// strong refcount reaches zero at the root of their ownership tree (i.e.
// they have no parent; an object with a parent releases the parent instead
// and never runs its own destroyer).
type Destroyer interface {
	OnZeroRefs()
}

// Parent is implemented by anything that can be acquired/released as the
// owner of a Ref. A schema object's field classes, a stream's packets, and
// a trace's streams all reach their owner through this interface.
type Parent interface {
	Acquire()
	Release()
}

// Ref is embedded in every shared entity of the graph (trace/stream/event
// classes and instances, components, ports, connections, message
// iterators, messages). It carries a strong count and an optional parent.
//
// Contract (spec 4.1):
//   - Acquire: if count == 0 and parent != nil, first acquire parent, then
//     increment count.
//   - Release: decrement count; if it reaches 0 and parent != nil, release
//     parent. When a root object's (parent == nil) count reaches zero, its
//     destructor runs.
type Ref struct {
	count    int
	parent   Parent
	destroy  Destroyer
}

// Init must be called once, right after construction, before Acquire or
// Release is used. owner is nil for root objects (graphs, standalone
// schemas); destroyer is nil when the embedding type has no cleanup to run.
func (r *Ref) Init(owner Parent, destroyer Destroyer) {
	r.parent = owner
	r.destroy = destroyer
	r.count = 0
}

// Count returns the current strong refcount, chiefly for tests and
// diagnostics.
func (r *Ref) Count() int {
	return r.count
}

// Acquire implements the two-level lazy-resurrection rule: while the count
// is zero, the object is alive only because its parent is reachable, so
// acquiring it must first acquire the parent to keep the whole path alive.
func (r *Ref) Acquire() {
	if r.count == 0 && r.parent != nil {
		r.parent.Acquire()
	}
	r.count++
}

// Release decrements the count; at zero, it releases the parent (if any)
// or, for a root object, runs the destructor.
func (r *Ref) Release() {
	if r.count == 0 {
		// Debug builds assert this never happens (original_source's
		// BT_ASSERT_PRE); production builds tolerate a caller that over-released
		// because the engine never hands out more references than it created.
		assertNotUnderflow()
		return
	}
	r.count--
	if r.count != 0 {
		return
	}
	if r.parent != nil {
		r.parent.Release()
		return
	}
	if r.destroy != nil {
		r.destroy.OnZeroRefs()
	}
}

// Live reports whether the object's own strong count is above zero. A
// child reached only through a live parent, with a count of zero, reports
// false.
func (r *Ref) Live() bool {
	return r.count > 0
}
