package traceir

// eventPool is a per-(stream, event class) free list of Event instances,
// per spec 4.3: pools start empty (size 0) and grow lazily; recycled events
// are reset in place rather than reallocated.
type eventPool struct {
	stream *Stream
	class  *EventClass
	free   []*Event
}

func newEventPool(s *Stream, ec *EventClass) *eventPool {
	return &eventPool{stream: s, class: ec}
}

func (p *eventPool) get() *Event {
	if n := len(p.free); n > 0 {
		ev := p.free[n-1]
		p.free = p.free[:n-1]
		return ev
	}
	return newEvent(p.stream, p.class)
}

func (p *eventPool) put(ev *Event) {
	ev.reset()
	p.free = append(p.free, ev)
}
