package scenic

// Event is a single lifecycle notification drained from the engine's
// centralized queue (spec.md §5/§9). Fields not relevant to Type are
// left zero.
type Event struct {
	Type EventType
	Node *Node

	// OldParent/NewParent are set for EventParentChanged.
	OldParent *Node
	NewParent *Node

	// Child is set for EventChildAdded/EventChildRemoved.
	Child *Node

	// Resource/Dimensions are set for EventLoaded/EventFailed.
	Resource   ResourceKind
	Dimensions TextureDimensions
}

// EventQueue accumulates lifecycle events raised during a traversal and is
// drained once per frame by the engine (spec.md §9's design notes recommend
// a centralized queue over per-node emitter callbacks, which is what the
// teacher's per-node OnPointerDown-style fields do for input; scenic
// carries that same centralization into lifecycle events since nothing in
// this spec needs per-node dispatch overhead paid on every mutation).
//
// A Node holds a pointer to the queue its tree was created against rather
// than importing an engine type, keeping node.go free of a dependency on
// engine.go.
type EventQueue struct {
	pending []Event
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

func (q *EventQueue) push(e Event) {
	if q == nil {
		return
	}
	q.pending = append(q.pending, e)
}

// Drain returns all pending events and clears the queue. Engine.Frame
// calls it once per frame, after rendering and texture eviction.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}
