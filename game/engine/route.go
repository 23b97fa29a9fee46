package engine

// Route is the FIFO queue of movements an actor still has to execute.
// The head of the queue is the current movement. Retiring the head only
// advances an index; the backing slice is released once the route drains.
//
// Route is not safe for concurrent use.
type Route struct {
	queue []Movement
	head  int
}

// NewRoute creates a route holding a copy of movements.
func NewRoute(movements ...Movement) *Route {
	r := &Route{}
	r.SetRoute(movements)
	return r
}

// RemainingMovementCount returns the number of movements not yet retired,
// including the current one.
func (r *Route) RemainingMovementCount() int {
	return len(r.queue) - r.head
}

// CurrentMovement returns the head of the queue, or false when the route is
// empty. The pointer stays valid until the next SetRoute or
// CompleteCurrentMovement call and lets the driver decrement steps in place.
func (r *Route) CurrentMovement() (*Movement, bool) {
	if r.RemainingMovementCount() == 0 {
		return nil, false
	}
	return &r.queue[r.head], true
}

// SetRoute replaces every queued movement with a copy of movements.
// An empty slice leaves the route empty.
func (r *Route) SetRoute(movements []Movement) {
	r.head = 0
	if len(movements) == 0 {
		r.queue = nil
		return
	}
	r.queue = make([]Movement, len(movements))
	copy(r.queue, movements)
}

// CompleteCurrentMovement retires the head of the queue. It returns
// ErrEmptyRoute when there is nothing to retire.
func (r *Route) CompleteCurrentMovement() error {
	if r.RemainingMovementCount() == 0 {
		return ErrEmptyRoute
	}
	r.queue[r.head] = Movement{}
	r.head++
	if r.head == len(r.queue) {
		r.queue = nil
		r.head = 0
	}
	return nil
}

// Movements returns a copy of the queued movements, current one first.
func (r *Route) Movements() []Movement {
	out := make([]Movement, r.RemainingMovementCount())
	copy(out, r.queue[r.head:])
	return out
}
