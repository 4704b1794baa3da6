package player

import "fmt"

// Queue is the ordered track list of a single session. It is not safe for
// concurrent use on its own: every mutation goes through the owning session's
// serialized command loop, which is the only goroutine touching it.
type Queue struct {
	items []Track
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{items: make([]Track, 0)}
}

// Enqueue appends a track to the end of the queue.
func (q *Queue) Enqueue(t Track) {
	q.items = append(q.items, t)
}

// DequeueNext pops the head of the queue. The second return value is false
// when the queue is empty.
func (q *Queue) DequeueNext() (Track, bool) {
	if len(q.items) == 0 {
		return Track{}, false
	}
	t := q.items[0]
	q.items = q.items[1:]
	return t, true
}

// Remove deletes the entry at the given 1-based position and returns it.
// Positions outside [1, len] return a QueueError and leave the queue as-is.
func (q *Queue) Remove(position int) (Track, error) {
	if position < 1 || position > len(q.items) {
		return Track{}, &QueueError{
			Reason: fmt.Sprintf("position %d is out of range (queue has %d tracks)", position, len(q.items)),
		}
	}
	idx := position - 1
	t := q.items[idx]
	q.items = append(q.items[:idx], q.items[idx+1:]...)
	return t, nil
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.items = q.items[:0]
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.items)
}

// Snapshot returns a copy of the queue in order, safe to hand out for display.
func (q *Queue) Snapshot() []Track {
	out := make([]Track, len(q.items))
	copy(out, q.items)
	return out
}
