// Implements the EventQueue, which holds every pending allocation and release.

package sim

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// EventQueue is a time-ordered queue of pending events.
//
// Ordering is ascending by timestamp with a deliberate tie-break: an event
// whose time is less than or equal to the current head becomes the new head,
// so equal timestamps at the front are served last-in-first-out. Anywhere
// else the event goes immediately before the first event with a strictly
// greater time, so equal timestamps further back are served first-in-first-out.
type EventQueue struct {
	events []Event
}

// NewEventQueue returns an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{events: make([]Event, 0)}
}

// Enqueue inserts ev according to the ordering rule above.
func (q *EventQueue) Enqueue(ev Event) {
	if ev == nil {
		panic("Enqueue: ev must not be nil")
	}
	if len(q.events) == 0 || ev.Timestamp() <= q.events[0].Timestamp() {
		q.events = slices.Insert(q.events, 0, ev)
		return
	}
	i := 1
	for i < len(q.events) && q.events[i].Timestamp() <= ev.Timestamp() {
		i++
	}
	q.events = slices.Insert(q.events, i, ev)
}

// DequeueEarliest removes and returns the head of the queue.
// Returns nil if the queue is empty.
func (q *EventQueue) DequeueEarliest() Event {
	if len(q.events) == 0 {
		return nil
	}
	ev := q.events[0]
	q.events[0] = nil
	q.events = q.events[1:]
	return ev
}

// Peek returns the head of the queue without removing it.
// Returns nil if the queue is empty.
func (q *EventQueue) Peek() Event {
	if len(q.events) == 0 {
		return nil
	}
	return q.events[0]
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

func (q *EventQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, ev := range q.events {
		sb.WriteString(fmt.Sprintf("%T@%d", ev, ev.Timestamp()))
		if i < len(q.events)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
