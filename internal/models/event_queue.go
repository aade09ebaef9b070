package models

import (
	"container/heap"
)

// Event is something that happened during a tick and still has to be emitted.
type Event struct {
	Time int // simulated second
	Seq  uint64
	Type string
	Data interface{}
}

// EventQueue is a priority queue of events ordered by time, then by the order
// in which they were enqueued.
type EventQueue struct {
	events  []*Event
	nextSeq uint64
}

// eventHeap implements heap.Interface and holds Events
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].Seq < h[j].Seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// NewEventQueue creates a new EventQueue
func NewEventQueue() *EventQueue {
	return &EventQueue{events: make([]*Event, 0)}
}

// Enqueue adds an event to the queue and assigns its sequence number.
func (eq *EventQueue) Enqueue(event *Event) {
	event.Seq = eq.nextSeq
	eq.nextSeq++
	heap.Push((*eventHeap)(&eq.events), event)
}

// Dequeue removes and returns the earliest event from the queue
func (eq *EventQueue) Dequeue() *Event {
	if len(eq.events) == 0 {
		return nil
	}
	return heap.Pop((*eventHeap)(&eq.events)).(*Event)
}

// Peek returns the earliest event without removing it
func (eq *EventQueue) Peek() *Event {
	if len(eq.events) == 0 {
		return nil
	}
	return eq.events[0]
}

func (eq *EventQueue) IsEmpty() bool {
	return len(eq.events) == 0
}

func (eq *EventQueue) Len() int {
	return len(eq.events)
}

// DequeueUntil pops every event with Time <= t, earliest first.
func (eq *EventQueue) DequeueUntil(t int) []*Event {
	var batch []*Event
	for {
		next := eq.Peek()
		if next == nil || next.Time > t {
			return batch
		}
		batch = append(batch, eq.Dequeue())
	}
}

// EventMessage is a serialized event bound for an output topic.
type EventMessage struct {
	Topic   string
	Message []byte
}
