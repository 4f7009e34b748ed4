// Package dispatch runs the dashboard's input loop: a producer goroutine
// turns terminal input and elapsed time into events, and a single consumer
// applies them to the layout and redraws once per event.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrDisconnected is returned once the producer side of a queue has gone away.
var ErrDisconnected = errors.New("dispatch: event source disconnected")

// Kind tells inputs and ticks apart.
type Kind int

const (
	Input Kind = iota
	Tick
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Tick:
		return "tick"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is one message from the producer. Key is set for Input events only.
type Event struct {
	Kind Kind
	Key  tea.KeyMsg
}

// InputEvent wraps a decoded key.
func InputEvent(k tea.KeyMsg) Event { return Event{Kind: Input, Key: k} }

// TickEvent is the periodic refresh message.
func TickEvent() Event { return Event{Kind: Tick} }

// Queue is an unbounded FIFO between one producer and one consumer. Push
// never blocks.
type Queue struct {
	mu     sync.Mutex
	items  []Event
	closed bool
	err    error
	ready  chan struct{}
}

// NewQueue returns an empty open queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends ev. It reports false once the queue is closed.
func (q *Queue) Push(ev Event) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()
	q.signal()
	return true
}

// Close marks the producer side finished. Events already queued are still
// delivered; after them Next returns ErrDisconnected wrapping cause.
func (q *Queue) Close(cause error) {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.err = cause
	}
	q.mu.Unlock()
	q.signal()
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Next blocks until an event is available, the queue is closed and drained,
// or ctx is done.
func (q *Queue) Next(ctx context.Context) (Event, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			ev := q.items[0]
			q.items[0] = Event{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return ev, nil
		}
		if q.closed {
			err := q.err
			q.mu.Unlock()
			if err != nil {
				return Event{}, fmt.Errorf("%w: %w", ErrDisconnected, err)
			}
			return Event{}, ErrDisconnected
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-ctx.Done():
			return Event{}, ctx.Err()
		}
	}
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
