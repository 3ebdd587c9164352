// SPDX-License-Identifier: MPL-2.0

package linequeue

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO of lines with one producer and one consumer.
// The zero value is not usable; call New.
type Queue struct {
	mu     sync.Mutex
	items  []string
	head   int
	closed bool
	err    error
	// notify is replaced after every signal so waiters never miss a wakeup.
	notify chan struct{}
}

// New creates an open, empty queue.
func New() *Queue {
	return &Queue{notify: make(chan struct{})}
}

// Write appends line. It returns false, dropping the line, once the queue
// has been closed.
func (q *Queue) Write(line string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, line)
	q.signalLocked()
	return true
}

// TryRead removes and returns the oldest buffered line, if any.
func (q *Queue) TryRead() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == len(q.items) {
		return "", false
	}
	line := q.items[q.head]
	q.items[q.head] = ""
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return line, true
}

// WaitReadable blocks until a line is buffered (true), the queue is closed
// and drained (false), or ctx is done (ctx.Err()).
func (q *Queue) WaitReadable(ctx context.Context) (bool, error) {
	for {
		q.mu.Lock()
		if q.head < len(q.items) {
			q.mu.Unlock()
			return true, nil
		}
		if q.closed {
			q.mu.Unlock()
			return false, nil
		}
		wait := q.notify
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

// Close marks the queue complete. Only the first close has an effect.
func (q *Queue) Close() bool {
	return q.CloseWithError(nil)
}

// CloseWithError marks the queue complete with a terminal error that the
// consumer sees through Err once the buffer is drained. Only the first close
// (with or without error) has an effect.
func (q *Queue) CloseWithError(err error) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.closed = true
	q.err = err
	q.signalLocked()
	return true
}

// Err returns the terminal error recorded by CloseWithError. It is nil while
// the queue is open, after a plain Close, and while lines remain buffered.
func (q *Queue) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed || q.head < len(q.items) {
		return nil
	}
	return q.err
}

// Closed reports whether the queue has been closed.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of buffered lines.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

func (q *Queue) signalLocked() {
	close(q.notify)
	q.notify = make(chan struct{})
}
