// SPDX-License-Identifier: MPL-2.0

package process

import (
	"context"
	"fmt"
	"io"
	"iter"
	"sync/atomic"

	"github.com/invowk/procline/internal/linequeue"
)

type (
	// Sequence is a forward-only, single-pass stream of output lines.
	//
	// Next, Line and Err must be called from a single goroutine. Close may be
	// called from any goroutine to abort a blocked Next.
	Sequence struct {
		queue *linequeue.Queue
		// run is the process this sequence owns; nil for the stderr side of
		// a dual run, which never controls the process.
		run *Run

		line   string
		err    error
		done   bool
		closed atomic.Bool
	}

	// FirstLine is the result of Sequence.First. Found is false when the
	// program produced no output.
	FirstLine struct {
		Line  string
		Found bool
	}
)

func newSequence(queue *linequeue.Queue, owner *Run) *Sequence {
	return &Sequence{queue: queue, run: owner}
}

// Value returns the line, or ErrNoData when none was produced.
func (f FirstLine) Value() (string, error) {
	if !f.Found {
		return "", ErrNoData
	}
	return f.Line, nil
}

// Run returns the process run this sequence owns, or nil.
func (s *Sequence) Run() *Run { return s.run }

// Next advances to the next line, blocking until one is available or the
// program has finished. It returns false at the end of the sequence; Err
// then reports why. If ctx is done, Next stops immediately, even with lines
// still buffered, and cancels the run.
func (s *Sequence) Next(ctx context.Context) bool {
	if s.done {
		return false
	}
	if err := ctx.Err(); err != nil {
		s.abort(context.Cause(ctx))
		return false
	}
	for {
		if s.closed.Load() {
			s.finish(cancellationError(nil))
			return false
		}
		if line, ok := s.queue.TryRead(); ok {
			s.line = line
			return true
		}
		ready, err := s.queue.WaitReadable(ctx)
		if err != nil {
			s.abort(context.Cause(ctx))
			return false
		}
		if !ready {
			s.finish(s.queue.Err())
			return false
		}
	}
}

// Line returns the line produced by the last successful call to Next.
func (s *Sequence) Line() string { return s.line }

// Err returns nil if the sequence ended normally, a *ProcessFailure if the
// program failed, or an error wrapping ErrCancelled.
func (s *Sequence) Err() error { return s.err }

// Close cancels the run, if this sequence owns one that is still running,
// and waits for it to be disposed. It is idempotent.
func (s *Sequence) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.run != nil {
		return s.run.Close()
	}
	s.queue.CloseWithError(cancellationError(nil))
	return nil
}

// All returns an iterator over the remaining lines. A terminal error is
// yielded once as ("", err). Breaking out of the loop closes the sequence.
func (s *Sequence) All(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for s.Next(ctx) {
			if !yield(s.line, nil) {
				_ = s.Close()
				return
			}
		}
		if s.err != nil {
			yield("", s.err)
		}
	}
}

// Wait drains the sequence and returns its terminal error.
func (s *Sequence) Wait(ctx context.Context) error {
	for s.Next(ctx) {
	}
	return s.err
}

// First returns the first line. The remaining output is drained so that the
// program's outcome is known before First returns.
func (s *Sequence) First(ctx context.Context) (FirstLine, error) {
	var first FirstLine
	for s.Next(ctx) {
		if !first.Found {
			first = FirstLine{Line: s.line, Found: true}
		}
	}
	if s.err != nil {
		return FirstLine{}, s.err
	}
	return first, nil
}

// Collect drains the sequence into a slice. On failure the lines received
// before the error are returned alongside it.
func (s *Sequence) Collect(ctx context.Context) ([]string, error) {
	var lines []string
	for s.Next(ctx) {
		lines = append(lines, s.line)
	}
	return lines, s.err
}

// WriteLines writes every line to w followed by "\n". A write error closes
// the sequence.
func (s *Sequence) WriteLines(ctx context.Context, w io.Writer) error {
	for s.Next(ctx) {
		if _, err := io.WriteString(w, s.line+"\n"); err != nil {
			_ = s.Close()
			return fmt.Errorf("write output line: %w", err)
		}
	}
	return s.err
}

// finish records the terminal error. For the owning sequence it also waits
// for disposal so that the outcome is settled when Next returns false.
func (s *Sequence) finish(err error) {
	s.done = true
	s.line = ""
	s.err = err
	if s.run != nil {
		<-s.run.Done()
	}
}

func (s *Sequence) abort(cause error) {
	err := cancellationError(cause)
	if s.run != nil {
		s.run.terminate(err)
	}
	s.finish(err)
}
