// SPDX-License-Identifier: MPL-2.0

package process

import "context"

// BinaryFuture is a pending raw read of a program's stdout.
type BinaryFuture struct {
	run *Run
}

// StartReadBinary starts req and captures its stdout without decoding or
// line splitting. Stderr lines and the exit code decide success exactly as
// for Execute.
func (e *Executor) StartReadBinary(ctx context.Context, req Request) *BinaryFuture {
	return &BinaryFuture{run: e.start(ctx, req, modeBinary, nil)}
}

// ReadBinary runs req to completion and returns its stdout bytes.
func (e *Executor) ReadBinary(ctx context.Context, req Request) ([]byte, error) {
	return e.StartReadBinary(ctx, req).Wait()
}

// Wait blocks until the run is disposed and returns the captured bytes, a
// *ProcessFailure, or a cancellation error.
func (f *BinaryFuture) Wait() ([]byte, error) {
	return f.run.binaryResult()
}

// Run returns the underlying run.
func (f *BinaryFuture) Run() *Run { return f.run }

// Close cancels the read and waits for the program to be reaped.
func (f *BinaryFuture) Close() error { return f.run.Close() }
