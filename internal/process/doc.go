// SPDX-License-Identifier: MPL-2.0

// Package process launches one external program per invocation and exposes
// its standard output as a lazily consumed, cancellable sequence of lines.
//
// Standard error is captured concurrently. When the program exits, its exit
// code and any captured error output decide the outcome: the sequence ends
// normally on success, or ends with a *ProcessFailure that carries the exit
// code and every stderr line in order. Failures are only reported once the
// consumer has reached the end of the sequence.
//
// Cancelling the context passed to Execute or to Sequence.Next kills the
// program and releases its pipes. Cancellation is reported as an error
// wrapping ErrCancelled, never as a *ProcessFailure.
package process
