// SPDX-License-Identifier: MPL-2.0

// Package linequeue provides an unbounded single-producer single-consumer FIFO
// of text lines that can be closed normally or with a terminal error.
//
// Writes never block. Items written before Close remain readable after it;
// a reader only observes the closed state once the buffer has been drained.
package linequeue
