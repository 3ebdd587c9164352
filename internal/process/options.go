// SPDX-License-Identifier: MPL-2.0

package process

import (
	"context"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/invowk/procline/pkg/types"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Option configures an Executor.
	Option func(*Executor)
)

// WithAcceptableExitCodes sets the exit codes treated as success for requests
// that do not carry their own set. A nil set keeps the default {0}.
func WithAcceptableExitCodes(codes types.ExitCodeSet) Option {
	return func(e *Executor) {
		e.acceptable = codes.Clone()
	}
}

// WithLogger sets the logger used for run lifecycle events.
func WithLogger(logger *log.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithExecCommand sets the function used to create commands.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(e *Executor) {
		if fn != nil {
			e.execCommand = fn
		}
	}
}

// WithEncoding sets the default stream encoding for requests that do not
// name one.
func WithEncoding(name string) Option {
	return func(e *Executor) {
		e.encoding = name
	}
}
