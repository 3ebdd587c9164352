// SPDX-License-Identifier: MPL-2.0

package process

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/invowk/procline/pkg/types"
)

var (
	// ErrProcessFailed is wrapped by every *ProcessFailure.
	ErrProcessFailed = errors.New("process failed")

	// ErrLaunchFailed is wrapped by a *ProcessFailure when the program could
	// not be started at all.
	ErrLaunchFailed = errors.New("process could not be started")

	// ErrCancelled is wrapped by the error reported when a run is cancelled
	// through its context or closed before completion.
	ErrCancelled = errors.New("process cancelled")

	// ErrNoData is returned by FirstLine.Value when the program produced no
	// output lines.
	ErrNoData = errors.New("process does not return any data")

	// ErrEmptyCommand is returned when a request names no executable.
	ErrEmptyCommand = errors.New("command must not be empty")
)

// ProcessFailure describes a run that finished unsuccessfully: the exit code
// was not acceptable, the program wrote to stderr, or it never started.
type ProcessFailure struct {
	// Command is the program and its arguments as a single display string.
	Command string
	// ExitCode is the program's exit status, or types.ExitCodeLaunchFailed.
	ExitCode types.ExitCode
	// ErrorLines holds every captured stderr line in production order.
	ErrorLines []string
	// Err is the launch error; nil when the program did start.
	Err error
}

// Error implements the error interface.
func (f *ProcessFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("failed to start %s: %v", f.Command, f.Err)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "process returned error, exit code %d", f.ExitCode)
	if f.Command != "" {
		fmt.Fprintf(&sb, " (%s)", f.Command)
	}
	for _, line := range f.ErrorLines {
		sb.WriteString("\n")
		sb.WriteString(line)
	}
	return sb.String()
}

// Unwrap exposes ErrProcessFailed and, for launch failures, ErrLaunchFailed
// together with the underlying OS error.
func (f *ProcessFailure) Unwrap() []error {
	if f.Err != nil {
		return []error{ErrProcessFailed, ErrLaunchFailed, f.Err}
	}
	return []error{ErrProcessFailed}
}

// IsLaunchFailure reports whether the program never started.
func (f *ProcessFailure) IsLaunchFailure() bool { return f.Err != nil }

// Stderr returns the captured error lines joined by newlines.
func (f *ProcessFailure) Stderr() string { return strings.Join(f.ErrorLines, "\n") }

func newFailure(command string, code types.ExitCode, lines []string) *ProcessFailure {
	return &ProcessFailure{Command: command, ExitCode: code, ErrorLines: slices.Clone(lines)}
}

func newLaunchFailure(command string, cause error) *ProcessFailure {
	return &ProcessFailure{
		Command:    command,
		ExitCode:   types.ExitCodeLaunchFailed,
		ErrorLines: []string{cause.Error()},
		Err:        cause,
	}
}

// cancellationError wraps cause (typically a context error) with ErrCancelled.
func cancellationError(cause error) error {
	if cause == nil {
		cause = context.Canceled
	}
	if errors.Is(cause, ErrCancelled) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// IsCancelled reports whether err reports a cancelled run.
func IsCancelled(err error) bool { return errors.Is(err, ErrCancelled) }
