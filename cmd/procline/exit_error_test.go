// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/invowk/procline/internal/issue"
	"github.com/invowk/procline/internal/process"
	"github.com/invowk/procline/pkg/types"
)

func TestExitError(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	err := &ExitError{Code: 4, Err: inner}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("ExitError must unwrap to its cause")
	}

	bare := &ExitError{Code: 2}
	if bare.Error() != "exit status 2" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "exit status 2")
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	childFailure := &process.ProcessFailure{Command: "grep x", ExitCode: 2}
	stderrFailure := &process.ProcessFailure{Command: "ls", ExitCode: 0, ErrorLines: []string{"warning"}}
	launchFailure := &process.ProcessFailure{
		Command:  "nope",
		ExitCode: types.ExitCodeLaunchFailed,
		Err:      errors.New("executable file not found"),
	}

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"nil", nil, 0},
		{"explicit exit error", &ExitError{Code: 7}, 7},
		{"cancelled", fmt.Errorf("%w: %w", process.ErrCancelled, context.Canceled), exitCancelled},
		{"child exit code", childFailure, 2},
		{"wrapped child exit code", issue.WrapWithContext(childFailure, "run program", ""), 2},
		{"stderr with exit 0", stderrFailure, exitGeneric},
		{"launch failure", launchFailure, exitGeneric},
		{"plain error", errors.New("bad flag"), exitGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
