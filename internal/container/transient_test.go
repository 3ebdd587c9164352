// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/invowk/procline/internal/process"
	"github.com/invowk/procline/pkg/types"
)

func TestIsTransientError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, false},
		{"wrapped deadline", fmt.Errorf("op: %w", context.DeadlineExceeded), false},
		{"exit code 125", &process.ProcessFailure{ExitCode: 125}, true},
		{"exit code 126", &process.ProcessFailure{ExitCode: 126}, true},
		{"exit code 1", &process.ProcessFailure{ExitCode: 1, ErrorLines: []string{"No such image"}}, false},
		{"stderr marker", &process.ProcessFailure{ExitCode: 1, ErrorLines: []string{"dial unix: connection refused"}}, true},
		{"overlay race", &process.ProcessFailure{ExitCode: 2, ErrorLines: []string{"error creating overlay mount to /x"}}, true},
		{
			"launch failure",
			&process.ProcessFailure{ExitCode: types.ExitCodeLaunchFailed, Err: errors.New("connection refused")},
			false,
		},
		{"cancelled run", fmt.Errorf("%w: %w", process.ErrCancelled, context.Canceled), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsTransientError(tt.err); got != tt.want {
				t.Errorf("IsTransientError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
