// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/invowk/procline/internal/process"
	"github.com/invowk/procline/pkg/types"
)

const (
	// exitGeneric is used for every failure without a more specific code.
	exitGeneric types.ExitCode = 1
	// exitCancelled follows the shell convention for SIGINT (128 + 2).
	exitCancelled types.ExitCode = 130
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps a command error to the process exit status: the child's
// own code for process failures, 130 for cancellation and 1 otherwise.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if process.IsCancelled(err) {
		return exitCancelled
	}

	var failure *process.ProcessFailure
	if errors.As(err, &failure) && !failure.IsLaunchFailure() && failure.ExitCode > 0 {
		return failure.ExitCode
	}
	return exitGeneric
}
