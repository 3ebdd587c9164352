// SPDX-License-Identifier: MPL-2.0

package process

import "github.com/invowk/procline/pkg/types"

// Outcome is the final result of a run, available once it is disposed.
type Outcome struct {
	ExitCode   types.ExitCode
	ErrorLines []string
	// Success is true when the exit code was acceptable and nothing was
	// written to stderr (or, for dual runs, when the exit code was acceptable).
	Success bool
	// Cancelled is true when the run was cancelled before it finished.
	Cancelled bool
}
