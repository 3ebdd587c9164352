// SPDX-License-Identifier: MPL-2.0

package process

const (
	// StateNotStarted indicates the run was created but the program not yet launched.
	StateNotStarted State = iota
	// StateRunning indicates the program is running or its streams are still draining.
	StateRunning
	// StateSucceeded indicates the outcome was decided as a success.
	StateSucceeded
	// StateFailed indicates the outcome was decided as a failure, including launch failures.
	StateFailed
	// StateCancelled indicates the run was cancelled before an outcome was decided.
	StateCancelled
	// StateDisposed is terminal: the process has been reaped and its pipes released.
	StateDisposed
)

// State represents the lifecycle state of a run.
type State int32

// String returns a human-readable representation of the run state.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// IsDecided returns true once the run has left the Running state.
func (s State) IsDecided() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled || s == StateDisposed
}
