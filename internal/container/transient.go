// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"strings"

	"github.com/invowk/procline/internal/process"
)

// transientMarkers are stderr fragments of engine failures that usually
// succeed on retry.
var transientMarkers = []string{
	// Rootless Podman race conditions and OCI runtime errors.
	"ping_group_range",
	"OCI runtime error",
	// Registry and daemon connectivity.
	"Temporary failure resolving",
	"Could not resolve host",
	"connection timed out",
	"connection refused",
	// Storage driver errors (overlay mount races on rootless Podman).
	"error creating overlay mount",
	"error mounting layer",
	"database is locked",
}

// IsTransientError reports whether err is a transient container engine error
// that may succeed on retry: engine exit codes 125/126 or a known transient
// message in the captured stderr.
//
// Cancellation, deadline and launch errors are never transient.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if process.IsCancelled(err) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, process.ErrLaunchFailed) {
		return false
	}

	var failure *process.ProcessFailure
	if errors.As(err, &failure) && failure.ExitCode.IsTransient() {
		return true
	}

	msg := err.Error()
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
