// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that touch process-wide state
// (environment variables, working directory, home directory) or real
// container engines.
//
// Helpers fail the test on error and return cleanup functions suitable for
// t.Cleanup.
package testutil
