// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform's home variable (USERPROFILE on Windows,
// HOME elsewhere) at dir and returns a cleanup function that restores it.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	if runtime.GOOS == "windows" {
		return MustSetenv(t, "USERPROFILE", dir)
	}
	return MustSetenv(t, "HOME", dir)
}
