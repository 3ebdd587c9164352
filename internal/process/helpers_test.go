// SPDX-License-Identifier: MPL-2.0

package process

import (
	"runtime"
	"testing"
)

// shell returns a request that runs script with /bin/sh.
func shell(script string) Request {
	return Request{Path: "sh", Args: []string{"-c", script}}
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}
