// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"slices"
	"sync"
)

const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone Sandbox = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak Sandbox = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap Sandbox = "snap"
)

// detectOnce caches detection for the lifetime of the process.
// detectFrom must not panic: sync.OnceValue would re-panic on every call.
var detectOnce = sync.OnceValue(func() Sandbox {
	return detectFrom(os.Getenv, statFile)
})

// Sandbox identifies the application sandbox the process runs in, if any.
type Sandbox string

// DetectSandbox returns the sandbox the current process runs in.
// Detection runs once: /.flatpak-info marks Flatpak (checked first) and
// SNAP_NAME marks Snap.
func DetectSandbox() Sandbox {
	return detectOnce()
}

// String returns the sandbox name, "none" for SandboxNone.
func (s Sandbox) String() string {
	if s == SandboxNone {
		return "none"
	}
	return string(s)
}

// SpawnCommand returns the helper that runs commands on the host, or "".
func (s Sandbox) SpawnCommand() string {
	switch s {
	case SandboxFlatpak:
		return "flatpak-spawn"
	case SandboxSnap:
		return "snap"
	default:
		return ""
	}
}

// SpawnArgs returns the arguments placed between the spawn helper and the
// host command.
func (s Sandbox) SpawnArgs() []string {
	switch s {
	case SandboxFlatpak:
		return []string{"--host"}
	case SandboxSnap:
		return []string{"run", "--shell"}
	default:
		return nil
	}
}

// HostCommand rewrites name/args so they run on the host. Outside a sandbox
// the command is returned unchanged.
func (s Sandbox) HostCommand(name string, args []string) (string, []string) {
	spawn := s.SpawnCommand()
	if spawn == "" {
		return name, args
	}
	wrapped := append(s.SpawnArgs(), name)
	return spawn, append(wrapped, slices.Clone(args)...)
}

func detectFrom(getenv func(string) string, stat func(string) error) Sandbox {
	if err := stat("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}
	if getenv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
