// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"slices"
	"testing"
)

func TestDetectFrom(t *testing.T) {
	t.Parallel()

	exists := func(string) error { return nil }
	missing := func(string) error { return os.ErrNotExist }
	env := func(v string) func(string) string {
		return func(key string) string {
			if key == "SNAP_NAME" {
				return v
			}
			return ""
		}
	}

	tests := []struct {
		name   string
		getenv func(string) string
		stat   func(string) error
		want   Sandbox
	}{
		{"none", env(""), missing, SandboxNone},
		{"flatpak", env(""), exists, SandboxFlatpak},
		{"snap", env("procline"), missing, SandboxSnap},
		{"flatpak wins over snap", env("procline"), exists, SandboxFlatpak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := detectFrom(tt.getenv, tt.stat); got != tt.want {
				t.Errorf("detectFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSandbox_HostCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sandbox  Sandbox
		wantName string
		wantArgs []string
	}{
		{SandboxNone, "docker", []string{"images"}},
		{SandboxFlatpak, "flatpak-spawn", []string{"--host", "docker", "images"}},
		{SandboxSnap, "snap", []string{"run", "--shell", "docker", "images"}},
	}

	for _, tt := range tests {
		t.Run(tt.sandbox.String(), func(t *testing.T) {
			t.Parallel()
			name, args := tt.sandbox.HostCommand("docker", []string{"images"})
			if name != tt.wantName || !slices.Equal(args, tt.wantArgs) {
				t.Errorf("HostCommand() = %q %q, want %q %q", name, args, tt.wantName, tt.wantArgs)
			}
		})
	}
}

func TestSandbox_HostCommandDoesNotAliasArgs(t *testing.T) {
	t.Parallel()

	args := []string{"ps", "-a"}
	_, wrapped := SandboxFlatpak.HostCommand("podman", args)
	wrapped[len(wrapped)-1] = "changed"
	if args[1] != "-a" {
		t.Errorf("caller slice was modified: %q", args)
	}
}

func TestDetectSandbox_Cached(t *testing.T) {
	t.Parallel()

	if DetectSandbox() != DetectSandbox() {
		t.Error("DetectSandbox() should be stable")
	}
}
