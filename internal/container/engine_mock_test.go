// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"

	"github.com/invowk/procline/pkg/platform"
)

type (
	// MockCommandRecorder captures arguments passed to exec.Command for verification.
	// It uses the TestHelperProcess pattern to simulate engine CLI output.
	MockCommandRecorder struct {
		mu sync.Mutex
		// Invocations records each call to the mock exec.Command
		Invocations []MockInvocation
		// Default is used once Responses is exhausted.
		Default MockResponse
		// Responses are consumed in order, one per invocation.
		Responses []MockResponse
	}

	// MockResponse is what the helper process prints and returns.
	MockResponse struct {
		ExitCode int
		Stdout   string
		Stderr   string
	}

	// MockInvocation represents a single invocation of exec.Command.
	MockInvocation struct {
		// Name is the command name (e.g., "docker", "podman")
		Name string
		// Args are the arguments passed to the command
		Args []string
	}
)

// NewMockCommandRecorder creates a recorder that answers every call with resp.
func NewMockCommandRecorder(resp MockResponse) *MockCommandRecorder {
	return &MockCommandRecorder{Default: resp}
}

// CommandFunc returns an ExecCommandFunc that records invocations and returns
// a command running TestHelperProcess.
func (m *MockCommandRecorder) CommandFunc(t *testing.T) ExecCommandFunc {
	t.Helper()
	return func(_ context.Context, name string, args ...string) *exec.Cmd {
		m.mu.Lock()
		m.Invocations = append(m.Invocations, MockInvocation{Name: name, Args: args})
		resp := m.Default
		if len(m.Responses) > 0 {
			resp, m.Responses = m.Responses[0], m.Responses[1:]
		}
		m.mu.Unlock()

		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		//nolint:gosec // TestHelperProcess is a test-only pattern
		cmd := exec.Command(os.Args[0], cs...) //nolint:noctx // exec.Command used intentionally for test helper
		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("GO_HELPER_EXIT_CODE=%d", resp.ExitCode),
			"GO_HELPER_STDOUT=" + resp.Stdout,
			"GO_HELPER_STDERR=" + resp.Stderr,
		}
		return cmd
	}
}

// Count returns the number of recorded invocations.
func (m *MockCommandRecorder) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Invocations)
}

// LastArgs returns the arguments from the most recent invocation.
func (m *MockCommandRecorder) LastArgs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Invocations) == 0 {
		return nil
	}
	return m.Invocations[len(m.Invocations)-1].Args
}

// LastName returns the command name of the most recent invocation.
func (m *MockCommandRecorder) LastName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Invocations) == 0 {
		return ""
	}
	return m.Invocations[len(m.Invocations)-1].Name
}

// AssertArgs verifies the last invocation's arguments exactly.
func (m *MockCommandRecorder) AssertArgs(t *testing.T, expected ...string) {
	t.Helper()
	got := m.LastArgs()
	if strings.Join(got, "\x00") != strings.Join(expected, "\x00") {
		t.Errorf("expected args %q, got %q", expected, got)
	}
}

// newMockEngine returns a Docker engine wired to recorder.
func newMockEngine(t *testing.T, recorder *MockCommandRecorder, opts ...BaseCLIEngineOption) *DockerEngine {
	t.Helper()
	allOpts := append([]BaseCLIEngineOption{
		WithBinaryPath("docker"),
		WithSandbox(platform.SandboxNone),
		WithExecCommand(recorder.CommandFunc(t)),
	}, opts...)
	return NewDockerEngine(allOpts...)
}

// TestHelperProcess is used by the mock to simulate command execution.
// It reads configuration from environment variables and outputs accordingly.
// This function should not be called directly - it is invoked by the mock.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	if stdout := os.Getenv("GO_HELPER_STDOUT"); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}
	if stderr := os.Getenv("GO_HELPER_STDERR"); stderr != "" {
		fmt.Fprint(os.Stderr, stderr)
	}

	exitCode := 0
	if code := os.Getenv("GO_HELPER_EXIT_CODE"); code != "" {
		fmt.Sscanf(code, "%d", &exitCode)
	}

	os.Exit(exitCode)
}

func TestMockCommandRecorder_Responses(t *testing.T) {
	t.Parallel()

	recorder := NewMockCommandRecorder(MockResponse{Stdout: "default\n"})
	recorder.Responses = []MockResponse{{Stdout: "first\n"}}
	engine := newMockEngine(t, recorder)

	for _, want := range []string{"first", "default"} {
		lines, err := engine.RunLines(t.Context(), "anything")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(lines) != 1 || lines[0] != want {
			t.Errorf("expected [%s], got %q", want, lines)
		}
	}
	if recorder.Count() != 2 {
		t.Errorf("expected 2 invocations, got %d", recorder.Count())
	}
}
