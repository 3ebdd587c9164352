// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "list images"},
			want: "failed to list images",
		},
		{
			name: "operation and resource",
			err:  &ActionableError{Operation: "start process", Resource: "ffmpeg"},
			want: "failed to start process: ffmpeg",
		},
		{
			name: "operation and cause",
			err:  &ActionableError{Operation: "remove image", Cause: errors.New("image is in use")},
			want: "failed to remove image: image is in use",
		},
		{
			name: "all fields",
			err: &ActionableError{
				Operation:   "load config",
				Resource:    "~/.config/procline/config.cue",
				Suggestions: []string{"check the syntax"},
				Cause:       errors.New("unexpected token"),
			},
			want: "failed to load config: ~/.config/procline/config.cue: unexpected token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 2")
	err := &ActionableError{Operation: "run process", Cause: cause}
	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}

	if got := (&ActionableError{Operation: "run process"}).Unwrap(); got != nil {
		t.Errorf("Unwrap() without cause = %v, want nil", got)
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	err := WrapWithContext(fmt.Errorf("stat: %w", os.ErrNotExist), "change directory", "/srv/missing")
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("errors.Is should find os.ErrNotExist through the chain")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("permission denied")
	wrapped := fmt.Errorf("open pipe: %w", inner)
	err := &ActionableError{
		Operation:   "start process",
		Resource:    "./build.sh",
		Suggestions: []string{"Make the script executable", "Run it through sh"},
		Cause:       wrapped,
	}

	plain := err.Format(false)
	if !strings.HasPrefix(plain, "failed to start process: ./build.sh: open pipe: permission denied") {
		t.Errorf("Format(false) prefix mismatch: %q", plain)
	}
	if !strings.Contains(plain, "  • Make the script executable") || !strings.Contains(plain, "  • Run it through sh") {
		t.Errorf("Format(false) missing suggestions: %q", plain)
	}
	if strings.Contains(plain, "Error chain:") {
		t.Errorf("Format(false) should not include the chain: %q", plain)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Fatalf("Format(true) missing chain: %q", verbose)
	}
	if !strings.Contains(verbose, "1. open pipe: permission denied") || !strings.Contains(verbose, "2. permission denied") {
		t.Errorf("Format(true) chain mismatch: %q", verbose)
	}

	bare := (&ActionableError{Operation: "list containers"}).Format(true)
	if bare != "failed to list containers" {
		t.Errorf("Format(true) without cause = %q", bare)
	}
}

func TestActionableError_HasSuggestions(t *testing.T) {
	t.Parallel()

	if (&ActionableError{Operation: "x"}).HasSuggestions() {
		t.Error("HasSuggestions() = true for no suggestions")
	}
	if !(&ActionableError{Operation: "x", Suggestions: []string{"y"}}).HasSuggestions() {
		t.Error("HasSuggestions() = false with a suggestion")
	}
}

func TestActionableError_Help(t *testing.T) {
	// Overrides the package-level renderer.
	orig := render
	t.Cleanup(func() { render = orig })
	render = func(md, _ string) (string, error) { return md, nil }

	if got := (&ActionableError{Operation: "x"}).Help("notty"); got != "" {
		t.Errorf("Help() without issue = %q, want empty", got)
	}
	if got := (&ActionableError{Operation: "x", Issue: Id(999)}).Help("notty"); got != "" {
		t.Errorf("Help() with unknown issue = %q, want empty", got)
	}

	got := (&ActionableError{Operation: "start process", Issue: ExecutableNotFoundId}).Help("notty")
	if !strings.Contains(got, "Executable not found") {
		t.Errorf("Help() = %q, want catalog text", got)
	}

	render = func(string, string) (string, error) { return "", errors.New("boom") }
	if got := (&ActionableError{Operation: "x", Issue: ExecutableNotFoundId}).Help("notty"); got != "" {
		t.Errorf("Help() on render error = %q, want empty", got)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("no such image")
	ae := NewErrorContext().
		WithOperation("remove image").
		WithResource("alpine:3.20").
		WithSuggestion("List images with 'procline images'").
		WithSuggestions("Check the tag", "Use --force for tagged images").
		WithIssue(ImageNotFoundId).
		Wrap(cause).
		Build()

	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "remove image" || ae.Resource != "alpine:3.20" {
		t.Errorf("unexpected fields: %+v", ae)
	}
	if len(ae.Suggestions) != 3 || ae.Suggestions[2] != "Use --force for tagged images" {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
	if ae.Issue != ImageNotFoundId {
		t.Errorf("Issue = %d, want %d", ae.Issue, ImageNotFoundId)
	}
	if ae.Cause != cause {
		t.Errorf("Cause = %v, want %v", ae.Cause, cause)
	}

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
}

func TestErrorContext_BuildError(t *testing.T) {
	t.Parallel()

	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}

	err := NewErrorContext().WithOperation("list containers").WithIssue(ContainerEngineNotFoundId).BuildError()
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("BuildError() = %T, want *ActionableError", err)
	}
	if ae.Operation != "list containers" || ae.Issue != ContainerEngineNotFoundId {
		t.Errorf("unexpected error: %+v", ae)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "x", "y") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
	cause := errors.New("boom")
	ae := WrapWithContext(cause, "inspect image", "busybox")
	if ae.Operation != "inspect image" || ae.Resource != "busybox" || ae.Cause != cause {
		t.Errorf("WrapWithContext() = %+v", ae)
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("run process").WithSuggestion("first")
	a := ctx.Build()
	ctx.WithSuggestion("second")
	b := ctx.Build()

	if len(a.Suggestions) != 1 {
		t.Errorf("first build mutated: %v", a.Suggestions)
	}
	if len(b.Suggestions) != 2 {
		t.Errorf("second build = %v, want 2 suggestions", b.Suggestions)
	}
}
