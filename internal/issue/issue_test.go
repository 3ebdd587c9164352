// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	ids := []Id{
		ExecutableNotFoundId,
		WorkingDirectoryNotFoundId,
		InvalidCommandLineId,
		ProcessFailedId,
		ProcessCancelledId,
		ContainerEngineNotFoundId,
		ImageNotFoundId,
		ConfigLoadFailedId,
		PermissionDeniedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}

	if ExecutableNotFoundId != 1 {
		t.Errorf("ExecutableNotFoundId = %d, want 1", ExecutableNotFoundId)
	}
}

func TestValues_SortedAndComplete(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not sorted at index %d", i)
		}
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	issue := Get(ProcessFailedId)
	if issue == nil {
		t.Fatal("Get(ProcessFailedId) returned nil")
	}

	msg := string(issue.MarkdownMsg())
	if !strings.Contains(msg, "standard error") {
		t.Error("process failure help should explain that stderr output fails a run")
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	issue := Get(ContainerEngineNotFoundId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("expected external links")
	}
	links[0] = "mutated"
	if issue.ExtLinks()[0] == "mutated" {
		t.Error("ExtLinks() must return a copy")
	}
	if len(issue.DocLinks()) != 0 {
		t.Error("expected no doc links")
	}
}

func TestIssue_Render(t *testing.T) {
	original := render
	defer func() { render = original }()

	var gotMarkdown, gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotMarkdown, gotStyle = in, stylePath
		return "rendered", nil
	}

	out, err := Get(ContainerEngineNotFoundId).Render("dark")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "rendered" || gotStyle != "dark" {
		t.Errorf("unexpected render call: out=%q style=%q", out, gotStyle)
	}
	if !strings.Contains(gotMarkdown, "## See also") || !strings.Contains(gotMarkdown, "https://podman.io/docs/installation") {
		t.Errorf("links missing from markdown: %q", gotMarkdown)
	}

	render = func(string, string) (string, error) { return "", errors.New("boom") }
	if _, err := Get(ProcessFailedId).Render("dark"); err == nil {
		t.Error("expected render error to propagate")
	}
}

func TestIssue_RenderWithGlamour(t *testing.T) {
	out, err := Get(ProcessCancelledId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "cancelled") {
		t.Errorf("rendered output missing heading: %q", out)
	}
}
