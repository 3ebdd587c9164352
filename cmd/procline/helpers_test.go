// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"runtime"
	"slices"
	"sync"
	"testing"

	"github.com/invowk/procline/internal/config"
	"github.com/invowk/procline/internal/container"
)

type (
	// stubProvider returns a fixed configuration and records the options it
	// was called with.
	stubProvider struct {
		mu     sync.Mutex
		loaded *config.Loaded
		err    error
		opts   []config.LoadOptions
	}

	// fakeEngine is an in-memory container.Engine.
	fakeEngine struct {
		mu         sync.Mutex
		name       string
		images     container.ImageListing
		containers container.ContainerListing
		removeErrs map[string]error
		removed    []string
		listedAll  bool
	}

	// testApp bundles an App with its captured output.
	testApp struct {
		*App
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (p *stubProvider) Load(_ context.Context, opts config.LoadOptions) (*config.Loaded, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts = append(p.opts, opts)
	if p.err != nil {
		return nil, p.err
	}
	if p.loaded == nil {
		return &config.Loaded{Config: config.DefaultConfig()}, nil
	}
	return p.loaded, nil
}

func (e *fakeEngine) Name() string {
	if e.name == "" {
		return "docker"
	}
	return e.name
}

func (e *fakeEngine) Available(context.Context) bool { return true }

func (e *fakeEngine) Version(context.Context) (string, error) { return "27.3.1", nil }

func (e *fakeEngine) ListImages(context.Context) (*container.ImageListing, error) {
	listing := e.images
	return &listing, nil
}

func (e *fakeEngine) ListContainers(_ context.Context, all bool) (*container.ContainerListing, error) {
	e.mu.Lock()
	e.listedAll = all
	e.mu.Unlock()
	listing := e.containers
	return &listing, nil
}

func (e *fakeEngine) RemoveImage(_ context.Context, target string, force bool) ([]string, error) {
	if err := e.removeErrs[target]; err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.removed = append(e.removed, target)
	e.mu.Unlock()
	if force {
		return []string{"Untagged: " + target, "Deleted: " + target}, nil
	}
	return []string{"Untagged: " + target}, nil
}

func (e *fakeEngine) ImageExists(_ context.Context, image string) (bool, error) {
	return slices.ContainsFunc(e.images.Images, func(img container.Image) bool {
		return img.Reference() == image
	}), nil
}

// newTestApp builds an App with a stub configuration and, when engine is
// set, a factory that always returns it.
func newTestApp(t *testing.T, provider config.Provider, engine container.Engine) *testApp {
	t.Helper()
	if provider == nil {
		provider = &stubProvider{}
	}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	deps := Dependencies{Config: provider, Stdout: stdout, Stderr: stderr}
	if engine != nil {
		deps.NewEngine = func(context.Context, string, ...container.BaseCLIEngineOption) (container.Engine, error) {
			return engine, nil
		}
	}
	return &testApp{App: NewApp(deps), stdout: stdout, stderr: stderr}
}

func (a *testApp) run(t *testing.T, args ...string) int {
	t.Helper()
	return a.Run(t.Context(), args)
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}
