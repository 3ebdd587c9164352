// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"

	"github.com/invowk/procline/pkg/platform"
)

// PodmanEngine implements the Engine interface using Podman CLI.
// It embeds BaseCLIEngine for common CLI operations.
type PodmanEngine struct {
	*BaseCLIEngine
}

// NewPodmanEngine creates a new Podman engine.
func NewPodmanEngine(opts ...BaseCLIEngineOption) *PodmanEngine {
	sandbox := platform.DetectSandbox()
	allOpts := append([]BaseCLIEngineOption{WithName(string(EngineTypePodman)), WithSandbox(sandbox)}, opts...)
	path := lookupEngine("podman", sandbox)
	return &PodmanEngine{
		BaseCLIEngine: NewBaseCLIEngine(path, allOpts...),
	}
}

// Name returns the engine name.
func (e *PodmanEngine) Name() string {
	return string(EngineTypePodman)
}

// Available checks if Podman is available.
func (e *PodmanEngine) Available(ctx context.Context) bool {
	return e.available(ctx, "version", "--format", "{{.Version}}")
}

// Version returns the Podman version.
func (e *PodmanEngine) Version(ctx context.Context) (string, error) {
	return e.version(ctx, "version", "--format", "{{.Version}}")
}
