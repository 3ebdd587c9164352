// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"

	"github.com/invowk/procline/pkg/platform"
)

// DockerEngine implements the Engine interface using Docker CLI.
// It embeds BaseCLIEngine for common CLI operations.
type DockerEngine struct {
	*BaseCLIEngine
}

// NewDockerEngine creates a new Docker engine.
func NewDockerEngine(opts ...BaseCLIEngineOption) *DockerEngine {
	sandbox := platform.DetectSandbox()
	allOpts := append([]BaseCLIEngineOption{WithName(string(EngineTypeDocker)), WithSandbox(sandbox)}, opts...)
	path := lookupEngine("docker", sandbox)
	return &DockerEngine{
		BaseCLIEngine: NewBaseCLIEngine(path, allOpts...),
	}
}

// Name returns the engine name.
func (e *DockerEngine) Name() string {
	return string(EngineTypeDocker)
}

// Available checks if the Docker daemon answers.
func (e *DockerEngine) Available(ctx context.Context) bool {
	return e.available(ctx, "version", "--format", "{{.Server.Version}}")
}

// Version returns the Docker server version.
func (e *DockerEngine) Version(ctx context.Context) (string, error) {
	return e.version(ctx, "version", "--format", "{{.Server.Version}}")
}
