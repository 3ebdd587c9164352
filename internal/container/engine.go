// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
)

const (
	// EngineTypePodman identifies the Podman container engine.
	EngineTypePodman EngineType = "podman"
	// EngineTypeDocker identifies the Docker container engine.
	EngineTypeDocker EngineType = "docker"
)

var (
	// ErrNoEngineAvailable is returned when neither engine can be used.
	ErrNoEngineAvailable = errors.New("no container engine available")

	// ErrInvalidEngineType is the sentinel error wrapped by InvalidEngineTypeError.
	ErrInvalidEngineType = errors.New("invalid container engine type")
)

type (
	// Engine defines the container operations backed by an engine CLI.
	Engine interface {
		// Name returns the engine name (docker or podman).
		Name() string
		// Available reports whether the engine binary exists and responds.
		Available(ctx context.Context) bool
		// Version returns the engine version.
		Version(ctx context.Context) (string, error)
		// ListImages lists local images.
		ListImages(ctx context.Context) (*ImageListing, error)
		// ListContainers lists running containers, or all of them when all is set.
		ListContainers(ctx context.Context, all bool) (*ContainerListing, error)
		// RemoveImage removes an image and returns the engine's output lines,
		// including those printed before a failure.
		RemoveImage(ctx context.Context, target string, force bool) ([]string, error)
		// ImageExists checks if an image exists locally.
		ImageExists(ctx context.Context, image string) (bool, error)
	}

	// EngineType identifies the container engine type.
	EngineType string

	// InvalidEngineTypeError is returned when an EngineType is not recognized.
	InvalidEngineTypeError struct {
		Value EngineType
	}

	// EngineNotAvailableError is returned when a container engine is not available.
	EngineNotAvailableError struct {
		Engine EngineType
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidEngineTypeError) Error() string {
	return fmt.Sprintf("invalid container engine type %q (valid: docker, podman)", e.Value)
}

// Unwrap returns ErrInvalidEngineType for errors.Is() compatibility.
func (e *InvalidEngineTypeError) Unwrap() error { return ErrInvalidEngineType }

// Validate returns an error if the EngineType is not docker or podman.
func (t EngineType) Validate() error {
	switch t {
	case EngineTypeDocker, EngineTypePodman:
		return nil
	default:
		return &InvalidEngineTypeError{Value: t}
	}
}

// String returns the string representation of the EngineType.
func (t EngineType) String() string { return string(t) }

// Error implements the error interface.
func (e *EngineNotAvailableError) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// Unwrap returns ErrNoEngineAvailable for errors.Is() compatibility.
func (e *EngineNotAvailableError) Unwrap() error { return ErrNoEngineAvailable }

// NewEngine creates a container engine based on preference, falling back to
// the other engine when the preferred one is not available.
func NewEngine(ctx context.Context, preferredType EngineType, opts ...BaseCLIEngineOption) (Engine, error) {
	if err := preferredType.Validate(); err != nil {
		return nil, err
	}

	preferred, fallback := newEngineOfType(preferredType, opts...), newEngineOfType(otherEngine(preferredType), opts...)
	if preferred.Available(ctx) {
		return preferred, nil
	}
	if fallback.Available(ctx) {
		return fallback, nil
	}
	return nil, engineNotAvailableError(preferredType)
}

// AutoDetectEngine tries to find an available container engine.
// Podman is tried first (more commonly available in rootless setups).
func AutoDetectEngine(ctx context.Context, opts ...BaseCLIEngineOption) (Engine, error) {
	if podman := NewPodmanEngine(opts...); podman.Available(ctx) {
		return podman, nil
	}
	if docker := NewDockerEngine(opts...); docker.Available(ctx) {
		return docker, nil
	}
	return nil, &EngineNotAvailableError{
		Engine: "any",
		Reason: "no container engine (podman or docker) is available on this system",
	}
}

func newEngineOfType(t EngineType, opts ...BaseCLIEngineOption) Engine {
	if t == EngineTypePodman {
		return NewPodmanEngine(opts...)
	}
	return NewDockerEngine(opts...)
}

func otherEngine(t EngineType) EngineType {
	if t == EngineTypePodman {
		return EngineTypeDocker
	}
	return EngineTypePodman
}
