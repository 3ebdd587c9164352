// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/invowk/procline/internal/issue"
	"github.com/invowk/procline/internal/process"
	"github.com/invowk/procline/pkg/platform"
	"github.com/invowk/procline/pkg/types"
)

const (
	// ImageFormat asks the engine for one tab-separated image per line.
	ImageFormat = "{{.ID}}\t{{.Repository}}\t{{.Tag}}\t{{.Digest}}\t{{.CreatedSince}}\t{{.CreatedAt}}\t{{.Size}}"

	// ContainerFormat asks the engine for one tab-separated container per line.
	ContainerFormat = "{{.ID}}\t{{.Image}}\t{{.Command}}\t{{.CreatedAt}}\t{{.RunningFor}}\t{{.Ports}}\t{{.Status}}\t{{.Size}}\t{{.Names}}\t{{.Labels}}\t{{.Mounts}}\t{{.Networks}}"

	defaultRetryAttempts = 3
	defaultRetryBackoff  = 500 * time.Millisecond
)

// ErrInvalidImageTarget is returned when an image reference is empty or
// contains whitespace.
var ErrInvalidImageTarget = errors.New("invalid image target")

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// BaseCLIEngineOption configures a BaseCLIEngine.
	BaseCLIEngineOption func(*BaseCLIEngine)

	// BaseCLIEngine provides the implementation shared by CLI-based engines.
	// Docker and Podman engines embed this struct; only the version command
	// differs between them.
	BaseCLIEngine struct {
		name        string // Engine name for error messages (e.g., "docker", "podman")
		binaryPath  string
		execCommand ExecCommandFunc
		logger      *log.Logger
		encoding    string
		sandbox     platform.Sandbox
		retry       retryPolicy
	}
)

// --- Option Functions ---

// WithName sets the engine name used in error messages.
func WithName(name string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.name = name
	}
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.execCommand = fn
	}
}

// WithBinaryPath overrides the engine binary found on PATH.
func WithBinaryPath(path string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.binaryPath = path
	}
}

// WithLogger sets the logger passed to the process executor.
func WithLogger(logger *log.Logger) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.logger = logger
	}
}

// WithEncoding sets the character encoding of the engine's output.
func WithEncoding(name string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.encoding = name
	}
}

// WithSandbox launches the engine through the sandbox's host spawn helper.
func WithSandbox(sandbox platform.Sandbox) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.sandbox = sandbox
	}
}

// WithRetry sets how often transient engine failures are retried.
func WithRetry(attempts int, backoff time.Duration) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.retry = retryPolicy{attempts: max(attempts, 1), backoff: backoff}
	}
}

// --- Constructor ---

// NewBaseCLIEngine creates a new base engine with the given binary path.
func NewBaseCLIEngine(binaryPath string, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
		logger:      log.New(io.Discard),
		retry:       retryPolicy{attempts: defaultRetryAttempts, backoff: defaultRetryBackoff},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// lookupEngine resolves name on PATH. Inside a sandbox the host resolves it,
// so the bare name is kept when the local lookup fails.
func lookupEngine(name string, sandbox platform.Sandbox) string {
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	if sandbox != platform.SandboxNone {
		return name
	}
	return ""
}

// --- Accessor Methods ---

// Name returns the engine name used in error messages.
func (e *BaseCLIEngine) Name() string {
	return e.name
}

// BinaryPath returns the resolved engine binary, or "" if it was not found.
func (e *BaseCLIEngine) BinaryPath() string {
	return e.binaryPath
}

// --- Argument Builders ---

// ImagesArgs builds the argument slice for an 'images' command.
func (e *BaseCLIEngine) ImagesArgs() []string {
	return []string{"images", "--format", ImageFormat}
}

// PsArgs builds the argument slice for a 'ps' command.
func (e *BaseCLIEngine) PsArgs(all bool) []string {
	args := []string{"ps"}
	if all {
		args = append(args, "-a")
	}
	return append(args, "--format", ContainerFormat)
}

// RemoveImageArgs builds the argument slice for an 'rmi' command.
func (e *BaseCLIEngine) RemoveImageArgs(target string, force bool) []string {
	args := []string{"rmi"}
	if force {
		args = append(args, "-f")
	}
	return append(args, target)
}

// --- Command Execution ---

// Request builds a process request for the engine binary. Inside a sandbox
// the request targets the host spawn helper instead.
func (e *BaseCLIEngine) Request(args ...string) process.Request {
	path, args := e.sandbox.HostCommand(e.binaryPath, args)
	return process.Request{Path: path, Args: args, Encoding: e.encoding}
}

// Stream starts an engine command and returns its stdout lines.
func (e *BaseCLIEngine) Stream(ctx context.Context, args ...string) *process.Sequence {
	return e.executor().Execute(ctx, e.Request(args...))
}

// RunLines executes an engine command and collects its stdout lines.
func (e *BaseCLIEngine) RunLines(ctx context.Context, args ...string) ([]string, error) {
	return e.Stream(ctx, args...).Collect(ctx)
}

// RunStatus executes an engine command, discarding its output.
func (e *BaseCLIEngine) RunStatus(ctx context.Context, args ...string) error {
	return e.Stream(ctx, args...).Wait(ctx)
}

func (e *BaseCLIEngine) executor() *process.Executor {
	return process.NewExecutor(
		process.WithExecCommand(process.ExecCommandFunc(e.execCommand)),
		process.WithLogger(e.logger),
	)
}

// --- Engine Operations ---

// available reports whether the engine binary exists and args succeed.
func (e *BaseCLIEngine) available(ctx context.Context, args ...string) bool {
	if e.binaryPath == "" {
		return false
	}
	return e.RunStatus(ctx, args...) == nil
}

// version runs args and returns its first output line.
func (e *BaseCLIEngine) version(ctx context.Context, args ...string) (string, error) {
	first, err := e.Stream(ctx, args...).First(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get %s version: %w", e.name, err)
	}
	v, err := first.Value()
	if err != nil {
		return "", fmt.Errorf("failed to get %s version: %w", e.name, err)
	}
	return strings.TrimSpace(v), nil
}

// ListImages lists local images.
func (e *BaseCLIEngine) ListImages(ctx context.Context) (*ImageListing, error) {
	listing := &ImageListing{}
	seq := e.Stream(ctx, e.ImagesArgs()...)
	row := 0
	for seq.Next(ctx) {
		row++
		if strings.TrimSpace(seq.Line()) == "" {
			continue
		}
		img, err := ParseImageRow(row, seq.Line())
		if err != nil {
			listing.Malformed = append(listing.Malformed, err)
			continue
		}
		listing.Images = append(listing.Images, img)
	}
	if err := seq.Err(); err != nil {
		return nil, listContainerError(e.name, "list images", "images", err)
	}
	e.logMalformed(len(listing.Malformed))
	return listing, nil
}

// ListContainers lists running containers, or all containers when all is set.
func (e *BaseCLIEngine) ListContainers(ctx context.Context, all bool) (*ContainerListing, error) {
	listing := &ContainerListing{}
	seq := e.Stream(ctx, e.PsArgs(all)...)
	row := 0
	for seq.Next(ctx) {
		row++
		if strings.TrimSpace(seq.Line()) == "" {
			continue
		}
		c, err := ParseContainerRow(row, seq.Line())
		if err != nil {
			listing.Malformed = append(listing.Malformed, err)
			continue
		}
		listing.Containers = append(listing.Containers, c)
	}
	if err := seq.Err(); err != nil {
		return nil, listContainerError(e.name, "list containers", "ps", err)
	}
	e.logMalformed(len(listing.Malformed))
	return listing, nil
}

// RemoveImage removes an image and returns the engine's output lines
// ("Untagged: ...", "Deleted: ..."). Transient engine failures are retried
// with exponential backoff. Lines printed by a failed final attempt are
// returned with the error.
func (e *BaseCLIEngine) RemoveImage(ctx context.Context, target string, force bool) ([]string, error) {
	if err := ValidateImageTarget(target); err != nil {
		return nil, err
	}

	var lines []string
	err := e.retry.do(ctx,
		func(n int, err error) {
			e.logger.Debug("retrying image removal", "image", target, "retry", n, "err", err)
		},
		func() error {
			out, err := e.RunLines(ctx, e.RemoveImageArgs(target, force)...)
			lines = out
			return err
		})
	if err != nil {
		return lines, removeImageError(e.name, target, err)
	}
	return lines, nil
}

// ImageExists checks if an image exists locally.
func (e *BaseCLIEngine) ImageExists(ctx context.Context, image string) (bool, error) {
	if err := ValidateImageTarget(image); err != nil {
		return false, err
	}
	err := e.RunStatus(ctx, "image", "inspect", "--format", "{{.Id}}", image)
	if err == nil {
		return true, nil
	}
	var failure *process.ProcessFailure
	if errors.As(err, &failure) && !failure.IsLaunchFailure() {
		return false, nil
	}
	return false, err
}

func (e *BaseCLIEngine) logMalformed(n int) {
	if n > 0 {
		e.logger.Warn("skipped malformed rows", "engine", e.name, "count", n)
	}
}

// ValidateImageTarget rejects empty targets and targets containing
// whitespace, which the engine would split into several arguments.
func ValidateImageTarget(target string) error {
	if target == "" || strings.ContainsFunc(target, unicode.IsSpace) {
		return fmt.Errorf("%w %q: must be a single image reference without whitespace", ErrInvalidImageTarget, target)
	}
	return nil
}

// --- Actionable Error Helpers ---

// listContainerError creates an actionable error for listing failures.
func listContainerError(engine, operation, subcommand string, cause error) error {
	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(engine)

	var failure *process.ProcessFailure
	if errors.As(cause, &failure) && failure.IsLaunchFailure() {
		ctx.WithIssue(issue.ContainerEngineNotFoundId)
		ctx.WithSuggestion("Install " + engine + " or select another engine with --engine")
	} else {
		ctx.WithSuggestion("Check that the " + engine + " daemon or service is running (try: " + engine + " " + subcommand + ")")
	}
	ctx.WithSuggestion("Run with --verbose to see the engine's output")

	return ctx.Wrap(cause).BuildError()
}

// removeImageError creates an actionable error for image removal failures.
func removeImageError(engine, target string, cause error) error {
	ctx := issue.NewErrorContext().
		WithOperation("remove image").
		WithResource(target)

	var failure *process.ProcessFailure
	if errors.As(cause, &failure) && failure.ExitCode == types.ExitCode(1) {
		ctx.WithIssue(issue.ImageNotFoundId)
		ctx.WithSuggestion("Verify the image exists (try: " + engine + " images)")
		ctx.WithSuggestion("Stop containers using the image, or retry with -f")
	}
	ctx.WithSuggestion("Run with --verbose to see the engine's output")

	return ctx.Wrap(cause).BuildError()
}

// engineNotAvailableError creates an actionable error when neither engine works.
func engineNotAvailableError(preferred EngineType) error {
	return issue.NewErrorContext().
		WithOperation("find container engine").
		WithResource(string(preferred)).
		WithIssue(issue.ContainerEngineNotFoundId).
		WithSuggestions(
			"Install Docker (https://docs.docker.com/get-docker/) or Podman (https://podman.io/docs/installation)",
			"Make sure the engine binary is on your PATH and its daemon or socket is reachable",
		).
		Wrap(&EngineNotAvailableError{
			Engine: preferred,
			Reason: fmt.Sprintf("%s is not installed or not accessible, and %s fallback is also not available",
				preferred, otherEngine(preferred)),
		}).
		BuildError()
}
