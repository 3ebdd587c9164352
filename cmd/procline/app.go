// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/invowk/procline/internal/config"
	"github.com/invowk/procline/internal/container"
	"github.com/invowk/procline/internal/issue"
	"github.com/invowk/procline/internal/process"
	"github.com/invowk/procline/pkg/types"
)

// engineAuto selects whichever engine answers first.
const engineAuto = "auto"

type (
	// EngineFactory resolves the container engine for a command.
	EngineFactory func(ctx context.Context, preferred string, opts ...container.BaseCLIEngineOption) (container.Engine, error)

	// App wires CLI services and shared dependencies. Cobra handlers receive
	// an App and delegate through it; per-invocation state (flags, loaded
	// configuration, logger) lives here too.
	App struct {
		Config    config.Provider
		NewEngine EngineFactory

		execCommand process.ExecCommandFunc
		stdin       io.Reader
		stdout      io.Writer
		stderr      io.Writer

		// Global flags.
		verbose    bool
		configPath string
		engine     string

		// Resolved by loadSettings before every command.
		cfg     *config.Config
		cfgPath types.FilesystemPath
		cfgErr  error
		logger  *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      config.Provider
		NewEngine   EngineFactory
		ExecCommand process.ExecCommandFunc
		Stdin       io.Reader
		Stdout      io.Writer
		Stderr      io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.NewEngine == nil {
		deps.NewEngine = resolveEngine
	}

	return &App{
		Config:      deps.Config,
		NewEngine:   deps.NewEngine,
		execCommand: deps.ExecCommand,
		stdin:       deps.Stdin,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		cfg:         config.DefaultConfig(),
		logger:      newLogger(deps.Stderr, false),
	}
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "procline"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// resolveEngine is the production EngineFactory.
func resolveEngine(ctx context.Context, preferred string, opts ...container.BaseCLIEngineOption) (container.Engine, error) {
	if preferred == engineAuto {
		engine, err := container.AutoDetectEngine(ctx, opts...)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("find container engine").
				WithIssue(issue.ContainerEngineNotFoundId).
				WithSuggestion("Install Docker or Podman and make sure it is on your PATH").
				Wrap(err).
				BuildError()
		}
		return engine, nil
	}
	return container.NewEngine(ctx, container.EngineType(preferred), opts...)
}

// loadSettings loads the configuration and applies it under the global
// flags. A broken config is reported as a warning and defaults are used, so
// that 'config init' and 'config show' stay usable.
func (a *App) loadSettings(ctx context.Context) {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.configPath)})
	if err != nil {
		a.cfgErr = err
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.verbose))
	} else {
		a.cfg = loaded.Config
		a.cfgPath = loaded.Path
	}

	if !a.verbose {
		a.verbose = a.cfg.UI.Verbose
	}
	if a.engine == "" {
		a.engine = a.cfg.ContainerEngine.String()
	}
	a.logger = newLogger(a.stderr, a.verbose)
	if a.cfgPath.IsSet() {
		a.logger.Debug("loaded configuration", "path", a.cfgPath)
	}
}

// executor builds a process executor from the loaded configuration.
func (a *App) executor(extra ...process.Option) *process.Executor {
	opts := []process.Option{
		process.WithLogger(a.logger),
		process.WithAcceptableExitCodes(a.cfg.ExitCodes()),
		process.WithEncoding(a.cfg.Encoding),
		process.WithExecCommand(a.execCommand),
	}
	return process.NewExecutor(append(opts, extra...)...)
}

// containerEngine resolves the engine selected by --engine or config.
func (a *App) containerEngine(ctx context.Context) (container.Engine, error) {
	opts := []container.BaseCLIEngineOption{
		container.WithLogger(a.logger),
		container.WithEncoding(a.cfg.Encoding),
	}
	if a.execCommand != nil {
		opts = append(opts, container.WithExecCommand(container.ExecCommandFunc(a.execCommand)))
	}
	engine, err := a.NewEngine(ctx, a.engine, opts...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("using container engine", "engine", engine.Name())
	return engine, nil
}

// withTimeout bounds ctx by flagValue, falling back to the configured timeout.
func (a *App) withTimeout(ctx context.Context, flagValue string) (context.Context, context.CancelFunc, error) {
	timeout := a.cfg.Timeout
	if flagValue != "" {
		timeout = config.Timeout(flagValue)
	}
	d, err := timeout.Duration()
	if err != nil {
		return nil, nil, err
	}
	if d == 0 {
		ctx, cancel := context.WithCancel(ctx)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithTimeoutCause(ctx, d, fmt.Errorf("timed out after %s: %w", d, context.DeadlineExceeded))
	return ctx, cancel, nil
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// handleError renders a failed command. In verbose mode the linked catalog
// issue is rendered below the message.
func (a *App) handleError(w io.Writer, err error) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))

	var ae *issue.ActionableError
	if a.verbose && errors.As(err, &ae) {
		if help := ae.Help(a.cfg.UI.ColorScheme.GlamourStyle()); help != "" {
			fmt.Fprint(w, help)
		}
	}
}

// elapsed is used for debug logs of completed runs.
func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
