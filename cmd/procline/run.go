// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/invowk/procline/internal/issue"
	"github.com/invowk/procline/internal/process"
	"github.com/invowk/procline/pkg/types"
)

// errInvalidEnv is returned for an --env value without '='.
var errInvalidEnv = errors.New("environment override must be KEY=VALUE")

// runFlags holds the flags shared by 'run' and 'exec'.
type runFlags struct {
	dir         string
	env         []string
	encoding    string
	okExitCodes []string
	timeout     string
}

// bind registers the shared flags on cmd.
func (f *runFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "dir", "C", "", "working directory for the program")
	cmd.Flags().StringArrayVarP(&f.env, "env", "e", nil, "environment override KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "character encoding of the program output (e.g. shift_jis)")
	cmd.Flags().StringSliceVar(&f.okExitCodes, "ok-exit-code", nil, "exit code treated as success (repeatable, default from config)")
	cmd.Flags().StringVar(&f.timeout, "timeout", "", "kill the program after this duration (e.g. 30s)")
}

// environment parses the --env overrides.
func (f *runFlags) environment() (map[string]string, error) {
	if len(f.env) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(f.env))
	for _, kv := range f.env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidEnv, kv)
		}
		env[key] = value
	}
	return env, nil
}

// workDir validates --dir before anything is launched.
func (f *runFlags) workDir() (types.FilesystemPath, error) {
	dir := types.FilesystemPath(f.dir)
	if !dir.IsSet() {
		return "", nil
	}
	if err := dir.ValidateDir(); err != nil {
		return "", issue.NewErrorContext().
			WithOperation("use working directory").
			WithResource(f.dir).
			WithIssue(issue.WorkingDirectoryNotFoundId).
			WithSuggestion("Pass an existing directory to --dir").
			Wrap(err).
			BuildError()
	}
	return dir, nil
}

// request builds the process request for program and its arguments.
func (f *runFlags) request(program string, args []string) (process.Request, error) {
	dir, err := f.workDir()
	if err != nil {
		return process.Request{}, err
	}
	env, err := f.environment()
	if err != nil {
		return process.Request{}, err
	}
	codes, err := types.ParseExitCodeSet(f.okExitCodes)
	if err != nil {
		return process.Request{}, err
	}
	return process.Request{
		Path:                program,
		Args:                args,
		Dir:                 dir,
		Env:                 env,
		Encoding:            f.encoding,
		AcceptableExitCodes: codes,
	}, nil
}

// newRunCommand creates the 'procline run' command.
func newRunCommand(app *App) *cobra.Command {
	var (
		flags  runFlags
		dual   bool
		binary bool
		stdin  bool
		output string
	)

	runCmd := &cobra.Command{
		Use:   "run [flags] [--] <program> [args...]",
		Short: "Run a program and stream its output lines",
		Long: `Run a program directly (no shell) and print its standard output line by line.

The run fails when the program exits with a code outside the acceptable set
or writes anything to standard error. The program's own exit code is passed
through.

With --dual, standard error is printed as it arrives instead of failing the
run. With --binary, standard output is copied as raw bytes. The program's
standard input is empty unless --stdin forwards procline's own.`,
		Example: `  procline run -- git log --oneline -n 5
  procline run --ok-exit-code 0,1 -- grep -r TODO .
  procline run --dual -- make build
  git diff | procline run --stdin -- wc -l
  procline run --binary --output logo.png -- curl -s https://example.com/logo.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args[0], args[1:])
			if err != nil {
				return err
			}
			if stdin {
				req.Stdin = app.stdin
			}

			ctx, cancel, err := app.withTimeout(cmd.Context(), flags.timeout)
			if err != nil {
				return err
			}
			defer cancel()

			start := time.Now()
			executor := app.executor()
			switch {
			case binary:
				err = runBinary(ctx, app, executor, req, output)
			case dual:
				err = runDual(ctx, app, executor, req)
			default:
				err = executor.Execute(ctx, req).WriteLines(ctx, app.stdout)
			}
			if err != nil {
				return classifyRunError(err, req.String())
			}
			app.logger.Debug("program finished", "command", req.String(), "elapsed", elapsed(start))
			return nil
		},
	}

	runCmd.Flags().SetInterspersed(false)
	flags.bind(runCmd)
	runCmd.Flags().BoolVar(&dual, "dual", false, "stream standard error separately instead of failing on it")
	runCmd.Flags().BoolVar(&binary, "binary", false, "copy standard output as raw bytes")
	runCmd.Flags().BoolVar(&stdin, "stdin", false, "forward standard input to the program")
	runCmd.Flags().StringVarP(&output, "output", "o", "", "write --binary output to this file instead of stdout")
	runCmd.MarkFlagsMutuallyExclusive("dual", "binary")

	return runCmd
}

// runDual streams stdout and stderr concurrently. Stderr lines go to the
// App's stderr and never fail the run.
func runDual(ctx context.Context, app *App, executor *process.Executor, req process.Request) error {
	run, stdout, stderr := executor.ExecuteDual(ctx, req)
	defer func() { _ = run.Close() }()

	var g errgroup.Group
	g.Go(func() error {
		return stdout.WriteLines(ctx, app.stdout)
	})
	g.Go(func() error {
		for line, err := range stderr.All(ctx) {
			if err != nil {
				if process.IsCancelled(err) {
					return nil
				}
				return err
			}
			fmt.Fprintln(app.stderr, WarningStyle.Render(line))
		}
		return nil
	})
	return g.Wait()
}

// runBinary captures stdout as bytes and writes it to path or the App's stdout.
func runBinary(ctx context.Context, app *App, executor *process.Executor, req process.Request, path string) error {
	data, err := executor.ReadBinary(ctx, req)
	if err != nil {
		return err
	}

	var w io.Writer = app.stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return issue.WrapWithContext(err, "create output file", path)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write binary output: %w", err)
	}
	app.logger.Debug("wrote binary output", "bytes", len(data), "path", path)
	return nil
}

// classifyRunError maps a run failure to an actionable error linked to the
// issue catalog. Errors that are already actionable pass through.
func classifyRunError(err error, command string) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	ec := issue.NewErrorContext().WithOperation("run program").WithResource(command)
	switch {
	case process.IsCancelled(err):
		ec.WithIssue(issue.ProcessCancelledId).
			WithSuggestion("Increase --timeout if the program needs more time")
	case errors.Is(err, process.ErrInvalidCommandLine):
		ec.WithIssue(issue.InvalidCommandLineId).
			WithSuggestion("Check that every quote is closed")
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		ec.WithIssue(issue.ExecutableNotFoundId).
			WithSuggestion("Check the program name or pass an absolute path")
	case errors.Is(err, fs.ErrPermission):
		ec.WithIssue(issue.PermissionDeniedId).
			WithSuggestion("Make sure the program file is executable")
	case errors.Is(err, process.ErrProcessFailed):
		ec.WithIssue(issue.ProcessFailedId).
			WithSuggestions(
				"Accept more exit codes with --ok-exit-code",
				"Use --dual to keep standard error output without failing",
			)
	default:
		return err
	}
	return ec.Wrap(err).BuildError()
}
