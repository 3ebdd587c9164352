// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/invowk/procline/internal/process"
	"github.com/invowk/procline/pkg/types"
)

// newExecCommand creates the 'procline exec' command.
func newExecCommand(app *App) *cobra.Command {
	var flags runFlags

	execCmd := &cobra.Command{
		Use:   "exec [flags] <command line>",
		Short: "Split a command line with shell quoting rules and run it",
		Long: `Split a command line into words using POSIX shell quoting and parameter
expansion, then run it directly. No shell is started, so pipes, redirections
and command substitution are rejected.

Variables set with --env take precedence over the environment during expansion.`,
		Example: `  procline exec "ls -la '/tmp/my dir'"
  procline exec --env NAME=world 'echo "hello $NAME"'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.Join(args, " ")

			dir, err := flags.workDir()
			if err != nil {
				return err
			}
			env, err := flags.environment()
			if err != nil {
				return err
			}

			ctx, cancel, err := app.withTimeout(cmd.Context(), flags.timeout)
			if err != nil {
				return err
			}
			defer cancel()

			opts, err := flags.executorOptions()
			if err != nil {
				return err
			}
			executor := app.executor(opts...)

			start := time.Now()
			seq := executor.ExecuteCommandLine(ctx, line, dir, env)
			if err := seq.WriteLines(ctx, app.stdout); err != nil {
				return classifyRunError(err, line)
			}
			app.logger.Debug("command line finished", "line", line, "elapsed", elapsed(start))
			return nil
		},
	}

	execCmd.Flags().SetInterspersed(false)
	flags.bind(execCmd)
	return execCmd
}

// executorOptions turns --encoding and --ok-exit-code into executor
// defaults, since a command line carries no per-request settings.
func (f *runFlags) executorOptions() ([]process.Option, error) {
	var opts []process.Option
	if f.encoding != "" {
		opts = append(opts, process.WithEncoding(f.encoding))
	}
	codes, err := types.ParseExitCodeSet(f.okExitCodes)
	if err != nil {
		return nil, err
	}
	if codes != nil {
		opts = append(opts, process.WithAcceptableExitCodes(codes))
	}
	return opts, nil
}
