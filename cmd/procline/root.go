// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "procline",
		Short: "Run programs and stream their output line by line",
		Long: TitleStyle.Render("procline") + SubtitleStyle.Render(" - run programs and stream their output line by line") + `

procline starts a program directly (no shell), streams its standard output
as lines, and fails when the program writes to standard error or exits with
an unacceptable code. It also wraps the docker/podman CLI for image and
container listings.

` + SubtitleStyle.Render("Examples:") + `
  procline run -- git log --oneline        Stream a program's output
  procline run --ok-exit-code 1 -- grep x  Accept exit code 1
  procline exec "ls -la '$HOME/my dir'"    Run a quoted command line
  procline images --filter 'library/*'     List matching images
  procline config show --format toml       Show the configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			app.loadSettings(cmd.Context())
		},
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging and full error chains")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $HOME/.config/procline/config.cue)")
	rootCmd.PersistentFlags().StringVar(&app.engine, "engine", "", "container engine: docker, podman or auto (default from config)")

	rootCmd.AddCommand(
		newRunCommand(app),
		newExecCommand(app),
		newImagesCommand(app),
		newPsCommand(app),
		newRmiCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the CLI with args and returns the process exit status.
func (a *App) Run(ctx context.Context, args []string) int {
	rootCmd := NewRootCommand(a)
	rootCmd.SetArgs(args)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			a.handleError(w, err)
		}),
	)
	return int(exitCodeFor(err))
}

// Main runs the CLI against the process arguments and returns the exit status.
func Main() int {
	return NewApp(Dependencies{}).Run(context.Background(), os.Args[1:])
}

// Execute runs the CLI and exits.
// This is called by main.main().
func Execute() {
	os.Exit(Main())
}
