// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/procline/internal/container"
)

// newRmiCommand creates the 'procline rmi' command.
func newRmiCommand(app *App) *cobra.Command {
	var force bool

	rmiCmd := &cobra.Command{
		Use:   "rmi <image>...",
		Short: "Remove container images",
		Long: `Remove one or more images by reference or ID. Every image is attempted;
the command fails if any removal failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, err := app.containerEngine(ctx)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				return removeImage(ctx, app, engine, args[0], force)
			}

			failed := 0
			for _, target := range args {
				if err := removeImage(ctx, app, engine, target, force); err != nil {
					app.handleError(app.stderr, err)
					failed++
				}
			}
			if failed > 0 {
				return &ExitError{Code: exitGeneric, Err: fmt.Errorf("%d of %d images could not be removed", failed, len(args))}
			}
			return nil
		},
	}

	rmiCmd.Flags().BoolVarP(&force, "force", "f", false, "force removal of the image")

	return rmiCmd
}

func removeImage(ctx context.Context, app *App, engine container.Engine, target string, force bool) error {
	lines, err := engine.RemoveImage(ctx, target, force)
	for _, line := range lines {
		fmt.Fprintln(app.stdout, line)
	}
	return err
}
