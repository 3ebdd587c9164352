// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/procline/internal/container"
)

// newImagesCommand creates the 'procline images' command.
func newImagesCommand(app *App) *cobra.Command {
	var (
		filter string
		quiet  bool
		exists string
	)

	imagesCmd := &cobra.Command{
		Use:   "images",
		Short: "List local container images",
		Long: `List local images of the selected container engine.

--filter takes a glob matched against the image reference (repository:tag),
the repository alone, or the image ID. A single '*' does not cross '/';
use '**' for that.

--exists prints nothing and exits 0 when the given image is present locally,
1 otherwise.`,
		Example: `  procline images
  procline images --filter 'debian*'
  procline images --filter 'ghcr.io/**' -q
  procline images --exists debian:stable-slim`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			engine, err := app.containerEngine(ctx)
			if err != nil {
				return err
			}

			if exists != "" {
				found, err := engine.ImageExists(ctx, exists)
				if err != nil {
					return err
				}
				if !found {
					return &ExitError{Code: exitGeneric, Err: fmt.Errorf("image %s not found locally", exists)}
				}
				return nil
			}

			listing, err := engine.ListImages(ctx)
			if err != nil {
				return err
			}
			app.warnMalformed(listing.Malformed)

			images, err := container.FilterImages(listing.Images, filter)
			if err != nil {
				return err
			}

			if quiet {
				for _, img := range images {
					fmt.Fprintln(app.stdout, img.ID)
				}
				return nil
			}
			if len(images) == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no images)"))
				return nil
			}

			rows := make([][]string, 0, len(images))
			for _, img := range images {
				rows = append(rows, []string{img.Repository, img.Tag, img.ID, img.CreatedSince, img.Size})
			}
			renderTable(app.stdout, []string{"REPOSITORY", "TAG", "IMAGE ID", "CREATED", "SIZE"}, rows)
			return nil
		},
	}

	imagesCmd.Flags().StringVarP(&filter, "filter", "f", "", "glob pattern the image must match")
	imagesCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print image IDs")
	imagesCmd.Flags().StringVar(&exists, "exists", "", "exit 0 if the image is present locally, 1 otherwise")
	imagesCmd.MarkFlagsMutuallyExclusive("exists", "filter")
	imagesCmd.MarkFlagsMutuallyExclusive("exists", "quiet")

	return imagesCmd
}
