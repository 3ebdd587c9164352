// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newPsCommand creates the 'procline ps' command.
func newPsCommand(app *App) *cobra.Command {
	var all bool

	psCmd := &cobra.Command{
		Use:   "ps",
		Short: "List containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			engine, err := app.containerEngine(ctx)
			if err != nil {
				return err
			}

			listing, err := engine.ListContainers(ctx, all)
			if err != nil {
				return err
			}
			app.warnMalformed(listing.Malformed)

			if len(listing.Containers) == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no containers)"))
				return nil
			}

			rows := make([][]string, 0, len(listing.Containers))
			for _, c := range listing.Containers {
				status := c.Status
				if c.IsRunning() {
					status = SuccessStyle.Render(status)
				}
				rows = append(rows, []string{c.ID, c.Image, c.RunningFor, status, c.Ports, c.Names})
			}
			renderTable(app.stdout, []string{"CONTAINER ID", "IMAGE", "CREATED", "STATUS", "PORTS", "NAMES"}, rows)
			return nil
		},
	}

	psCmd.Flags().BoolVarP(&all, "all", "a", false, "show stopped containers too")

	return psCmd
}
