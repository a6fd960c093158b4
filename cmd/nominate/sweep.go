package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/nominate/internal/nominate/app"
)

func sweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one housekeeping pass: expired sessions and orphaned CV blobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(cmd.Context(), func(ctx context.Context, application *app.Application) error {
				result := application.Sweep(ctx)
				fmt.Fprintf(cmd.OutOrStdout(),
					"expired sessions removed: %d\norphaned blobs removed: %d\norphaned blobs kept: %d\n",
					result.ExpiredSessions, result.OrphansDeleted, result.OrphansKept)
				return nil
			})
		},
	}
}
