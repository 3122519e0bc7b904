package commands

import (
	"context"
	"fmt"

	"crewdispatch/infrastructure/config"
	"github.com/spf13/cobra"
)

// NewSweepCommand creates the sweep command, a one-shot run of the
// background maintenance outside the server process.
func NewSweepCommand(container *config.Container) *cobra.Command {
	var (
		expireRequests bool
		purgeTrash     bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the maintenance sweeps once",
		Long: `Expires overdue job requests and purges trash past its retention
window, then exits. With no flags both sweeps run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			all := !expireRequests && !purgeTrash

			if expireRequests || all {
				count, err := container.JobRequestUseCase.ExpireOverdue(ctx)
				if err != nil {
					return fmt.Errorf("request expiry sweep failed: %w", err)
				}
				fmt.Printf("Expired %d overdue job requests\n", count)
			}

			if purgeTrash || all {
				count, err := container.TrashUseCase.PurgeExpired(ctx)
				if err != nil {
					return fmt.Errorf("trash purge sweep failed: %w", err)
				}
				fmt.Printf("Purged %d expired trash records\n", count)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&expireRequests, "requests", false, "only expire overdue job requests")
	cmd.Flags().BoolVar(&purgeTrash, "trash", false, "only purge expired trash")

	return cmd
}
