package commands

import (
	"context"
	"fmt"
	"strconv"

	"crewdispatch/domain/interfaces"
	"crewdispatch/infrastructure/config"
	"github.com/spf13/cobra"
)

// NewTrashCommand creates the trash command group for operators.
func NewTrashCommand(container *config.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Inspect and manage the trash",
	}

	cmd.AddCommand(
		newTrashListCommand(container),
		newTrashRestoreCommand(container),
		newTrashPurgeCommand(container),
		newTrashEmptyCommand(container),
	)

	return cmd
}

func newTrashListCommand(container *config.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list [entity-type]",
		Short: "List trashed records of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			listings, err := container.TrashUseCase.ListTrash(
				context.Background(), interfaces.TrashEntityType(args[0]))
			if err != nil {
				return err
			}

			if len(listings) == 0 {
				fmt.Println("Trash is empty")
				return nil
			}

			for _, l := range listings {
				fmt.Printf("%8d  %-40s  deleted %s  purge in %d days\n",
					l.Item.ID, l.Item.Label,
					l.Item.DeletedAt.Format("2006-01-02 15:04"),
					l.DaysUntilPurge)
			}
			return nil
		},
	}
}

func newTrashRestoreCommand(container *config.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [entity-type] [id]",
		Short: "Restore a trashed record",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %w", err)
			}

			if err := container.TrashUseCase.Restore(
				context.Background(), interfaces.TrashEntityType(args[0]), id); err != nil {
				return err
			}

			fmt.Printf("Restored %s %d\n", args[0], id)
			return nil
		},
	}
}

func newTrashPurgeCommand(container *config.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "purge [entity-type] [id]",
		Short: "Permanently delete a trashed record",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %w", err)
			}

			if err := container.TrashUseCase.PermanentlyDelete(
				context.Background(), interfaces.TrashEntityType(args[0]), id); err != nil {
				return err
			}

			fmt.Printf("Permanently deleted %s %d\n", args[0], id)
			return nil
		},
	}
}

func newTrashEmptyCommand(container *config.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "empty [entity-type]",
		Short: "Permanently delete every trashed record of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			count, err := container.TrashUseCase.EmptyTrash(
				context.Background(), interfaces.TrashEntityType(args[0]))
			if err != nil {
				return err
			}

			fmt.Printf("Purged %d %s records\n", count, args[0])
			return nil
		},
	}
}
