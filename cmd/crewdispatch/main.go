package main

import (
	"os"

	"crewdispatch/cmd/crewdispatch/commands"
	"crewdispatch/infrastructure/config"
	"github.com/spf13/cobra"
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "crewdispatch",
		Short: "Job pool and assignment engine",
		Long: `The dispatch backbone for field service work: materializes jobs from
accepted bookings and quotes, exposes them to workers through the claim
pool and targeted requests, and coordinates assignment, work logging,
and invoice preparation.`,
	}

	// Global flags
	var configPath string
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	// Version command needs no container.
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		rootCmd.PrintErrf("Failed to load config: %v\n", err)
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	// Create dependency container
	container, err := config.NewContainer(cfg)
	if err != nil {
		rootCmd.PrintErrf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer container.Close()

	// Add commands
	rootCmd.AddCommand(
		commands.NewServeCommand(container),
		commands.NewSweepCommand(container),
		commands.NewTrashCommand(container),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
