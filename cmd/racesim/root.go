package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var trackPath, driversPath string

	cmd := &cobra.Command{
		Use:   "racesim",
		Short: "Deterministic open-wheel race simulation engine",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&trackPath, "track", "", "path to a track definition file (YAML/JSON)")
	cmd.PersistentFlags().StringVar(&driversPath, "drivers", "", "path to a driver roster file (YAML/JSON)")

	cmd.AddCommand(newSimulateCommand(&trackPath, &driversPath))
	cmd.AddCommand(newServeCommand())

	return cmd
}

// Execute runs the root command to completion, exiting the process on a
// terminal error.
func Execute(ctx context.Context) {
	// a missing .env is normal; viper's AutomaticEnv still picks up whatever
	// is already in the process environment.
	_ = godotenv.Load()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		panic(err)
	}
}
