package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/workoutbuddy/cmd/do/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "do",
		Short:        "Operator tools for workoutbuddy",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.UserCmd())
	rootCmd.AddCommand(cmd.TokenCmd())
	rootCmd.AddCommand(cmd.ProgressCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
