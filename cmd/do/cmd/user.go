package cmd

import (
	"github.com/spf13/cobra"
	"github.com/templui/workoutbuddy/internal/app"
)

func UserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var id, name string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				user, err := a.UserService.Register(cmd.Context(), id, name)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), user)
			})
		},
	}
	addCmd.Flags().StringVar(&id, "id", "", "user id (required)")
	addCmd.Flags().StringVar(&name, "name", "", "display name (required)")
	_ = addCmd.MarkFlagRequired("id")
	_ = addCmd.MarkFlagRequired("name")

	userCmd.AddCommand(addCmd)
	return userCmd
}
