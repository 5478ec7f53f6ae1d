package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/workoutbuddy/internal/app"
)

// TokenCmd mints a bearer token for an existing user, for local testing.
func TokenCmd() *cobra.Command {
	var userID string

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Print a JWT for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				_, err := a.UserService.ByID(cmd.Context(), userID)
				if err != nil {
					return err
				}

				token, err := a.TokenService.GenerateJWT(userID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}
	tokenCmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	_ = tokenCmd.MarkFlagRequired("user")

	return tokenCmd
}
