package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/workoutbuddy/internal/app"
	"github.com/templui/workoutbuddy/internal/model"
)

func ProgressCmd() *cobra.Command {
	var userID, date string

	progressCmd := &cobra.Command{
		Use:   "progress",
		Short: "Print weekly progress for a user as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := time.Now().UTC()
			if date != "" {
				parsed, err := time.Parse(model.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
				}
				ref = parsed
			}

			return withApp(cmd.Context(), func(a *app.App) error {
				progress, err := a.ProgressService.WeeklyProgress(cmd.Context(), userID, ref)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), progress)
			})
		},
	}
	progressCmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	progressCmd.Flags().StringVar(&date, "date", "", "any day of the week, YYYY-MM-DD (default today)")
	_ = progressCmd.MarkFlagRequired("user")

	return progressCmd
}
