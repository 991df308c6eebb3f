package commands

import (
	"fmt"
	"towerassist/internal/overtime"
	"towerassist/internal/tower"

	"github.com/spf13/cobra"
)

var (
	overtimeCc    string
	overtimeTitle string
)

func init() {
	overtimeCmd.Flags().StringVar(&overtimeCc, "cc", "", "The display name of the member to mention.")
	overtimeCmd.Flags().StringVar(&overtimeTitle, "title", "", "The title of the calendar event, defaults to overtime_title.")
	overtimeCmd.MarkFlagRequired("cc")
	rootCmd.AddCommand(overtimeCmd)
}

var overtimeCmd = &cobra.Command{
	Use:   "overtime --cc <name> [--title <title>]",
	Short: "Records overtime until now on the team calendar and mentions a member on it.",
	Long:  `Records overtime on the team calendar from overtime_start_hour until now,
rounded to the nearest half hour, and mentions a member on the event.

Run after midnight, the event starts at overtime_start_hour of the previous
day as long as it spans at most 12 hours.`,
	Run: func(cmd *cobra.Command, args []string) {
		session, directory := connect(cmd.Context())

		recorder := overtime.NewRecorder(
			session,
			directory,
			browserOpener{},
			clock,
			overtime.Options{
				StartHour: config.OvertimeStartHour,
				Title:     config.OvertimeTitle,
			},
			tel,
		)
		record, err := recorder.Record(cmd.Context(), overtimeTitle, overtimeCc)
		if err != nil {
			printWorkflowError(cmd, err)
			return
		}
		fmt.Fprintf(
			cmd.OutOrStdout(),
			"Recorded overtime %s to %s: %s\n",
			record.Start.Format(tower.CalendarTimeLayout),
			record.End.Format("15:04"),
			record.Url,
		)
	},
}
