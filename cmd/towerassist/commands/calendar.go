package commands

import (
	"fmt"
	"towerassist/lib/tableutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(calendarCmd)
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Lists the events on the team calendar.",
	Run: func(cmd *cobra.Command, args []string) {
		session, _ := connect(cmd.Context())

		events, err := session.CalendarEvents(cmd.Context())
		if err != nil {
			printWorkflowError(cmd, err)
			return
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No calendar events.")
			return
		}

		t := tableutil.New(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Time", "Event", "Link"})
		for _, e := range events {
			t.AppendRow(table.Row{
				e.Time,
				e.Content,
				session.EventUrl(e.Guid),
			})
		}
		t.Render()
	},
}
