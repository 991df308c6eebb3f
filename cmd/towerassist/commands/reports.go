package commands

import (
	"fmt"
	"os"
	"towerassist/internal/operator"
	"towerassist/internal/report"
	"towerassist/internal/tower"

	"github.com/spf13/cobra"
)

func init() {
	reportsCmd.AddCommand(reportsShowCmd)
	reportsCmd.AddCommand(reportsSendCmd)
	reportsCmd.AddCommand(reportsTodayCmd)
	reportsCmd.AddCommand(reportsFakeCmd)
	rootCmd.AddCommand(reportsCmd)
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Show or submit weekly reports.",
}

func newWorkflow(cmd *cobra.Command, session *tower.Session) *report.Workflow {
	return report.NewWorkflow(
		session,
		operator.New(os.Stdin, cmd.OutOrStdout()),
		cmd.OutOrStdout(),
		report.Options{
			NoConfirm:   config.NoConfirm,
			Placeholder: config.Placeholder,
		},
		tel,
	)
}

func targetWeek() tower.Week {
	date, err := targetDate()
	if err != nil {
		fatal("invalid --date", err)
	}
	return tower.WeekOf(date)
}

// printWorkflowError reports a failed workflow, the process still exits cleanly.
func printWorkflowError(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
	}
}

var reportsShowCmd = &cobra.Command{
	Use:   "show [--date <day>]",
	Short: "Shows the weekly report submitted for the week of --date.",
	Run: func(cmd *cobra.Command, args []string) {
		session, _ := connect(cmd.Context())
		err := newWorkflow(cmd, session).Show(cmd.Context(), targetWeek())
		printWorkflowError(cmd, err)
	},
}

var reportsSendCmd = &cobra.Command{
	Use:   "send [--date <day>] [--no-confirm]",
	Short: "Fills in and submits the whole weekly report.",
	Run: func(cmd *cobra.Command, args []string) {
		session, _ := connect(cmd.Context())
		_, err := newWorkflow(cmd, session).Send(cmd.Context(), targetWeek())
		printWorkflowError(cmd, err)
	},
}

var reportsTodayCmd = &cobra.Command{
	Use:   "today [--date <day>] [--no-confirm]",
	Short: "Fills in only the answer for one day and submits the week.",
	Run: func(cmd *cobra.Command, args []string) {
		date, err := targetDate()
		if err != nil {
			fatal("invalid --date", err)
		}
		session, _ := connect(cmd.Context())
		_, err = newWorkflow(cmd, session).SendDay(cmd.Context(), date)
		printWorkflowError(cmd, err)
	},
}

var reportsFakeCmd = &cobra.Command{
	Use:   "fake [--date <day>]",
	Short: "Submits the weekly report with a placeholder in every empty answer.",
	Run: func(cmd *cobra.Command, args []string) {
		session, _ := connect(cmd.Context())
		_, err := newWorkflow(cmd, session).SendPlaceholder(cmd.Context(), targetWeek())
		printWorkflowError(cmd, err)
	},
}
