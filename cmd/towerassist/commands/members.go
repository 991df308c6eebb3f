package commands

import (
	"fmt"
	"towerassist/lib/tableutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(membersCmd)
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Lists the team members that can be mentioned.",
	Run: func(cmd *cobra.Command, args []string) {
		session, directory := connect(cmd.Context())

		t := tableutil.New(cmd.OutOrStdout())
		t.SetTitle("%d members", directory.Len())
		t.AppendHeader(table.Row{"Name", "Id"})
		for _, name := range directory.Names() {
			id, _ := directory.Lookup(name)
			if id == session.MemberId() {
				name = fmt.Sprintf("%s (you)", name)
			}
			t.AppendRow(table.Row{name, id})
		}
		t.Render()
	},
}
