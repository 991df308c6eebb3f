package tableutil

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// New returns a rounded table writer that renders into out. Column widths are
// capped so long report contents wrap instead of stretching the terminal.
func New(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: 32, WidthMaxEnforcer: text.WrapSoft},
		{Number: 2, WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Number: 3, WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})
	return t
}
