// Package operator implements the prompts the report workflows ask, either
// as terminal forms or as plain lines for piped input.
package operator

import (
	"errors"
	"io"
	"os"
	"towerassist/internal/report"

	"golang.org/x/term"
)

// ErrAborted is returned when the operator cancels a prompt.
var ErrAborted = errors.New("operator: aborted")

// New picks the terminal forms when in is a terminal and plain lines otherwise.
func New(in *os.File, out io.Writer) report.Operator {
	if term.IsTerminal(int(in.Fd())) {
		return NewTerminal(in, out)
	}
	return NewLine(in, out)
}
