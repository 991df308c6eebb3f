package operator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// endOfAnswer on a line of its own ends a multi-line answer.
const endOfAnswer = "."

// Line asks through plain lines of text, it is what runs when input is piped.
type Line struct {
	in  *bufio.Reader
	out io.Writer
	// drained is set once a prompt found no input left, any later prompt
	// that finds none aborts.
	drained bool
}

func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

// readLine returns a line without its terminator, eof is only set once
// nothing more can be read.
func (l *Line) readLine(ctx context.Context) (line string, eof bool, err error) {
	err = ctx.Err()
	if err != nil {
		return "", false, err
	}
	line, err = l.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return strings.TrimRight(line, "\r\n"), line == "", nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), false, nil
}

func (l *Line) Confirm(ctx context.Context, prompt string, def bool) (bool, error) {
	choices := "y/N"
	if def {
		choices = "Y/n"
	}

	for {
		fmt.Fprintf(l.out, "%s [%s]: ", prompt, choices)
		line, eof, err := l.readLine(ctx)
		if err != nil {
			return false, err
		}
		if eof {
			fmt.Fprintln(l.out)
			err = l.drain()
			if err != nil {
				return false, err
			}
			return def, nil
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(l.out, "Please answer y or n.")
	}
}

func (l *Line) ReadMultiline(ctx context.Context, prompt, def string) (string, error) {
	fmt.Fprintf(l.out, "%s\n", prompt)
	if def != "" {
		fmt.Fprintf(l.out, "Current answer (an empty answer keeps it):\n%s\n", def)
	}
	fmt.Fprintf(l.out, "End the answer with a line containing only %q.\n", endOfAnswer)

	var lines []string
	for {
		line, eof, err := l.readLine(ctx)
		if err != nil {
			return "", err
		}
		if eof && len(lines) == 0 {
			err = l.drain()
			if err != nil {
				return "", err
			}
		}
		if eof || line == endOfAnswer {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func (l *Line) drain() error {
	if l.drained {
		return fmt.Errorf("%w: input exhausted", ErrAborted)
	}
	l.drained = true
	return nil
}

func (l *Line) Show(text string) {
	fmt.Fprintln(l.out, text)
}
