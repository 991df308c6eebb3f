package operator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
)

// Terminal asks through huh forms.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) Terminal {
	return Terminal{in: in, out: out}
}

func (t Terminal) run(ctx context.Context, field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).
		WithInput(t.in).
		WithOutput(t.out).
		RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

func (t Terminal) Confirm(ctx context.Context, prompt string, def bool) (bool, error) {
	value := def
	err := t.run(ctx, huh.NewConfirm().
		Title(prompt).
		Affirmative("Yes").
		Negative("No").
		Value(&value),
	)
	if err != nil {
		return false, err
	}
	return value, nil
}

func (t Terminal) ReadMultiline(ctx context.Context, prompt, def string) (string, error) {
	var value string
	text := huh.NewText().
		Title(prompt).
		CharLimit(10000).
		Value(&value)
	if def != "" {
		text = text.
			Description("Leave empty to keep the current answer.").
			Placeholder(def)
	}

	err := t.run(ctx, text)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (t Terminal) Show(text string) {
	fmt.Fprintln(t.out, text)
}
