package operator

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
	"towerassist/internal/components/telemetry"
	"towerassist/internal/report"

	"github.com/stretchr/testify/require"
)

func TestLineConfirm(t *testing.T) {
	table := []struct {
		name     string
		input    string
		def      bool
		expected bool
	}{
		{name: "empty takes default true", input: "\n", def: true, expected: true},
		{name: "empty takes default false", input: "\n", def: false, expected: false},
		{name: "yes", input: "YES\n", def: false, expected: true},
		{name: "no", input: " n \n", def: true, expected: false},
		{name: "eof takes default", input: "", def: true, expected: true},
		{name: "asks again", input: "maybe\ny\n", def: false, expected: true},
		{name: "no trailing newline", input: "y", def: false, expected: true},
	}

	for _, testCase := range table {
		t.Run(testCase.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			l := NewLine(strings.NewReader(testCase.input), out)
			value, err := l.Confirm(context.Background(), "Submit?", testCase.def)
			require.NoError(t, err)
			require.Equal(t, testCase.expected, value)
			require.Contains(t, out.String(), "Submit?")
		})
	}
}

func TestLineReadMultiline(t *testing.T) {
	out := &bytes.Buffer{}
	l := NewLine(strings.NewReader("first line\r\n  second\n.\nnext answer\n"), out)

	value, err := l.ReadMultiline(context.Background(), "Monday", "old answer")
	require.NoError(t, err)
	require.Equal(t, "first line\n  second", value)
	require.Contains(t, out.String(), "old answer")

	value, err = l.ReadMultiline(context.Background(), "Tuesday", "")
	require.NoError(t, err)
	require.Equal(t, "next answer", value)

	// input is exhausted, the first prompt past the end gets an empty answer
	value, err = l.ReadMultiline(context.Background(), "Wednesday", "")
	require.NoError(t, err)
	require.Equal(t, "", value)

	_, err = l.ReadMultiline(context.Background(), "Thursday", "")
	require.ErrorIs(t, err, ErrAborted)

	l.Show("summary")
	require.True(t, strings.HasSuffix(out.String(), "summary\n"))
}

func TestLineCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLine(strings.NewReader("y\n"), &bytes.Buffer{})
	_, err := l.Confirm(ctx, "Submit?", true)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLineConfirmExhausted(t *testing.T) {
	l := NewLine(strings.NewReader("y\n"), &bytes.Buffer{})

	value, err := l.Confirm(context.Background(), "Submit?", false)
	require.NoError(t, err)
	require.True(t, value)

	value, err = l.Confirm(context.Background(), "Submit?", true)
	require.NoError(t, err)
	require.True(t, value)

	_, err = l.Confirm(context.Background(), "Submit?", true)
	require.ErrorIs(t, err, ErrAborted)
}

func TestLineReconcileEmptyInput(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := &bytes.Buffer{}
	rec := telemetry.NewRecorder()
	_, err := report.NewReconciler(nil, nil, false, NewLine(strings.NewReader(""), out), rec).Run(ctx)
	require.ErrorIs(t, err, ErrAborted)
	require.NoError(t, ctx.Err())
}
