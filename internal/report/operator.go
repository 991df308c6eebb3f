package report

import "context"

// Operator is whoever answers the prompts of a workflow, a terminal in
// production and a script in tests.
type Operator interface {
	// Confirm asks a yes/no question, def is what an empty reply means.
	Confirm(ctx context.Context, prompt string, def bool) (bool, error)
	// ReadMultiline reads one free-form, possibly multi-line answer. def is
	// only displayed, an empty reply is returned as "".
	ReadMultiline(ctx context.Context, prompt, def string) (string, error)
	// Show displays informational text.
	Show(text string)
}
