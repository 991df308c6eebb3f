package report

import (
	"context"
	"fmt"
	"strings"
	"towerassist/internal/components/assert"
	"towerassist/internal/components/telemetry"
	"towerassist/internal/tower"
	"towerassist/lib/htmlutil"
)

const report_reconciler = "reconciler"

type reconcilerState int

const (
	stateAwaitingConfirmation reconcilerState = iota
	stateReconciling
	stateConfirmed
)

func (s reconcilerState) String() string {
	switch s {
	case stateAwaitingConfirmation:
		return "awaiting-confirmation"
	case stateReconciling:
		return "reconciling"
	case stateConfirmed:
		return "confirmed"
	}
	return fmt.Sprintf("reconcilerState(%d)", int(s))
}

// Reconciler converges a set of answers onto the fields of a weekly report,
// asking the operator until they confirm. answers[i] always answers fields[i].
type Reconciler struct {
	fields    []tower.WeeklyField
	answers   []string
	noConfirm bool

	state reconcilerState
	// missingOnly limits the next reconciling pass to unanswered fields
	missingOnly bool

	op  Operator
	tel telemetry.API
}

// NewReconciler starts a reconciliation from prior answers, extra prior
// answers beyond the last field are dropped.
func NewReconciler(fields []tower.WeeklyField, prior []string, noConfirm bool, op Operator, tel telemetry.API) *Reconciler {
	assert.NotNil(op)
	assert.NotNil(tel)

	answers := make([]string, len(prior))
	copy(answers, prior)
	if len(answers) > len(fields) {
		tel.ReportWarning(
			report_reconciler,
			fmt.Sprintf("dropping %d answers without a field", len(answers)-len(fields)),
		)
		answers = answers[:len(fields)]
	}

	return &Reconciler{
		fields:    fields,
		answers:   answers,
		noConfirm: noConfirm,
		state:     stateAwaitingConfirmation,
		op:        op,
		tel:       tel,
	}
}

// Run blocks until the operator confirms and returns answers aligned with
// the fields.
func (r *Reconciler) Run(ctx context.Context) ([]string, error) {
	for {
		r.tel.ReportDebug("reconciler step", "state", r.state.String(), "answers", len(r.answers))

		switch r.state {
		case stateAwaitingConfirmation:
			err := r.awaitConfirmation(ctx)
			if err != nil {
				return nil, err
			}
		case stateReconciling:
			err := r.reconcile(ctx)
			if err != nil {
				return nil, err
			}
			if len(r.answers) != len(r.fields) {
				r.tel.ReportBroken(report_reconciler, tower.ErrAlignmentViolation, len(r.answers), len(r.fields))
				return nil, fmt.Errorf(
					"%w: %d answers for %d fields",
					tower.ErrAlignmentViolation, len(r.answers), len(r.fields),
				)
			}
			r.state = stateAwaitingConfirmation
		case stateConfirmed:
			out := make([]string, len(r.answers))
			copy(out, r.answers)
			return out, nil
		}
	}
}

func (r *Reconciler) awaitConfirmation(ctx context.Context) error {
	r.op.Show(r.summary())

	confirmed := true
	if !r.noConfirm {
		var err error
		confirmed, err = r.op.Confirm(ctx, "Submit these answers?", len(r.answers) > 0)
		if err != nil {
			return err
		}
	}

	switch {
	case confirmed && len(r.answers) == len(r.fields):
		r.state = stateConfirmed
	case confirmed:
		r.missingOnly = true
		r.state = stateReconciling
	default:
		r.missingOnly = false
		r.state = stateReconciling
	}
	return nil
}

func (r *Reconciler) reconcile(ctx context.Context) error {
	start := 0
	if r.missingOnly {
		start = len(r.answers)
	}

	for i := start; i < len(r.fields); i++ {
		def := ""
		if i < len(r.answers) {
			def = htmlutil.FragmentText(r.answers[i])
		}

		answer, err := r.op.ReadMultiline(ctx, r.fields[i].Label, def)
		if err != nil {
			return err
		}

		switch {
		case i >= len(r.answers):
			r.answers = append(r.answers, answer)
		case answer != "":
			r.answers[i] = answer
		}
	}
	return nil
}

func (r *Reconciler) summary() string {
	var b strings.Builder
	for i, answer := range r.answers {
		text := htmlutil.FragmentText(answer)
		if text == "" {
			text = "(empty)"
		}
		fmt.Fprintf(&b, "%s:\n%s\n\n", r.fields[i].Label, indent(text))
	}
	if len(r.answers) < len(r.fields) {
		b.WriteString("Unanswered:\n")
		for _, field := range r.fields[len(r.answers):] {
			fmt.Fprintf(&b, "  - %s\n", field.Label)
		}
	}
	if len(r.fields) == 0 {
		b.WriteString("This week's report has no questions.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
