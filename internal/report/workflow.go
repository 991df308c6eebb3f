package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"towerassist/internal/components/assert"
	"towerassist/internal/components/telemetry"
	"towerassist/internal/tower"
	"towerassist/lib/htmlutil"
	"towerassist/lib/tableutil"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	report_workflow_send = "workflow.send"
	report_workflow_day  = "workflow.day"
)

// DefaultPlaceholder fills every empty answer of a placeholder submission.
const DefaultPlaceholder = "N/A"

// ErrRejected means the submission went through but Tower did not accept it.
var ErrRejected = errors.New("report: submission rejected")

// Service is the part of a tower session the report workflows need.
type Service interface {
	WeeklyFields(ctx context.Context, week tower.Week) ([]tower.WeeklyField, error)
	WeeklyReports(ctx context.Context, week tower.Week) ([]tower.ReportEntry, error)
	SubmitWeekly(ctx context.Context, week tower.Week, fields []tower.WeeklyField, answers []string) (tower.SubmissionResult, error)
}

type Options struct {
	NoConfirm   bool
	Placeholder string
}

// Workflow runs the weekly report pipelines: load the fields, reconcile the
// answers, submit, then show what Tower now holds.
type Workflow struct {
	service Service
	op      Operator
	out     io.Writer
	opts    Options
	tel     telemetry.API
}

func NewWorkflow(service Service, op Operator, out io.Writer, opts Options, tel telemetry.API) *Workflow {
	assert.NotNil(service)
	assert.NotNil(op)
	assert.NotNil(out)
	assert.NotNil(tel)

	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	return &Workflow{
		service: service,
		op:      op,
		out:     out,
		opts:    opts,
		tel:     telemetry.NewScopedAPI("report", tel),
	}
}

// Show prints the reports already submitted for a week.
func (w *Workflow) Show(ctx context.Context, week tower.Week) error {
	entries, err := w.service.WeeklyReports(ctx, week)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintf(w.out, "No weekly report submitted for %s.\n", week)
		return nil
	}

	t := tableutil.New(w.out)
	t.SetTitle("Weekly report %s", week)
	t.AppendHeader(table.Row{"Question", "Answer"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Title, e.Text()})
		t.AppendSeparator()
	}
	t.Render()
	return nil
}

// Send reconciles the whole week starting from what was already submitted.
func (w *Workflow) Send(ctx context.Context, week tower.Week) (tower.SubmissionResult, error) {
	fields, prior, err := w.load(ctx, week)
	if err != nil {
		return tower.SubmissionResult{}, err
	}
	return w.reconcileAndSubmit(ctx, week, fields, prior)
}

// SendDay asks only for the answer of the given day then submits the week
// with every other answer carried over.
func (w *Workflow) SendDay(ctx context.Context, day time.Time) (tower.SubmissionResult, error) {
	week := tower.WeekOf(day)
	fields, prior, err := w.load(ctx, week)
	if err != nil {
		return tower.SubmissionResult{}, err
	}

	index := DayIndex(day)
	if index >= len(fields) {
		w.tel.ReportWarning(report_workflow_day, "no field for day", day.Weekday().String(), len(fields))
		return tower.SubmissionResult{}, fmt.Errorf(
			"weekly report for %s has %d questions, none for %s",
			week, len(fields), day.Weekday(),
		)
	}

	answers := Pad(prior, len(fields))
	def := ""
	if answers[index] != "" {
		def = htmlutil.FragmentText(answers[index])
	}
	answer, err := w.op.ReadMultiline(ctx, fields[index].Label, def)
	if err != nil {
		return tower.SubmissionResult{}, err
	}
	if answer != "" {
		answers[index] = answer
	}

	return w.reconcileAndSubmit(ctx, week, fields, answers)
}

// SendPlaceholder submits the week with every empty answer replaced by the
// placeholder, it never asks the operator anything.
func (w *Workflow) SendPlaceholder(ctx context.Context, week tower.Week) (tower.SubmissionResult, error) {
	fields, prior, err := w.load(ctx, week)
	if err != nil {
		return tower.SubmissionResult{}, err
	}

	answers := Pad(prior, len(fields))
	replaced := 0
	for i, answer := range answers {
		if htmlutil.FragmentText(answer) == "" {
			answers[i] = w.opts.Placeholder
			replaced++
		}
	}
	w.tel.ReportDebug("filled placeholders", "week", week.String(), "count", replaced)

	return w.submit(ctx, week, fields, answers)
}

func (w *Workflow) load(ctx context.Context, week tower.Week) ([]tower.WeeklyField, []string, error) {
	fields, err := w.service.WeeklyFields(ctx, week)
	if err != nil {
		return nil, nil, err
	}
	entries, err := w.service.WeeklyReports(ctx, week)
	if err != nil {
		return nil, nil, err
	}

	prior := make([]string, len(entries))
	for i, e := range entries {
		prior[i] = e.Content
	}
	if len(prior) > len(fields) {
		w.tel.ReportWarning(report_workflow_send, "more submitted answers than fields", len(prior), len(fields))
		prior = prior[:len(fields)]
	}
	return fields, prior, nil
}

func (w *Workflow) reconcileAndSubmit(ctx context.Context, week tower.Week, fields []tower.WeeklyField, prior []string) (tower.SubmissionResult, error) {
	answers, err := NewReconciler(fields, prior, w.opts.NoConfirm, w.op, w.tel).Run(ctx)
	if err != nil {
		return tower.SubmissionResult{}, err
	}
	return w.submit(ctx, week, fields, answers)
}

func (w *Workflow) submit(ctx context.Context, week tower.Week, fields []tower.WeeklyField, answers []string) (tower.SubmissionResult, error) {
	result, err := w.service.SubmitWeekly(ctx, week, fields, answers)
	if err != nil {
		return tower.SubmissionResult{}, err
	}

	if !result.Success {
		w.tel.ReportWarning(report_workflow_send, "submission rejected", week.String())
		err = fmt.Errorf("%w: %s", ErrRejected, result.RawBody)
	} else {
		fmt.Fprintf(w.out, "Weekly report %s submitted.\n", week)
	}

	showErr := w.Show(ctx, week)
	if showErr != nil {
		w.tel.ReportWarning(report_workflow_send, "show after submit", showErr)
	}
	return result, errors.Join(err, showErr)
}

// DayIndex is the zero-based weekday of t with Monday as 0.
func DayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Pad returns a copy of answers extended with empty strings up to n.
func Pad(answers []string, n int) []string {
	size := n
	if len(answers) > size {
		size = len(answers)
	}
	out := make([]string, size)
	copy(out, answers)
	return out
}
