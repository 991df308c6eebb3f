package overtime

import (
	"context"
	"errors"
	"fmt"
	"time"
	"towerassist/internal/components/assert"
	"towerassist/internal/components/chrono"
	"towerassist/internal/components/telemetry"
	"towerassist/internal/tower"
)

const (
	report_overtime_record = "record"
	report_overtime_open   = "open"
)

const (
	DefaultStartHour = 18
	DefaultTitle     = "Overtime"
)

var (
	// ErrWindowNotStarted means the current time is neither after the start
	// hour nor within MaxOvertime of the previous day's start.
	ErrWindowNotStarted = errors.New("overtime: window has not started yet")
	// ErrEventRejected means Tower did not create the calendar event.
	ErrEventRejected = errors.New("overtime: calendar event rejected")
	// ErrCommentRejected means the event exists but the mention comment failed.
	ErrCommentRejected = errors.New("overtime: mention comment rejected")
)

// Service is the part of a tower session overtime recording needs.
type Service interface {
	CreateCalendarEvent(ctx context.Context, event tower.NewCalendarEvent) (tower.EventResult, error)
	CommentOnEvent(ctx context.Context, eventUrl, content string) (tower.SubmissionResult, error)
}

// Opener shows a url to the operator, usually in a browser.
type Opener interface {
	Open(url string) error
}

type Options struct {
	StartHour int
	Title     string
}

// Record is what was created.
type Record struct {
	Url   string
	Start time.Time
	End   time.Time
}

type Recorder struct {
	service   Service
	directory tower.MemberDirectory
	opener    Opener
	clock     chrono.API
	opts      Options
	tel       telemetry.API
}

func NewRecorder(
	service Service,
	directory tower.MemberDirectory,
	opener Opener,
	clock chrono.API,
	opts Options,
	tel telemetry.API,
) *Recorder {
	assert.NotNil(service)
	assert.NotNil(opener)
	assert.NotNil(clock)
	assert.NotNil(tel)

	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.StartHour < 0 || opts.StartHour > 23 {
		opts.StartHour = DefaultStartHour
	}

	return &Recorder{
		service:   service,
		directory: directory,
		opener:    opener,
		clock:     clock,
		opts:      opts,
		tel:       telemetry.NewScopedAPI("overtime", tel),
	}
}

// Record files an overtime calendar event ending now, mentions cc on it and
// opens it. title falls back to the configured title when empty.
func (r *Recorder) Record(ctx context.Context, title, cc string) (Record, error) {
	memberId, err := r.directory.Resolve(cc)
	if err != nil {
		r.tel.ReportWarning(report_overtime_record, err)
		return Record{}, err
	}
	if title == "" {
		title = r.opts.Title
	}

	start, end := Window(r.clock.Now(), r.opts.StartHour)
	if !end.After(start) {
		return Record{}, fmt.Errorf(
			"%w: it is %s, overtime starts at %02d:00",
			ErrWindowNotStarted, r.clock.Now().Format("15:04"), r.opts.StartHour,
		)
	}

	created, err := r.service.CreateCalendarEvent(ctx, tower.NewCalendarEvent{
		Content: title,
		Start:   start,
		End:     end,
	})
	if err != nil {
		return Record{}, err
	}
	if !created.Success {
		return Record{}, fmt.Errorf("%w: %s", ErrEventRejected, created.RawBody)
	}
	record := Record{Url: created.Url, Start: start, End: end}

	comment, err := r.service.CommentOnEvent(ctx, created.Url, tower.MentionAnchor(memberId, cc))
	if err != nil {
		return record, err
	}
	if !comment.Success {
		err = fmt.Errorf("%w: %s", ErrCommentRejected, comment.RawBody)
	}

	openErr := r.opener.Open(created.Url)
	if openErr != nil {
		r.tel.ReportWarning(report_overtime_open, openErr, created.Url)
	}
	r.tel.ReportDebug(
		"recorded overtime",
		"url", created.Url,
		"start", start.Format(tower.CalendarTimeLayout),
		"end", end.Format(tower.CalendarTimeLayout),
	)
	return record, err
}
