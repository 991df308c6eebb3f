package overtime

import (
	"context"
	"errors"
	"testing"
	"time"
	"towerassist/internal/components/chrono"
	"towerassist/internal/components/telemetry"
	"towerassist/internal/tower"
	"towerassist/internal/tower/towertest"

	"github.com/stretchr/testify/require"
)

type fakeOpener struct {
	opened []string
	err    error
}

func (o *fakeOpener) Open(url string) error {
	o.opened = append(o.opened, url)
	return o.err
}

var testNow = time.Date(2024, 2, 26, 20, 44, 0, 0, time.UTC)

func setupRecorder(t *testing.T, opener Opener) (*Recorder, *towertest.Server, *telemetry.Recorder) {
	t.Helper()

	srv := towertest.New(t)
	session, directory, err := tower.Bootstrap(
		context.Background(),
		tower.Credentials{TeamGuid: srv.TeamGuid, RememberToken: srv.RememberToken},
		tower.Options{BaseUrl: srv.URL, Telemetry: telemetry.NewRecorder()},
	)
	require.NoError(t, err)

	tel := telemetry.NewRecorder()
	recorder := NewRecorder(
		session,
		directory,
		opener,
		chrono.FixedImpl{At: testNow},
		Options{StartHour: DefaultStartHour},
		tel,
	)
	return recorder, srv, tel
}

func TestRecord(t *testing.T) {
	opener := &fakeOpener{}
	recorder, srv, _ := setupRecorder(t, opener)

	record, err := recorder.Record(context.Background(), "", "Alice")
	require.NoError(t, err)

	expectedUrl := srv.URL + "/teams/team0001/calendar_events/event0001"
	require.Equal(t, expectedUrl, record.Url)
	require.Equal(t, []string{expectedUrl}, opener.opened)

	posts := srv.Posts()
	require.Len(t, posts, 2)
	require.Equal(t, DefaultTitle, posts[0].Form.Get("content"))
	require.Equal(t, "2024-02-26 18:00", posts[0].Form.Get("starts_at"))
	require.Equal(t, "2024-02-26 21:00", posts[0].Form.Get("ends_at"))

	require.Equal(t, "/teams/team0001/calendar_events/event0001/comments", posts[1].Path)
	require.Equal(
		t,
		`<a href="/members/ali00001" data-mention="true">@Alice</a>`,
		posts[1].Form.Get("comment_content"),
	)
}

func TestRecordUnknownMember(t *testing.T) {
	opener := &fakeOpener{}
	recorder, srv, tel := setupRecorder(t, opener)

	_, err := recorder.Record(context.Background(), "late night", "Alise")
	require.ErrorIs(t, err, tower.ErrUnknownMember)
	require.Contains(t, err.Error(), "Alice")
	require.Empty(t, srv.Posts())
	require.Empty(t, opener.opened)
	require.Len(t, tel.Find("warning", "overtime: record"), 1)
}

func TestRecordEventRejected(t *testing.T) {
	opener := &fakeOpener{}
	recorder, srv, _ := setupRecorder(t, opener)
	srv.EventResponse = `{"success":true}`

	_, err := recorder.Record(context.Background(), "late night", "Alice")
	require.ErrorIs(t, err, ErrEventRejected)
	require.Contains(t, err.Error(), srv.EventResponse)
	require.Len(t, srv.Posts(), 1)
	require.Empty(t, opener.opened)
}

func TestRecordCommentRejected(t *testing.T) {
	opener := &fakeOpener{}
	recorder, srv, _ := setupRecorder(t, opener)
	srv.CommentResponse = `{"success":false}`

	record, err := recorder.Record(context.Background(), "late night", "Alice")
	require.ErrorIs(t, err, ErrCommentRejected)
	require.NotEmpty(t, record.Url)
	require.Len(t, opener.opened, 1)
}

func TestRecordOpenerFailureIsNotFatal(t *testing.T) {
	opener := &fakeOpener{err: errors.New("no browser")}
	recorder, _, tel := setupRecorder(t, opener)

	_, err := recorder.Record(context.Background(), "late night", "Alice")
	require.NoError(t, err)
	require.Len(t, tel.Find("warning", "overtime: open"), 1)
}

func TestRecordBeforeStart(t *testing.T) {
	recorder := NewRecorder(
		&unusedService{t: t},
		tower.NewMemberDirectory(map[string]string{"Alice": "ali00001"}),
		&fakeOpener{},
		chrono.FixedImpl{At: time.Date(2024, 2, 26, 17, 40, 0, 0, time.UTC)},
		Options{StartHour: DefaultStartHour},
		telemetry.NewRecorder(),
	)

	_, err := recorder.Record(context.Background(), "", "Alice")
	require.ErrorIs(t, err, ErrWindowNotStarted)
}

type capturingService struct {
	events []tower.NewCalendarEvent
}

func (s *capturingService) CreateCalendarEvent(_ context.Context, event tower.NewCalendarEvent) (tower.EventResult, error) {
	s.events = append(s.events, event)
	return tower.EventResult{
		SubmissionResult: tower.SubmissionResult{Success: true},
		Url:              "https://tower.im/teams/team0001/calendar_events/event0001",
	}, nil
}

func (s *capturingService) CommentOnEvent(context.Context, string, string) (tower.SubmissionResult, error) {
	return tower.SubmissionResult{Success: true}, nil
}

func TestRecordPastMidnight(t *testing.T) {
	service := &capturingService{}
	recorder := NewRecorder(
		service,
		tower.NewMemberDirectory(map[string]string{"Alice": "ali00001"}),
		&fakeOpener{},
		chrono.FixedImpl{At: time.Date(2024, 2, 27, 0, 20, 0, 0, time.UTC)},
		Options{StartHour: DefaultStartHour},
		telemetry.NewRecorder(),
	)

	record, err := recorder.Record(context.Background(), "", "Alice")
	require.NoError(t, err)
	require.Len(t, service.events, 1)
	require.True(t, time.Date(2024, 2, 26, 18, 0, 0, 0, time.UTC).Equal(record.Start))
	require.True(t, time.Date(2024, 2, 27, 0, 30, 0, 0, time.UTC).Equal(record.End))
	require.True(t, record.Start.Equal(service.events[0].Start))
}

type unusedService struct {
	t *testing.T
}

func (s *unusedService) CreateCalendarEvent(context.Context, tower.NewCalendarEvent) (tower.EventResult, error) {
	s.t.Fatal("unexpected calendar event")
	return tower.EventResult{}, nil
}

func (s *unusedService) CommentOnEvent(context.Context, string, string) (tower.SubmissionResult, error) {
	s.t.Fatal("unexpected comment")
	return tower.SubmissionResult{}, nil
}
