package report

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
	"towerassist/internal/components/telemetry"
	"towerassist/internal/tower"
	"towerassist/internal/tower/towertest"

	"github.com/stretchr/testify/require"
)

// tuesday of ISO week 2024-09
var testDay = time.Date(2024, 2, 27, 19, 30, 0, 0, time.UTC)

func setupWorkflow(t *testing.T, op Operator, opts Options) (*Workflow, *towertest.Server, *bytes.Buffer) {
	t.Helper()

	srv := towertest.New(t)
	srv.Fields = []towertest.Field{
		{Key: "f1", Value: "v1", Label: "Monday"},
		{Key: "f2", Value: "v2", Label: "Tuesday"},
	}
	srv.Reports["2024-09"] = []towertest.Entry{{Title: "Monday", Content: "done"}}

	session, _, err := tower.Bootstrap(
		context.Background(),
		tower.Credentials{TeamGuid: srv.TeamGuid, RememberToken: srv.RememberToken},
		tower.Options{BaseUrl: srv.URL, Telemetry: telemetry.NewRecorder()},
	)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return NewWorkflow(session, op, out, opts, telemetry.NewRecorder()), srv, out
}

func submittedPayload(t *testing.T, srv *towertest.Server) []map[string]string {
	t.Helper()
	posts := srv.Posts()
	require.Len(t, posts, 1)
	var payload []map[string]string
	require.NoError(t, json.Unmarshal([]byte(posts[0].Form.Get("data")), &payload))
	return payload
}

func TestSendPromptsOnlyMissing(t *testing.T) {
	op := &scriptedOperator{
		confirms: []string{"", ""},
		replies:  []string{"worked"},
	}
	workflow, srv, out := setupWorkflow(t, op, Options{})

	result, err := workflow.Send(context.Background(), tower.WeekOf(testDay))
	require.NoError(t, err)
	require.True(t, result.Success)

	require.Equal(t, []string{"Tuesday"}, op.readPrompts())
	require.Equal(t, []map[string]string{
		{"content": "done", "f1": "v1"},
		{"content": "worked", "f2": "v2"},
	}, submittedPayload(t, srv))

	require.Contains(t, out.String(), "submitted")
	require.Contains(t, out.String(), "worked")
}

func TestSendShowsAfterRejection(t *testing.T) {
	op := &scriptedOperator{
		confirms: []string{"y", "y"},
		replies:  []string{"worked"},
	}
	workflow, srv, out := setupWorkflow(t, op, Options{})
	srv.SubmitResponse = `{"success":"true"}`

	result, err := workflow.Send(context.Background(), tower.WeekOf(testDay))
	require.ErrorIs(t, err, ErrRejected)
	require.False(t, result.Success)
	require.Equal(t, srv.SubmitResponse, result.RawBody)

	gets := srv.Gets()
	require.Equal(t, "/members/me000001/weekly_reports/@2024-09/", gets[len(gets)-1])
	require.Contains(t, out.String(), "done")
}

func TestSendDay(t *testing.T) {
	op := &scriptedOperator{
		confirms: []string{""},
		replies:  []string{"tuesday things"},
	}
	workflow, srv, _ := setupWorkflow(t, op, Options{})

	result, err := workflow.SendDay(context.Background(), testDay)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, []readCall{{prompt: "Tuesday", def: ""}}, op.readCalls)
	require.Equal(t, []map[string]string{
		{"content": "done", "f1": "v1"},
		{"content": "tuesday things", "f2": "v2"},
	}, submittedPayload(t, srv))
}

func TestSendDayKeepsExisting(t *testing.T) {
	op := &scriptedOperator{
		confirms: []string{"y"},
		replies:  []string{""},
	}
	workflow, srv, _ := setupWorkflow(t, op, Options{})

	monday := testDay.AddDate(0, 0, -1)
	_, err := workflow.SendDay(context.Background(), monday)
	require.NoError(t, err)
	require.Equal(t, "done", op.readCalls[0].def)
	require.Equal(t, "done", submittedPayload(t, srv)[0]["content"])
}

func TestSendDayWithoutField(t *testing.T) {
	workflow, srv, _ := setupWorkflow(t, &scriptedOperator{}, Options{})

	sunday := testDay.AddDate(0, 0, 5)
	_, err := workflow.SendDay(context.Background(), sunday)
	require.Error(t, err)
	require.Empty(t, srv.Posts())
}

func TestSendPlaceholder(t *testing.T) {
	op := &scriptedOperator{}
	workflow, srv, _ := setupWorkflow(t, op, Options{})

	result, err := workflow.SendPlaceholder(context.Background(), tower.WeekOf(testDay))
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Empty(t, op.confirmCalls)
	require.Empty(t, op.readCalls)
	require.Equal(t, []map[string]string{
		{"content": "done", "f1": "v1"},
		{"content": DefaultPlaceholder, "f2": "v2"},
	}, submittedPayload(t, srv))
}

func TestSendPlaceholderCustom(t *testing.T) {
	workflow, srv, _ := setupWorkflow(t, &scriptedOperator{}, Options{Placeholder: "nothing"})
	srv.Reports = map[string][]towertest.Entry{}

	_, err := workflow.SendPlaceholder(context.Background(), tower.WeekOf(testDay))
	require.NoError(t, err)
	payload := submittedPayload(t, srv)
	require.Equal(t, "nothing", payload[0]["content"])
	require.Equal(t, "nothing", payload[1]["content"])
}

func TestShowEmpty(t *testing.T) {
	workflow, _, out := setupWorkflow(t, &scriptedOperator{}, Options{})

	err := workflow.Show(context.Background(), tower.Week{Year: 2024, Number: 10})
	require.NoError(t, err)
	require.Equal(t, "No weekly report submitted for 2024-10.\n", out.String())
}

func TestDayIndex(t *testing.T) {
	monday := time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		require.Equal(t, i, DayIndex(monday.AddDate(0, 0, i)))
	}
}

func TestPad(t *testing.T) {
	require.Equal(t, []string{"a", "", ""}, Pad([]string{"a"}, 3))
	require.Equal(t, []string{"a", "b"}, Pad([]string{"a", "b"}, 1))
	require.Equal(t, []string{}, Pad(nil, 0))
}
