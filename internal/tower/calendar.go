package tower

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"
	"towerassist/lib/htmlutil"
)

const (
	report_calendar_events  = "calendar.events"
	report_calendar_create  = "calendar.create"
	report_calendar_comment = "calendar.comment"
)

// CalendarTimeLayout is the minute precision layout the calendar form expects.
const CalendarTimeLayout = "2006-01-02 15:04"

// CalendarEvent is an event as shown in the team calendar listing.
type CalendarEvent struct {
	Guid    string
	Time    string
	Content string
}

// NewCalendarEvent describes an event to create. CalendarGuid is optional,
// Tower files the event into the default calendar without it.
type NewCalendarEvent struct {
	Content      string
	Start        time.Time
	End          time.Time
	CalendarGuid string
}

// EventResult is a SubmissionResult that also carries the created event's url.
type EventResult struct {
	SubmissionResult
	Url string
}

// CalendarEvents lists the events visible on the team calendar page.
func (s *Session) CalendarEvents(ctx context.Context) ([]CalendarEvent, error) {
	res, err := s.get(ctx, calendarEventsPath(s.teamId), map[string]string{"pjax": "1"}, "")
	if err != nil {
		return nil, err
	}

	rows := s.extractor.Extract(res.String(), calendarEventPattern)
	events := make([]CalendarEvent, len(rows))
	for i, row := range rows {
		events[i] = CalendarEvent{
			Guid:    row[0],
			Time:    html.UnescapeString(strings.TrimSpace(row[1])),
			Content: strings.TrimSpace(htmlutil.FragmentTextInline(row[2])),
		}
	}
	s.tel.ReportCount(report_calendar_events, int64(len(events)))
	return events, nil
}

// EventUrl is the absolute url of the event with the given guid.
func (s *Session) EventUrl(guid string) string {
	return s.AbsoluteUrl(eventPath(s.teamId, guid))
}

// CreateCalendarEvent creates an event, success requires both a literal
// success flag and the url of the new event.
func (s *Session) CreateCalendarEvent(ctx context.Context, event NewCalendarEvent) (EventResult, error) {
	form := map[string]string{
		"content":   event.Content,
		"starts_at": event.Start.Format(CalendarTimeLayout),
		"ends_at":   event.End.Format(CalendarTimeLayout),
	}
	if event.CalendarGuid != "" {
		form["caleventable_guid"] = event.CalendarGuid
	}

	res, err := s.postForm(ctx, createCalendarEventPath(s.teamId), form)
	if err != nil {
		return EventResult{}, err
	}

	result := EventResult{SubmissionResult: SubmissionResult{RawBody: res.String()}}

	var parsed map[string]any
	err = json.Unmarshal(res.Body(), &parsed)
	if err == nil {
		success, _ := parsed["success"].(bool)
		eventUrl, _ := parsed["url"].(string)
		if success && eventUrl != "" {
			result.Success = true
			result.Url = s.AbsoluteUrl(eventUrl)
		}
	}
	if !result.Success {
		s.tel.ReportWarning(report_calendar_create, "event not created", res.Status(), result.RawBody)
	}
	return result, nil
}

// CommentOnEvent posts an html comment under the event at eventUrl.
func (s *Session) CommentOnEvent(ctx context.Context, eventUrl, content string) (SubmissionResult, error) {
	path := commentsPath(eventUrl)
	if strings.HasPrefix(path, s.http.BaseURL) {
		path = strings.TrimPrefix(path, s.http.BaseURL)
	}

	res, err := s.postForm(ctx, path, map[string]string{
		"comment_content": content,
	})
	if err != nil {
		return SubmissionResult{}, err
	}

	result := SubmissionResult{
		Success: succeeded(res.Body()),
		RawBody: res.String(),
	}
	if !result.Success {
		s.tel.ReportWarning(report_calendar_comment, "comment not accepted", res.Status(), result.RawBody)
	}
	return result, nil
}

// MentionAnchor is the markup Tower uses to mention (and notify) a member.
func MentionAnchor(memberId, name string) string {
	return fmt.Sprintf(
		`<a href="%s" data-mention="true">@%s</a>`,
		memberPath(memberId), html.EscapeString(name),
	)
}
