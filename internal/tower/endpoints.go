package tower

import (
	"fmt"
	"net/url"
	"strings"
)

func membersPath(team string) string {
	return fmt.Sprintf("/teams/%s/members/", url.PathEscape(team))
}

func weeklyReportsPath(member string, week Week) string {
	return fmt.Sprintf("/members/%s/weekly_reports/@%s/", url.PathEscape(member), week)
}

func weeklyEditPath(member string, week Week) string {
	return fmt.Sprintf("/members/%s/weekly_reports/@%s/edit", url.PathEscape(member), week)
}

func weeklySubmitPath(member string, week Week) string {
	return fmt.Sprintf("/members/%s/weekly_reports/@%s", url.PathEscape(member), week)
}

func calendarEventsPath(team string) string {
	return fmt.Sprintf("/teams/%s/calendar_events/", url.PathEscape(team))
}

func createCalendarEventPath(team string) string {
	return fmt.Sprintf("/teams/%s/calendar_events", url.PathEscape(team))
}

func eventPath(team, event string) string {
	return fmt.Sprintf("/teams/%s/calendar_events/%s", url.PathEscape(team), url.PathEscape(event))
}

func commentsPath(eventUrl string) string {
	return strings.TrimSuffix(eventUrl, "/") + "/comments"
}

func memberPath(member string) string {
	return fmt.Sprintf("/members/%s", url.PathEscape(member))
}
