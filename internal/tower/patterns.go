package tower

import "towerassist/internal/extract"

// members page
var (
	csrfTokenPattern  = extract.MustCompile("csrf-token", `content="([^"]+)" name="csrf-token"`)
	connGuidPattern   = extract.MustCompile("conn-guid", `id="conn-guid" value="(\w+)"`)
	memberGuidPattern = extract.MustCompile("member-guid", `id="member-guid" value="(\w+)"`)
	memberRowPattern  = extract.MustCompile("member-row", `href="/members/(\w+)" title="([^"]+)"`)
)

// weekly reports
var (
	reportTitlePattern   = extract.MustCompile("report-title", `<dt><i class="icon twr twr-quote-left"></i>([^<]+)</dt>`)
	reportContentPattern = extract.MustCompile("report-content", `(?s)<dd class="editor-style">(.*?)</dd>`)
	// name attribute, value attribute, then the label markup up to the next
	// closing block tag, without running into another input
	weeklyFieldPattern = extract.MustCompile(
		"weekly-field",
		`(?s)<input[^>]*?\bname="([^"]+)"[^>]*?\bvalue="([^"]*)"[^>]*>([^<]*(?:<(?:[^i]|i[^n])[^<]*)*?)</(?:div|p|li|label|dt|dd)>`,
	)
)

// calendar
var calendarEventPattern = extract.MustCompile(
	"calendar-event",
	`(?s)data-guid="(\w+)"[^>]*>\s*<span class="event-time">([^<]*)</span>\s*<span class="event-content">(.*?)</span>`,
)

// form inputs that ride along in the edit form but are not report fields
var ignoredFieldNames = map[string]bool{
	"utf8":               true,
	"authenticity_token": true,
	"conn_guid":          true,
	"_method":            true,
}
