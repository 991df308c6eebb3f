package commands

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// parseDate understands ISO dates and english phrases like "last friday",
// relative to now. An empty string is now.
func parseDate(text string, now time.Time) (time.Time, error) {
	if text == "" {
		return now, nil
	}

	t, err := time.ParseInLocation("2006-01-02", text, now.Location())
	if err == nil {
		return t.Add(12 * time.Hour), nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	result, err := w.Parse(text, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", text, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("parse date %q: not a date", text)
	}
	return result.Time, nil
}

func targetDate() (time.Time, error) {
	return parseDate(dateFlag, clock.Now())
}
