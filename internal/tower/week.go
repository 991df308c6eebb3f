package tower

import (
	"fmt"
	"time"
)

// Week identifies a weekly report by ISO year and ISO week number.
type Week struct {
	Year   int
	Number int
}

func WeekOf(t time.Time) Week {
	year, week := t.ISOWeek()
	return Week{Year: year, Number: week}
}

func (w Week) String() string {
	return fmt.Sprintf("%04d-%02d", w.Year, w.Number)
}
