package overtime

import "time"

// Round rounds a minute of the hour to the nearest half hour, ties going up.
// carry is how many hours the rounding spilled into.
func Round(minute int) (rounded, carry int) {
	total := ((minute + 15) / 30) * 30
	return total % 60, total / 60
}

// MaxOvertime bounds how far past midnight a window started the day before
// may run.
const MaxOvertime = 12 * time.Hour

// Window is the overtime span for now: from startHour on the same day to now
// rounded to the half hour. Before startHour the window starts on the
// previous day, as long as that keeps it within MaxOvertime. Otherwise end is
// not after start.
func Window(now time.Time, startHour int) (start, end time.Time) {
	year, month, day := now.Date()
	loc := now.Location()

	start = time.Date(year, month, day, startHour, 0, 0, 0, loc)

	minute, carry := Round(now.Minute())
	// time.Date normalizes hour 24 into the next day
	end = time.Date(year, month, day, now.Hour()+carry, minute, 0, 0, loc)

	if !end.After(start) {
		previous := time.Date(year, month, day-1, startHour, 0, 0, 0, loc)
		if end.Sub(previous) <= MaxOvertime {
			start = previous
		}
	}
	return start, end
}
