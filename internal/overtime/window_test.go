package overtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	table := []struct {
		minute  int
		rounded int
		carry   int
	}{
		{minute: 0, rounded: 0, carry: 0},
		{minute: 10, rounded: 0, carry: 0},
		{minute: 14, rounded: 0, carry: 0},
		{minute: 15, rounded: 30, carry: 0},
		{minute: 30, rounded: 30, carry: 0},
		{minute: 44, rounded: 0, carry: 1},
		{minute: 45, rounded: 0, carry: 1},
		{minute: 46, rounded: 0, carry: 1},
		{minute: 59, rounded: 0, carry: 1},
	}
	for _, testCase := range table {
		rounded, carry := Round(testCase.minute)
		require.Equal(t, testCase.rounded, rounded, "minute %d", testCase.minute)
		require.Equal(t, testCase.carry, carry, "minute %d", testCase.minute)
	}

	for m := 0; m < 60; m++ {
		rounded, carry := Round(m)
		require.Equal(t, ((m+15)/30*30)%60, rounded)
		require.Equal(t, (m+15)/30*30/60, carry)
	}
}

func TestWindow(t *testing.T) {
	loc := time.FixedZone("CST", 8*60*60)

	table := []struct {
		name  string
		now   time.Time
		start time.Time
		end   time.Time
	}{
		{
			name:  "round down",
			now:   time.Date(2024, 2, 26, 20, 10, 33, 0, loc),
			start: time.Date(2024, 2, 26, 18, 0, 0, 0, loc),
			end:   time.Date(2024, 2, 26, 20, 0, 0, 0, loc),
		},
		{
			name:  "round to half",
			now:   time.Date(2024, 2, 26, 20, 29, 0, 0, loc),
			start: time.Date(2024, 2, 26, 18, 0, 0, 0, loc),
			end:   time.Date(2024, 2, 26, 20, 30, 0, 0, loc),
		},
		{
			name:  "carry into the hour",
			now:   time.Date(2024, 2, 26, 20, 44, 0, 0, loc),
			start: time.Date(2024, 2, 26, 18, 0, 0, 0, loc),
			end:   time.Date(2024, 2, 26, 21, 0, 0, 0, loc),
		},
		{
			name:  "carry into the next day",
			now:   time.Date(2024, 2, 26, 23, 50, 0, 0, loc),
			start: time.Date(2024, 2, 26, 18, 0, 0, 0, loc),
			end:   time.Date(2024, 2, 27, 0, 0, 0, 0, loc),
		},
		{
			name:  "past midnight",
			now:   time.Date(2024, 2, 27, 0, 20, 0, 0, loc),
			start: time.Date(2024, 2, 26, 18, 0, 0, 0, loc),
			end:   time.Date(2024, 2, 27, 0, 30, 0, 0, loc),
		},
		{
			name:  "month boundary",
			now:   time.Date(2024, 3, 1, 2, 5, 0, 0, loc),
			start: time.Date(2024, 2, 29, 18, 0, 0, 0, loc),
			end:   time.Date(2024, 3, 1, 2, 0, 0, 0, loc),
		},
		{
			name:  "before start",
			now:   time.Date(2024, 2, 26, 17, 40, 0, 0, loc),
			start: time.Date(2024, 2, 26, 18, 0, 0, 0, loc),
			end:   time.Date(2024, 2, 26, 17, 30, 0, 0, loc),
		},
	}
	for _, testCase := range table {
		t.Run(testCase.name, func(t *testing.T) {
			start, end := Window(testCase.now, 18)
			require.True(t, testCase.start.Equal(start), start.String())
			require.True(t, testCase.end.Equal(end), end.String())
		})
	}
}
