package badges

import "time"

// day reduces a timestamp to its calendar date, pinned to UTC so that dates
// from different locations compare by their components. Store rows arrive as
// UTC midnights while the clock runs in the process-local zone; truncating
// each in its own location would make the equality checks below instant
// comparisons across zones. Streaks are counted over calendar days, never
// over 24h windows.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CurrentStreak returns the length of the consecutive-day run ending today or
// yesterday. dates must be distinct calendar days sorted descending (most
// recent first). A most-recent date older than yesterday means the streak is
// broken and the result is 0.
func CurrentStreak(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	anchor := day(today)
	latest := day(dates[0])

	// The streak must be anchored to today or yesterday.
	if !latest.Equal(anchor) && !latest.Equal(anchor.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 1
	prev := latest
	for _, d := range dates[1:] {
		cur := day(d)
		if !cur.Equal(prev.AddDate(0, 0, -1)) {
			break
		}
		streak++
		prev = cur
	}
	return streak
}

// BestStreak returns the longest consecutive-day run anywhere in the history.
// dates must be distinct calendar days sorted ascending.
func BestStreak(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	best, run := 1, 1
	prev := day(dates[0])
	for _, d := range dates[1:] {
		cur := day(d)
		if cur.Equal(prev.AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = cur
	}
	return best
}
