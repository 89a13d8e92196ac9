package badges

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func days(values ...string) []time.Time {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		out = append(out, d(v))
	}
	return out
}

func TestCurrentStreak(t *testing.T) {
	today := d("2025-06-15")

	tests := []struct {
		name  string
		dates []time.Time // descending
		want  int
	}{
		{
			name:  "no activity",
			dates: nil,
			want:  0,
		},
		{
			name:  "single day today",
			dates: days("2025-06-15"),
			want:  1,
		},
		{
			name:  "single day yesterday",
			dates: days("2025-06-14"),
			want:  1,
		},
		{
			name:  "most recent two days ago",
			dates: days("2025-06-13", "2025-06-12", "2025-06-11"),
			want:  0,
		},
		{
			name:  "run ending today",
			dates: days("2025-06-15", "2025-06-14", "2025-06-13"),
			want:  3,
		},
		{
			name:  "run ending yesterday counts backward",
			dates: days("2025-06-14", "2025-06-13", "2025-06-12", "2025-06-11"),
			want:  4,
		},
		{
			name:  "stops at first gap",
			dates: days("2025-06-15", "2025-06-14", "2025-06-11", "2025-06-10"),
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(tt.dates, today))
		})
	}
}

// Store rows come back as UTC midnights while the clock runs in the
// deployment zone. Streaks anchor on calendar dates, not midnight instants.
func TestCurrentStreakMixedLocations(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*60*60)

	dates := []time.Time{
		time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC),
	}

	today := time.Date(2025, 6, 15, 8, 30, 0, 0, berlin)
	assert.Equal(t, 3, CurrentStreak(dates, today))

	yesterdayAnchor := time.Date(2025, 6, 16, 8, 30, 0, 0, berlin)
	assert.Equal(t, 3, CurrentStreak(dates, yesterdayAnchor))

	broken := time.Date(2025, 6, 18, 8, 30, 0, 0, berlin)
	assert.Equal(t, 0, CurrentStreak(dates, broken))
}

func TestBestStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []time.Time // ascending
		want  int
	}{
		{
			name:  "no activity",
			dates: nil,
			want:  0,
		},
		{
			name:  "single day",
			dates: days("2025-01-01"),
			want:  1,
		},
		{
			name:  "all consecutive",
			dates: days("2025-01-01", "2025-01-02", "2025-01-03"),
			want:  3,
		},
		{
			name:  "longest run before a gap",
			dates: days("2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05", "2025-06-10", "2025-06-11"),
			want:  5,
		},
		{
			name:  "longest run after a gap",
			dates: days("2025-01-01", "2025-01-02", "2025-03-01", "2025-03-02", "2025-03-03"),
			want:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestStreak(tt.dates))
		})
	}
}

// The best streak survives a broken current streak: old history still counts
// for streak_champion even when daily_reader is back to zero.
func TestBestAndCurrentStreakDiverge(t *testing.T) {
	dates := days("2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05", "2025-06-10", "2025-06-11")
	today := d("2025-12-01")

	assert.Equal(t, 5, BestStreak(dates))

	descending := make([]time.Time, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		descending = append(descending, dates[i])
	}
	assert.Equal(t, 0, CurrentStreak(descending, today))
}
