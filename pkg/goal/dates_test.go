package goal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 6, 5, 23, 59, 59, 999, time.UTC)
	assert.Equal(t, date(2026, 6, 5), StartOfDay(ts))
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2026, 6, 5, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"due today", date(2026, 6, 5), 0},
		{"due today late evening", time.Date(2026, 6, 5, 23, 0, 0, 0, time.UTC), 0},
		{"tomorrow", date(2026, 6, 6), 1},
		{"next week", date(2026, 6, 12), 7},
		{"yesterday", date(2026, 6, 4), -1},
		{"long overdue", date(2026, 5, 26), -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysLeft(tt.end, now))
		})
	}
}

func TestCountdown(t *testing.T) {
	now := date(2026, 6, 5)

	assert.Equal(t, "due today", Countdown(date(2026, 6, 5), now))
	assert.Equal(t, "1d left", Countdown(date(2026, 6, 6), now))
	assert.Equal(t, "14d left", Countdown(date(2026, 6, 19), now))
	assert.Equal(t, "1d overdue", Countdown(date(2026, 6, 4), now))
	assert.Equal(t, "3d overdue", Countdown(date(2026, 6, 2), now))
}
