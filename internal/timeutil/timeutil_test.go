package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWhen(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want string
	}{
		{"just now", 10 * time.Minute, "recently"},
		{"under two hours", 119 * time.Minute, "recently"},
		{"a few hours", 3 * time.Hour, "a few hours ago"},
		{"same day", 8 * time.Hour, "today"},
		{"previous day", 30 * time.Hour, "yesterday"},
		{"two days back", 60 * time.Hour, "this week"},
		{"ancient", 30 * 24 * time.Hour, "long ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, When(now, now.Add(-tt.age)))
		})
	}
}

func TestLocalClock(t *testing.T) {
	now := time.Date(2026, 3, 14, 13, 5, 0, 0, time.UTC)

	assert.Equal(t, "02:05 pm", LocalClock(now, 1))
	assert.Equal(t, "08:05 am", LocalClock(now, -5))
	assert.Equal(t, "01:05 pm", LocalClock(now, 0))
}

func TestDurationHours(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 1.0, DurationHours(start, start.Add(time.Hour)))
	assert.Equal(t, 1.5, DurationHours(start, start.Add(90*time.Minute)))
	assert.Equal(t, 0.8, DurationHours(start, start.Add(45*time.Minute)))
}

func TestAgo(t *testing.T) {
	// Exact phrasing belongs to the library; just check past vs future read
	// differently and neither is empty.
	past := Ago(time.Now().Add(-2 * time.Hour))
	future := Ago(time.Now().Add(48 * time.Hour))

	assert.NotEmpty(t, past)
	assert.NotEmpty(t, future)
	assert.NotEqual(t, past, future)
}
