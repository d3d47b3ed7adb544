package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	now := time.Date(2024, time.March, 15, 14, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		next time.Time
		want Status
	}{
		{"yesterday is overdue", time.Date(2024, time.March, 14, 23, 59, 0, 0, time.Local), StatusOverdue},
		{"last year is overdue", time.Date(2023, time.December, 31, 0, 0, 0, 0, time.Local), StatusOverdue},
		{"midnight today is due today", time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local), StatusDueToday},
		{"earlier today is due today", now.Add(-time.Hour), StatusDueToday},
		{"the current instant is due today", now, StatusDueToday},
		{"later today is due today", now.Add(time.Hour), StatusDueToday},
		{"tomorrow is upcoming", time.Date(2024, time.March, 16, 0, 0, 0, 0, time.Local), StatusUpcoming},
		{"same day next month is upcoming", time.Date(2024, time.April, 15, 0, 0, 0, 0, time.Local), StatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.next, now))
		})
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Overdue", StatusOverdue.Label())
	assert.Equal(t, "Due today", StatusDueToday.Label())
	assert.Equal(t, "Upcoming", StatusUpcoming.Label())
	assert.Equal(t, "other", Status("other").Label())
}
