package types

import "time"

// Status classifies a next-due date relative to the current moment.
type Status string

// Schedule statuses.
const (
	StatusOverdue  Status = "overdue"
	StatusDueToday Status = "due_today"
	StatusUpcoming Status = "upcoming"
)

// Classify is the single classification used by every view. Comparison is by
// local calendar day: a date earlier today is due today, not overdue.
func Classify(next, now time.Time) Status {
	switch {
	case SameDay(next, now):
		return StatusDueToday
	case Day(next).Before(Day(now)):
		return StatusOverdue
	default:
		return StatusUpcoming
	}
}

// Label returns a human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case StatusOverdue:
		return "Overdue"
	case StatusDueToday:
		return "Due today"
	case StatusUpcoming:
		return "Upcoming"
	default:
		return string(s)
	}
}
