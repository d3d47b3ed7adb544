package views

import (
	"time"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

// Reminder names a company whose next contact needs attention.
type Reminder struct {
	Company types.Company `json:"company"`
	Next    time.Time     `json:"next"`
}

// Reminders holds the overdue and due-today lists. A company appears in at
// most one list.
type Reminders struct {
	Overdue  []Reminder `json:"overdue"`
	DueToday []Reminder `json:"due_today"`
}

// Empty reports whether there is nothing to show.
func (r Reminders) Empty() bool {
	return len(r.Overdue) == 0 && len(r.DueToday) == 0
}

// Notifications classifies every company's next date and collects the ones
// that are overdue or due today, in company insertion order.
func Notifications(src Source, now time.Time) Reminders {
	var out Reminders
	for _, c := range src.Snapshot().Companies {
		next, ok := src.NextScheduledCommunication(c.ID)
		if !ok {
			continue
		}
		switch types.Classify(next, now) {
		case types.StatusOverdue:
			out.Overdue = append(out.Overdue, Reminder{Company: c, Next: next})
		case types.StatusDueToday:
			out.DueToday = append(out.DueToday, Reminder{Company: c, Next: next})
		}
	}
	return out
}
