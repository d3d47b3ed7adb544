package views

import (
	"time"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

// Month is a Sunday-first calendar grid for one month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// LeadingBlanks is the number of empty cells before the 1st.
	LeadingBlanks int           `json:"leading_blanks"`
	Days          []CalendarDay `json:"days"`
}

// CalendarDay is one cell of the grid.
type CalendarDay struct {
	Date           time.Time  `json:"date"`
	Today          bool       `json:"today"`
	Communications []Entry    `json:"communications"`
	Due            []Reminder `json:"due"`
}

// CalendarMonth lays out the month containing month. Communications are
// listed in insertion order on the day they were logged; companies appear on
// the day their next contact falls.
func CalendarMonth(src Source, month, now time.Time) Month {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	daysIn := first.AddDate(0, 1, -1).Day()

	m := Month{
		Year:          first.Year(),
		Month:         first.Month(),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]CalendarDay, daysIn),
	}
	for i := range m.Days {
		d := first.AddDate(0, 0, i)
		m.Days[i] = CalendarDay{Date: d, Today: types.SameDay(d, now)}
	}

	index := func(t time.Time) (int, bool) {
		t = t.In(time.Local)
		if t.Year() != m.Year || t.Month() != m.Month {
			return 0, false
		}
		return t.Day() - 1, true
	}

	snap := src.Snapshot()
	n := newNames(snap)
	for _, c := range snap.Communications {
		if i, ok := index(c.Date); ok {
			m.Days[i].Communications = append(m.Days[i].Communications, n.entry(c))
		}
	}
	for _, c := range snap.Companies {
		next, ok := src.NextScheduledCommunication(c.ID)
		if !ok {
			continue
		}
		if i, ok := index(next); ok {
			m.Days[i].Due = append(m.Days[i].Due, Reminder{Company: c, Next: next})
		}
	}
	return m
}
