package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cadence/internal/store"
	"github.com/mesh-intelligence/cadence/pkg/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

var now = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.Local)

func company(id, name string, periodicity int) types.Company {
	return types.Company{
		ID:                       id,
		Name:                     name,
		Location:                 "Madrid",
		LinkedInProfile:          "https://www.linkedin.com/company/" + id,
		Emails:                   []string{id + "@example.com"},
		PhoneNumbers:             []string{"+34910000000"},
		CommunicationPeriodicity: periodicity,
	}
}

// fixture builds a store where, relative to now:
// a is overdue, b is due today, c is upcoming, d has no history.
func fixture(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(store.WithClock(func() time.Time { return now }))
	s.AddCompany(company("a", "Acme", 7))
	s.AddCompany(company("b", "Bolt", 14))
	s.AddCompany(company("c", "Crate", 30))
	s.AddCompany(company("d", "Dune", 10))
	s.AddCommunication(types.Communication{ID: "k1", CompanyID: "a", MethodID: "3", Date: day(2024, time.March, 1), Notes: "intro"})
	s.AddCommunication(types.Communication{ID: "k2", CompanyID: "b", MethodID: "1", Date: day(2024, time.March, 1)})
	s.AddCommunication(types.Communication{ID: "k3", CompanyID: "c", MethodID: "4", Date: day(2024, time.March, 10)})
	return s
}

func reminderIDs(rs []Reminder) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Company.ID
	}
	return out
}

func TestDashboard(t *testing.T) {
	rows := Dashboard(fixture(t), now)
	require.Len(t, rows, 4)

	want := []struct {
		id     string
		next   time.Time
		status types.Status
	}{
		{"a", day(2024, time.March, 8), types.StatusOverdue},
		{"b", day(2024, time.March, 15), types.StatusDueToday},
		{"c", day(2024, time.April, 9), types.StatusUpcoming},
		{"d", now, types.StatusDueToday},
	}
	for i, w := range want {
		assert.Equal(t, w.id, rows[i].Company.ID)
		assert.True(t, w.next.Equal(rows[i].Next), "row %s next = %s", w.id, rows[i].Next)
		assert.Equal(t, w.status, rows[i].Status, "row %s", w.id)
	}

	require.Len(t, rows[0].Recent, 1)
	assert.Equal(t, "k1", rows[0].Recent[0].Communication.ID)
	assert.Equal(t, "Email", rows[0].Recent[0].MethodName)
	assert.Equal(t, "Acme", rows[0].Recent[0].CompanyName)
	assert.Empty(t, rows[3].Recent)
}

func TestDashboardUnknownMethodHasEmptyName(t *testing.T) {
	s := fixture(t)
	s.DeleteCommunicationMethod("3")

	rows := Dashboard(s, now)
	require.Len(t, rows[0].Recent, 1)
	assert.Empty(t, rows[0].Recent[0].MethodName)
}

func TestNotifications(t *testing.T) {
	n := Notifications(fixture(t), now)

	assert.False(t, n.Empty())
	assert.Equal(t, []string{"a"}, reminderIDs(n.Overdue))
	assert.Equal(t, []string{"b", "d"}, reminderIDs(n.DueToday))
	assert.True(t, day(2024, time.March, 8).Equal(n.Overdue[0].Next))
}

func TestNotificationsListsAreDisjoint(t *testing.T) {
	s := fixture(t)
	// e's next date is midnight today, which is already in the past.
	s.AddCompany(company("e", "Echo", 1))
	s.AddCommunication(types.Communication{ID: "k4", CompanyID: "e", MethodID: "5", Date: day(2024, time.March, 14)})

	n := Notifications(s, now)
	seen := map[string]bool{}
	for _, id := range reminderIDs(n.Overdue) {
		seen[id] = true
	}
	for _, id := range reminderIDs(n.DueToday) {
		assert.False(t, seen[id], "company %s is in both lists", id)
	}
	assert.Contains(t, reminderIDs(n.DueToday), "e")
}

func TestNotificationsEmpty(t *testing.T) {
	s := store.New(store.WithClock(func() time.Time { return now }))
	s.AddCompany(company("c", "Crate", 30))
	s.AddCommunication(types.Communication{ID: "k", CompanyID: "c", MethodID: "1", Date: day(2024, time.March, 14)})

	n := Notifications(s, now)
	assert.True(t, n.Empty())
}

func TestCalendarMonth(t *testing.T) {
	m := CalendarMonth(fixture(t), day(2024, time.March, 20), now)

	assert.Equal(t, 2024, m.Year)
	assert.Equal(t, time.March, m.Month)
	assert.Equal(t, 5, m.LeadingBlanks, "March 1 2024 is a Friday")
	require.Len(t, m.Days, 31)

	first := m.Days[0]
	assert.True(t, day(2024, time.March, 1).Equal(first.Date))
	require.Len(t, first.Communications, 2)
	assert.Equal(t, "k1", first.Communications[0].Communication.ID)
	assert.Equal(t, "Acme", first.Communications[0].CompanyName)
	assert.Equal(t, "k2", first.Communications[1].Communication.ID)
	assert.Equal(t, "LinkedIn Post", first.Communications[1].MethodName)

	assert.Equal(t, []string{"a"}, reminderIDs(m.Days[7].Due))
	assert.Equal(t, []string{"b", "d"}, reminderIDs(m.Days[14].Due))
	assert.Len(t, m.Days[9].Communications, 1)

	for i, d := range m.Days {
		assert.Equal(t, i == 14, d.Today, "day %d", i+1)
	}
}

func TestCalendarMonthGrid(t *testing.T) {
	tests := []struct {
		name   string
		month  time.Time
		blanks int
		days   int
	}{
		{"leap february", day(2024, time.February, 10), 4, 29},
		{"non-leap february", day(2023, time.February, 1), 3, 28},
		{"month starting sunday", day(2023, time.October, 31), 0, 31},
		{"april", day(2024, time.April, 1), 1, 30},
	}
	s := fixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CalendarMonth(s, tt.month, now)
			assert.Equal(t, tt.blanks, m.LeadingBlanks)
			assert.Len(t, m.Days, tt.days)
		})
	}
}

func TestCalendarMonthOtherMonthsAreEmpty(t *testing.T) {
	m := CalendarMonth(fixture(t), day(2024, time.April, 1), now)

	assert.Equal(t, []string{"c"}, reminderIDs(m.Days[8].Due))
	for _, d := range m.Days {
		assert.Empty(t, d.Communications)
		assert.False(t, d.Today)
	}
}

func TestCalendarMonthKeepsOrphanedCommunications(t *testing.T) {
	s := fixture(t)
	s.DeleteCompany("a")

	m := CalendarMonth(s, now, now)
	require.Len(t, m.Days[0].Communications, 2)
	assert.Empty(t, m.Days[0].Communications[0].CompanyName)
}
