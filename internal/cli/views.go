// Read-only views: dashboard, notifications, calendar.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cadence/internal/views"
	"github.com/mesh-intelligence/cadence/pkg/cadence"
	"github.com/mesh-intelligence/cadence/pkg/types"
)

// monthLayout is the --month flag format.
const monthLayout = "2006-01"

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show every company with recent communications and next due date",
		Long: `Dashboard lists every company with its last five communications and the
next due date. Overdue rows are shown in red and rows due today in yellow.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *cadence.Session) error {
				rows := views.Dashboard(s.Store, a.now())
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return writeJSON(out, nonNilSlice(rows))
				}
				printDashboard(out, rows)
				return nil
			})
		},
	}
}

func printDashboard(w io.Writer, rows []views.DashboardRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No companies found.")
		return
	}
	t := newTable("COMPANY", "LAST COMMUNICATIONS", "NEXT", "STATUS")
	for _, r := range rows {
		recent := make([]string, len(r.Recent))
		for i, e := range r.Recent {
			recent[i] = e.Communication.Date.Format(shortDateLayout)
			if e.MethodName != "" {
				recent[i] += " " + e.MethodName
			}
		}
		t.row(truncate(r.Company.Name, 32), orDash(strings.Join(recent, ", ")), formatDate(r.Next), r.Status.Label())
	}
	t.print(w, func(i int) lipgloss.Style { return statusStyle(rows[i].Status) })
}

func newNotificationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "notifications",
		Short: "Show overdue and due-today reminders",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *cadence.Session) error {
				n := views.Notifications(s.Store, a.now())
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					n.Overdue = nonNilSlice(n.Overdue)
					n.DueToday = nonNilSlice(n.DueToday)
					return writeJSON(out, n)
				}
				printNotifications(out, n)
				return nil
			})
		},
	}
}

func printNotifications(w io.Writer, n views.Reminders) {
	if n.Empty() {
		fmt.Fprintln(w, "No pending notifications")
		return
	}
	section := func(title string, style lipgloss.Style, reminders []views.Reminder) {
		if len(reminders) == 0 {
			return
		}
		fmt.Fprintln(w, style.Bold(true).Render(title))
		for _, r := range reminders {
			fmt.Fprintf(w, "  %s  %s\n", r.Company.Name, style.Render("Due: "+formatDate(r.Next)))
		}
	}
	section("Overdue Communications", overdueStyle, n.Overdue)
	if len(n.Overdue) > 0 && len(n.DueToday) > 0 {
		fmt.Fprintln(w)
	}
	section("Due Today", dueTodayStyle, n.DueToday)
}

func newCalendarCmd(a *app) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month of logged and due communications",
		Long: `Calendar prints a Sunday-first month grid. Days marked * have logged
communications and days marked ! have a company due. The details follow the grid.

Example:
  cadence calendar
  cadence calendar --month 2024-03`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			target := now
			if cmd.Flags().Changed("month") {
				t, err := time.ParseInLocation(monthLayout, month, time.Local)
				if err != nil {
					return usageErrorf("invalid --month %q: expected YYYY-MM", month)
				}
				target = t
			}
			return a.withSession(func(s *cadence.Session) error {
				m := views.CalendarMonth(s.Store, target, now)
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return writeJSON(out, m)
				}
				printCalendar(out, m, now)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to show, YYYY-MM (default: current month)")
	return cmd
}

func printCalendar(w io.Writer, m views.Month, now time.Time) {
	title := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.Local).Format("January 2006")
	fmt.Fprintln(w, headingStyle.Render(title))
	fmt.Fprintln(w, "Sun Mon Tue Wed Thu Fri Sat")

	var line strings.Builder
	line.WriteString(strings.Repeat("    ", m.LeadingBlanks))
	col := m.LeadingBlanks
	for _, d := range m.Days {
		marker := " "
		switch {
		case len(d.Due) > 0:
			marker = "!"
		case len(d.Communications) > 0:
			marker = "*"
		}
		cell := fmt.Sprintf("%3d%s", d.Date.Day(), marker)
		if d.Today {
			cell = todayStyle.Render(cell)
		}
		line.WriteString(cell)
		col++
		if col == 7 {
			fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
			line.Reset()
			col = 0
		}
	}
	if line.Len() > 0 {
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	for _, d := range m.Days {
		if len(d.Communications) == 0 && len(d.Due) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingStyle.Render(d.Date.Format("Mon Jan 2")))
		for _, e := range d.Communications {
			fmt.Fprintf(w, "  %s  %s\n", orDash(e.CompanyName), mutedStyle.Render(orDash(e.MethodName)))
		}
		for _, r := range d.Due {
			status := types.Classify(r.Next, now)
			fmt.Fprintf(w, "  %s  %s\n", r.Company.Name, statusStyle(status).Render("due"))
		}
	}
}
