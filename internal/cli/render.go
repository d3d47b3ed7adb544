// Output helpers shared by the cadence commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

// Date layouts for human-readable output.
const (
	shortDateLayout = "Jan 2"
	longDateLayout  = "Jan 2, 2006"
)

var (
	headingStyle  = lipgloss.NewStyle().Bold(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dueTodayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	todayStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// statusStyle returns the style used for rows with status st.
func statusStyle(st types.Status) lipgloss.Style {
	switch st {
	case types.StatusOverdue:
		return overdueStyle
	case types.StatusDueToday:
		return dueTodayStyle
	default:
		return lipgloss.NewStyle()
	}
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

// table buffers tab-separated rows and prints them aligned.
type table struct {
	sb strings.Builder
	tw *tabwriter.Writer
}

func newTable(header ...string) *table {
	t := &table{}
	t.tw = tabwriter.NewWriter(&t.sb, 0, 0, 2, ' ', 0)
	t.row(header...)
	dashes := make([]string, len(header))
	for i, h := range header {
		dashes[i] = strings.Repeat("-", len(h))
	}
	t.row(dashes...)
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

// print writes the aligned table, trimming trailing whitespace from each
// line. style, when non-nil, renders each data line.
func (t *table) print(w io.Writer, style func(i int) lipgloss.Style) {
	t.tw.Flush()
	lines := strings.Split(strings.TrimRight(t.sb.String(), "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " ")
		if i >= 2 && style != nil {
			line = style(i - 2).Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

// shortID truncates an id to its first 8 characters for readability.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func formatDate(t time.Time) string {
	return t.Format(longDateLayout)
}

// orDash returns s, or "-" when s is empty.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
